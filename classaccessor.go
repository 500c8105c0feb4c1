// Copyright 2026 The gosmali Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

// ClassAccessor walks a class_data_item (spec.md §4.10): four ULEB128
// counts followed by delta-index-encoded field and method entries. Each
// entry's *_idx_diff is added to a running total reset to 0 at the start of
// each of the four sections (static fields, instance fields, direct
// methods, virtual methods), so the first member of each section carries
// its absolute index directly and every subsequent one is relative to the
// previous. Grounded on
// original_source/src/file/class_accessor.rs's ClassAccessor, adapted from
// its visitor/DataIterator split to the teacher's dotnet_metadata_tables.go
// idiom of decoding a whole table into a slice up front and handing back
// typed rows.
type ClassAccessor struct {
	NumStaticFields   uint32
	NumInstanceFields uint32
	NumDirectMethods  uint32
	NumVirtualMethods uint32

	data       []byte
	fieldsOff  int
}

// EncodedField is one decoded field entry of a class_data_item.
type EncodedField struct {
	FieldIdx    uint32
	AccessFlags uint32
	IsStatic    bool
}

// EncodedMethod is one decoded method entry of a class_data_item.
type EncodedMethod struct {
	MethodIdx   uint32
	AccessFlags uint32
	CodeOff     uint32
	IsDirect    bool
}

// GetClassAccessor returns a ClassAccessor for cd, or nil if the class has
// no class data (ClassDataOff == 0, e.g. a marker interface).
func (f *File) GetClassAccessor(cd *ClassDef) (*ClassAccessor, error) {
	if cd.ClassDataOff == 0 {
		return nil, nil
	}
	data := f.container.Data()
	off := cd.ClassDataOff
	if uint64(off) >= uint64(len(data)) {
		return nil, &DexLayoutError{ItemTy: "ClassDataItem", Offset: off, Length: 1, FileSize: uint32(len(data))}
	}

	pos := 0
	body := data[off:]
	numStatic, err := leb128Cursor(body, &pos)
	if err != nil {
		return nil, err
	}
	numInstance, err := leb128Cursor(body, &pos)
	if err != nil {
		return nil, err
	}
	numDirect, err := leb128Cursor(body, &pos)
	if err != nil {
		return nil, err
	}
	numVirtual, err := leb128Cursor(body, &pos)
	if err != nil {
		return nil, err
	}

	return &ClassAccessor{
		NumStaticFields:   numStatic,
		NumInstanceFields: numInstance,
		NumDirectMethods:  numDirect,
		NumVirtualMethods: numVirtual,
		data:              body,
		fieldsOff:         pos,
	}, nil
}

// NumFields returns the total number of fields (static + instance).
func (c *ClassAccessor) NumFields() uint32 { return c.NumStaticFields + c.NumInstanceFields }

// NumMethods returns the total number of methods (direct + virtual).
func (c *ClassAccessor) NumMethods() uint32 { return c.NumDirectMethods + c.NumVirtualMethods }

func addIndexDelta(cur uint32, diff uint32) (uint32, error) {
	next := cur + diff
	if next < cur {
		return 0, ErrBadEncodedIndex
	}
	return next, nil
}

func decodeFieldRun(data []byte, pos *int, count uint32, static bool) ([]EncodedField, error) {
	out := make([]EncodedField, 0, count)
	var idx uint32
	for i := uint32(0); i < count; i++ {
		diff, err := leb128Cursor(data, pos)
		if err != nil {
			return nil, err
		}
		idx, err = addIndexDelta(idx, diff)
		if err != nil {
			return nil, err
		}
		accessFlags, err := leb128Cursor(data, pos)
		if err != nil {
			return nil, err
		}
		out = append(out, EncodedField{FieldIdx: idx, AccessFlags: accessFlags, IsStatic: static})
	}
	return out, nil
}

func decodeMethodRun(data []byte, pos *int, count uint32, direct bool) ([]EncodedMethod, error) {
	out := make([]EncodedMethod, 0, count)
	var idx uint32
	for i := uint32(0); i < count; i++ {
		diff, err := leb128Cursor(data, pos)
		if err != nil {
			return nil, err
		}
		idx, err = addIndexDelta(idx, diff)
		if err != nil {
			return nil, err
		}
		accessFlags, err := leb128Cursor(data, pos)
		if err != nil {
			return nil, err
		}
		codeOff, err := leb128Cursor(data, pos)
		if err != nil {
			return nil, err
		}
		out = append(out, EncodedMethod{MethodIdx: idx, AccessFlags: accessFlags, CodeOff: codeOff, IsDirect: direct})
	}
	return out, nil
}

// StaticFields decodes and returns every static field entry.
func (c *ClassAccessor) StaticFields() ([]EncodedField, error) {
	pos := c.fieldsOff
	return decodeFieldRun(c.data, &pos, c.NumStaticFields, true)
}

// InstanceFields decodes and returns every instance field entry. The
// decoder re-walks the static section first since the instance section's
// bytes start where the static section's end; its running index starts
// again at 0.
func (c *ClassAccessor) InstanceFields() ([]EncodedField, error) {
	pos := c.fieldsOff
	if _, err := decodeFieldRun(c.data, &pos, c.NumStaticFields, true); err != nil {
		return nil, err
	}
	return decodeFieldRun(c.data, &pos, c.NumInstanceFields, false)
}

// DirectMethods decodes and returns every direct (static/private/
// constructor) method entry.
func (c *ClassAccessor) DirectMethods() ([]EncodedMethod, error) {
	pos := c.fieldsOff
	if _, err := decodeFieldRun(c.data, &pos, c.NumStaticFields, true); err != nil {
		return nil, err
	}
	if _, err := decodeFieldRun(c.data, &pos, c.NumInstanceFields, false); err != nil {
		return nil, err
	}
	return decodeMethodRun(c.data, &pos, c.NumDirectMethods, true)
}

// VirtualMethods decodes and returns every virtual method entry.
func (c *ClassAccessor) VirtualMethods() ([]EncodedMethod, error) {
	pos := c.fieldsOff
	if _, err := decodeFieldRun(c.data, &pos, c.NumStaticFields, true); err != nil {
		return nil, err
	}
	if _, err := decodeFieldRun(c.data, &pos, c.NumInstanceFields, false); err != nil {
		return nil, err
	}
	if _, err := decodeMethodRun(c.data, &pos, c.NumDirectMethods, true); err != nil {
		return nil, err
	}
	return decodeMethodRun(c.data, &pos, c.NumVirtualMethods, false)
}

// FieldVisitor is called once per field during VisitFields, in on-disk
// order (all static fields, then all instance fields).
type FieldVisitor func(EncodedField) error

// MethodVisitor is called once per method during VisitMethods, in on-disk
// order (all direct methods, then all virtual methods).
type MethodVisitor func(EncodedMethod) error

// VisitFields streams every field through visit without materializing an
// intermediate slice, mirroring class_accessor.rs's visit_fields.
func (c *ClassAccessor) VisitFields(visit FieldVisitor) error {
	pos := c.fieldsOff
	var idx uint32
	for i, n := uint32(0), c.NumStaticFields; i < n; i++ {
		f, err := visitOneField(c.data, &pos, &idx)
		if err != nil {
			return err
		}
		f.IsStatic = true
		if err := visit(f); err != nil {
			return err
		}
	}
	idx = 0
	for i, n := uint32(0), c.NumInstanceFields; i < n; i++ {
		f, err := visitOneField(c.data, &pos, &idx)
		if err != nil {
			return err
		}
		f.IsStatic = false
		if err := visit(f); err != nil {
			return err
		}
	}
	return nil
}

// VisitMethods streams every method through visit without materializing an
// intermediate slice, mirroring class_accessor.rs's visit_methods.
func (c *ClassAccessor) VisitMethods(visit MethodVisitor) error {
	pos := c.fieldsOff
	var idx uint32
	for i, n := uint32(0), c.NumStaticFields; i < n; i++ {
		if _, err := visitOneField(c.data, &pos, &idx); err != nil {
			return err
		}
	}
	idx = 0
	for i, n := uint32(0), c.NumInstanceFields; i < n; i++ {
		if _, err := visitOneField(c.data, &pos, &idx); err != nil {
			return err
		}
	}

	idx = 0
	for i, n := uint32(0), c.NumDirectMethods; i < n; i++ {
		m, err := visitOneMethod(c.data, &pos, &idx)
		if err != nil {
			return err
		}
		m.IsDirect = true
		if err := visit(m); err != nil {
			return err
		}
	}
	idx = 0
	for i, n := uint32(0), c.NumVirtualMethods; i < n; i++ {
		m, err := visitOneMethod(c.data, &pos, &idx)
		if err != nil {
			return err
		}
		m.IsDirect = false
		if err := visit(m); err != nil {
			return err
		}
	}
	return nil
}

func visitOneField(data []byte, pos *int, idx *uint32) (EncodedField, error) {
	diff, err := leb128Cursor(data, pos)
	if err != nil {
		return EncodedField{}, err
	}
	next, err := addIndexDelta(*idx, diff)
	if err != nil {
		return EncodedField{}, err
	}
	*idx = next
	accessFlags, err := leb128Cursor(data, pos)
	if err != nil {
		return EncodedField{}, err
	}
	return EncodedField{FieldIdx: *idx, AccessFlags: accessFlags}, nil
}

func visitOneMethod(data []byte, pos *int, idx *uint32) (EncodedMethod, error) {
	diff, err := leb128Cursor(data, pos)
	if err != nil {
		return EncodedMethod{}, err
	}
	next, err := addIndexDelta(*idx, diff)
	if err != nil {
		return EncodedMethod{}, err
	}
	*idx = next
	accessFlags, err := leb128Cursor(data, pos)
	if err != nil {
		return EncodedMethod{}, err
	}
	codeOff, err := leb128Cursor(data, pos)
	if err != nil {
		return EncodedMethod{}, err
	}
	return EncodedMethod{MethodIdx: *idx, AccessFlags: accessFlags, CodeOff: codeOff}, nil
}
