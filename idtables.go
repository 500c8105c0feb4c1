// Copyright 2026 The gosmali Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import (
	"encoding/binary"
	"unsafe"
)

// Fixed-width id table row types (spec.md §3). Each table is decoded once,
// eagerly, into an owned contiguous slice when a File is opened — the
// teacher's equivalent is symbol.go's COFF symbol table, which is likewise
// sliced out as a flat array of fixed-size records resolved against a
// string table by offset.

// StringID locates a string's data in the string_data section.
type StringID struct {
	DataOff uint32
}

// TypeID names a type by a string-id reference.
type TypeID struct {
	DescriptorIdx uint32
}

// ProtoID is a method prototype: return type plus a type-list of
// parameters (ParametersOff == 0 means no parameters).
type ProtoID struct {
	ShortyIdx     uint32
	ReturnTypeIdx uint32
	ParametersOff uint32
}

// FieldID names a field as (declaring class, type, name).
type FieldID struct {
	ClassIdx uint16
	TypeIdx  uint16
	NameIdx  uint32
}

// MethodID names a method as (declaring class, prototype, name).
type MethodID struct {
	ClassIdx uint16
	ProtoIdx uint16
	NameIdx  uint32
}

// ClassDef is one class definition. SuperclassIdx and SourceFileIdx use the
// sentinel NoIndex for "none".
type ClassDef struct {
	ClassIdx        uint32
	AccessFlags     uint32
	SuperclassIdx   uint32
	InterfacesOff   uint32
	SourceFileIdx   uint32
	AnnotationsOff  uint32
	ClassDataOff    uint32
	StaticValuesOff uint32
}

// HasSuperclass reports whether SuperclassIdx is a real index rather than
// the "no superclass" sentinel (true only for java.lang.Object).
func (c *ClassDef) HasSuperclass() bool { return c.SuperclassIdx != NoIndex }

// HasSourceFile reports whether SourceFileIdx is a real index.
func (c *ClassDef) HasSourceFile() bool { return c.SourceFileIdx != NoIndex }

// MethodHandleItem describes a method handle (spec.md §3 accessor sugar).
type MethodHandleItem struct {
	MethodHandleType uint16
	Reserved1        uint16
	FieldOrMethodIdx uint16
	Reserved2        uint16
}

// CallSiteIDItem points at an encoded_array_item describing a call site.
type CallSiteIDItem struct {
	CallSiteOff uint32
}

const (
	stringIDSize       = 4
	typeIDSize         = 4
	protoIDSize        = 12
	fieldIDSize        = 8
	methodIDSize       = 8
	classDefSize       = 32
	methodHandleSize   = 8
	callSiteIDSize     = 4
)

func decodeStringIDs(data []byte, off, count uint32) []StringID {
	out := make([]StringID, count)
	for i := range out {
		p := off + uint32(i)*stringIDSize
		out[i] = StringID{DataOff: binary.LittleEndian.Uint32(data[p : p+4])}
	}
	return out
}

func decodeTypeIDs(data []byte, off, count uint32) []TypeID {
	out := make([]TypeID, count)
	for i := range out {
		p := off + uint32(i)*typeIDSize
		out[i] = TypeID{DescriptorIdx: binary.LittleEndian.Uint32(data[p : p+4])}
	}
	return out
}

func decodeProtoIDs(data []byte, off, count uint32) []ProtoID {
	out := make([]ProtoID, count)
	for i := range out {
		p := off + uint32(i)*protoIDSize
		out[i] = ProtoID{
			ShortyIdx:     binary.LittleEndian.Uint32(data[p : p+4]),
			ReturnTypeIdx: binary.LittleEndian.Uint32(data[p+4 : p+8]),
			ParametersOff: binary.LittleEndian.Uint32(data[p+8 : p+12]),
		}
	}
	return out
}

func decodeFieldIDs(data []byte, off, count uint32) []FieldID {
	out := make([]FieldID, count)
	for i := range out {
		p := off + uint32(i)*fieldIDSize
		out[i] = FieldID{
			ClassIdx: binary.LittleEndian.Uint16(data[p : p+2]),
			TypeIdx:  binary.LittleEndian.Uint16(data[p+2 : p+4]),
			NameIdx:  binary.LittleEndian.Uint32(data[p+4 : p+8]),
		}
	}
	return out
}

func decodeMethodIDs(data []byte, off, count uint32) []MethodID {
	out := make([]MethodID, count)
	for i := range out {
		p := off + uint32(i)*methodIDSize
		out[i] = MethodID{
			ClassIdx: binary.LittleEndian.Uint16(data[p : p+2]),
			ProtoIdx: binary.LittleEndian.Uint16(data[p+2 : p+4]),
			NameIdx:  binary.LittleEndian.Uint32(data[p+4 : p+8]),
		}
	}
	return out
}

func decodeClassDefs(data []byte, off, count uint32) []ClassDef {
	out := make([]ClassDef, count)
	for i := range out {
		p := off + uint32(i)*classDefSize
		out[i] = ClassDef{
			ClassIdx:        binary.LittleEndian.Uint32(data[p : p+4]),
			AccessFlags:     binary.LittleEndian.Uint32(data[p+4 : p+8]),
			SuperclassIdx:   binary.LittleEndian.Uint32(data[p+8 : p+12]),
			InterfacesOff:   binary.LittleEndian.Uint32(data[p+12 : p+16]),
			SourceFileIdx:   binary.LittleEndian.Uint32(data[p+16 : p+20]),
			AnnotationsOff:  binary.LittleEndian.Uint32(data[p+20 : p+24]),
			ClassDataOff:    binary.LittleEndian.Uint32(data[p+24 : p+28]),
			StaticValuesOff: binary.LittleEndian.Uint32(data[p+28 : p+32]),
		}
	}
	return out
}

func decodeMethodHandles(data []byte, off, count uint32) []MethodHandleItem {
	out := make([]MethodHandleItem, count)
	for i := range out {
		p := off + uint32(i)*methodHandleSize
		out[i] = MethodHandleItem{
			MethodHandleType: binary.LittleEndian.Uint16(data[p : p+2]),
			Reserved1:        binary.LittleEndian.Uint16(data[p+2 : p+4]),
			FieldOrMethodIdx: binary.LittleEndian.Uint16(data[p+4 : p+6]),
			Reserved2:        binary.LittleEndian.Uint16(data[p+6 : p+8]),
		}
	}
	return out
}

func decodeCallSiteIDs(data []byte, off, count uint32) []CallSiteIDItem {
	out := make([]CallSiteIDItem, count)
	for i := range out {
		p := off + uint32(i)*callSiteIDSize
		out[i] = CallSiteIDItem{CallSiteOff: binary.LittleEndian.Uint32(data[p : p+4])}
	}
	return out
}

// indexOfPtr resolves ref back to its position in table by pointer
// arithmetic, the way spec.md §4.6 requires for the X_idx family of
// accessors. ref must point at an element of table (or this returns
// ErrUnknownObjectRef); it must never be called with a pointer sourced from
// anywhere else.
func indexOfPtr[T any](table []T, ref *T) (uint32, error) {
	if len(table) == 0 || ref == nil {
		return 0, ErrUnknownObjectRef
	}
	base := uintptr(unsafe.Pointer(&table[0]))
	size := unsafe.Sizeof(table[0])
	p := uintptr(unsafe.Pointer(ref))
	if p < base {
		return 0, ErrUnknownObjectRef
	}
	diff := p - base
	if diff%size != 0 {
		return 0, ErrUnknownObjectRef
	}
	idx := diff / size
	if idx >= uintptr(len(table)) {
		return 0, ErrUnknownObjectRef
	}
	return uint32(idx), nil
}

// GetStringID returns the string-id at index i.
func (f *File) GetStringID(i uint32) (*StringID, error) {
	if i >= uint32(len(f.stringIDs)) {
		return nil, &DexIndexError{Index: i, Max: uint32(len(f.stringIDs)), ItemTy: "StringId"}
	}
	return &f.stringIDs[i], nil
}

// GetStringIDOpt treats NoIndex as "no index" and otherwise behaves like
// GetStringID.
func (f *File) GetStringIDOpt(i uint32) (*StringID, error) {
	if i == NoIndex {
		return nil, nil
	}
	return f.GetStringID(i)
}

// NumStringIDs returns the number of entries in the string-id table.
func (f *File) NumStringIDs() uint32 { return uint32(len(f.stringIDs)) }

// StringIDs returns the whole string-id table.
func (f *File) StringIDs() []StringID { return f.stringIDs }

// StringIDIndex converts a *StringID obtained from this File back to its
// index.
func (f *File) StringIDIndex(id *StringID) (uint32, error) { return indexOfPtr(f.stringIDs, id) }

// GetTypeID returns the type-id at index i.
func (f *File) GetTypeID(i uint32) (*TypeID, error) {
	if i >= uint32(len(f.typeIDs)) {
		return nil, &DexIndexError{Index: i, Max: uint32(len(f.typeIDs)), ItemTy: "TypeId"}
	}
	return &f.typeIDs[i], nil
}

// GetTypeIDOpt treats NoIndex as "no index".
func (f *File) GetTypeIDOpt(i uint32) (*TypeID, error) {
	if i == NoIndex {
		return nil, nil
	}
	return f.GetTypeID(i)
}

// NumTypeIDs returns the number of entries in the type-id table.
func (f *File) NumTypeIDs() uint32 { return uint32(len(f.typeIDs)) }

// TypeIDs returns the whole type-id table.
func (f *File) TypeIDs() []TypeID { return f.typeIDs }

// TypeIDIndex converts a *TypeID obtained from this File back to its index.
func (f *File) TypeIDIndex(id *TypeID) (uint32, error) { return indexOfPtr(f.typeIDs, id) }

// GetProtoID returns the proto-id at index i.
func (f *File) GetProtoID(i uint32) (*ProtoID, error) {
	if i >= uint32(len(f.protoIDs)) {
		return nil, &DexIndexError{Index: i, Max: uint32(len(f.protoIDs)), ItemTy: "ProtoId"}
	}
	return &f.protoIDs[i], nil
}

// NumProtoIDs returns the number of entries in the proto-id table.
func (f *File) NumProtoIDs() uint32 { return uint32(len(f.protoIDs)) }

// ProtoIDs returns the whole proto-id table.
func (f *File) ProtoIDs() []ProtoID { return f.protoIDs }

// ProtoIDIndex converts a *ProtoID obtained from this File back to its
// index.
func (f *File) ProtoIDIndex(id *ProtoID) (uint32, error) { return indexOfPtr(f.protoIDs, id) }

// GetFieldID returns the field-id at index i.
func (f *File) GetFieldID(i uint32) (*FieldID, error) {
	if i >= uint32(len(f.fieldIDs)) {
		return nil, &DexIndexError{Index: i, Max: uint32(len(f.fieldIDs)), ItemTy: "FieldId"}
	}
	return &f.fieldIDs[i], nil
}

// NumFieldIDs returns the number of entries in the field-id table.
func (f *File) NumFieldIDs() uint32 { return uint32(len(f.fieldIDs)) }

// FieldIDs returns the whole field-id table.
func (f *File) FieldIDs() []FieldID { return f.fieldIDs }

// FieldIDIndex converts a *FieldID obtained from this File back to its
// index.
func (f *File) FieldIDIndex(id *FieldID) (uint32, error) { return indexOfPtr(f.fieldIDs, id) }

// GetMethodID returns the method-id at index i.
func (f *File) GetMethodID(i uint32) (*MethodID, error) {
	if i >= uint32(len(f.methodIDs)) {
		return nil, &DexIndexError{Index: i, Max: uint32(len(f.methodIDs)), ItemTy: "MethodId"}
	}
	return &f.methodIDs[i], nil
}

// NumMethodIDs returns the number of entries in the method-id table.
func (f *File) NumMethodIDs() uint32 { return uint32(len(f.methodIDs)) }

// MethodIDs returns the whole method-id table.
func (f *File) MethodIDs() []MethodID { return f.methodIDs }

// MethodIDIndex converts a *MethodID obtained from this File back to its
// index.
func (f *File) MethodIDIndex(id *MethodID) (uint32, error) { return indexOfPtr(f.methodIDs, id) }

// GetClassDef returns the class-def at index i.
func (f *File) GetClassDef(i uint32) (*ClassDef, error) {
	if i >= uint32(len(f.classDefs)) {
		return nil, &DexIndexError{Index: i, Max: uint32(len(f.classDefs)), ItemTy: "ClassDef"}
	}
	return &f.classDefs[i], nil
}

// NumClassDefs returns the number of entries in the class-defs table.
func (f *File) NumClassDefs() uint32 { return uint32(len(f.classDefs)) }

// ClassDefs returns the whole class-defs table.
func (f *File) ClassDefs() []ClassDef { return f.classDefs }

// ClassDefIndex converts a *ClassDef obtained from this File back to its
// index.
func (f *File) ClassDefIndex(cd *ClassDef) (uint32, error) { return indexOfPtr(f.classDefs, cd) }

// GetMethodHandle returns the method-handle item at index i.
func (f *File) GetMethodHandle(i uint32) (*MethodHandleItem, error) {
	if i >= uint32(len(f.methodHandles)) {
		return nil, &DexIndexError{Index: i, Max: uint32(len(f.methodHandles)), ItemTy: "MethodHandleItem"}
	}
	return &f.methodHandles[i], nil
}

// NumMethodHandles returns the number of method handle items.
func (f *File) NumMethodHandles() uint32 { return uint32(len(f.methodHandles)) }

// MethodHandles returns the whole method-handle table.
func (f *File) MethodHandles() []MethodHandleItem { return f.methodHandles }

// GetCallSiteID returns the call-site-id at index i.
func (f *File) GetCallSiteID(i uint32) (*CallSiteIDItem, error) {
	if i >= uint32(len(f.callSiteIDs)) {
		return nil, &DexIndexError{Index: i, Max: uint32(len(f.callSiteIDs)), ItemTy: "CallSiteIdItem"}
	}
	return &f.callSiteIDs[i], nil
}

// NumCallSiteIDs returns the number of call-site-id entries.
func (f *File) NumCallSiteIDs() uint32 { return uint32(len(f.callSiteIDs)) }

// CallSiteIDs returns the whole call-site-id table.
func (f *File) CallSiteIDs() []CallSiteIDItem { return f.callSiteIDs }
