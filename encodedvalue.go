// Copyright 2026 The gosmali Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import "math"

// EncodedValue is the decoded form of one encoded_value (spec.md §4.8): a
// tagged union over 18 value kinds. Exactly one of the typed fields is
// meaningful, selected by Kind; which one is named in the comment next to
// each field. Grounded on original_source/src/dalvik/dex/encoded_value.rs's
// EncodedValue enum, translated from a Rust enum-with-payload to the
// teacher's own idiom of a single tagged struct (reloc.go's
// ImageBaseRelocation entries are likewise one struct shared across several
// meanings selected by a type field, rather than a Go interface per kind).
type EncodedValue struct {
	Kind EncodedValueKind

	I8       int8    // ValueByte
	I16      int16   // ValueShort
	U16      uint16  // ValueChar, a UTF-16 code unit
	I32      int32   // ValueInt
	I64      int64   // ValueLong
	F32      float32 // ValueFloat
	F64      float64 // ValueDouble
	Index    uint32  // ValueMethodType/MethodHandle/String/Type/Field/Method/Enum
	Array    []EncodedValue
	Annotation EncodedAnnotation
	Bool     bool // ValueBoolean
}

// EncodedValueKind is the low 5 bits of an encoded_value header byte.
type EncodedValueKind byte

// Recognized encoded_value kinds, named and valued to match
// original_source's VALUE_* constants (in turn the Android dex file format's
// own constants).
const (
	ValueByte         EncodedValueKind = 0x00
	ValueShort        EncodedValueKind = 0x02
	ValueChar         EncodedValueKind = 0x03
	ValueInt          EncodedValueKind = 0x04
	ValueLong         EncodedValueKind = 0x06
	ValueFloat        EncodedValueKind = 0x10
	ValueDouble       EncodedValueKind = 0x11
	ValueMethodType   EncodedValueKind = 0x15
	ValueMethodHandle EncodedValueKind = 0x16
	ValueString       EncodedValueKind = 0x17
	ValueType         EncodedValueKind = 0x18
	ValueField        EncodedValueKind = 0x19
	ValueMethod       EncodedValueKind = 0x1A
	ValueEnum         EncodedValueKind = 0x1B
	ValueArray        EncodedValueKind = 0x1C
	ValueAnnotation   EncodedValueKind = 0x1D
	ValueNull         EncodedValueKind = 0x1E
	ValueBoolean      EncodedValueKind = 0x1F
)

// EncodedAnnotation is a type index plus a set of inline name/value pairs
// (spec.md §4.8).
type EncodedAnnotation struct {
	TypeIdx  uint32
	Elements []AnnotationElement
}

// AnnotationElement names one encoded_annotation member.
type AnnotationElement struct {
	NameIdx uint32
	Value   EncodedValue
}

// readIntSized reads n little-endian bytes (1..8) as a sign-extended int64.
func readIntSized(b []byte, n int) int64 {
	var u uint64
	for i := n - 1; i >= 0; i-- {
		u = u<<8 | uint64(b[i])
	}
	shift := 64 - uint(n)*8
	return int64(u<<shift) >> shift
}

// readUintSized reads n little-endian bytes (1..8) as a zero-extended
// uint64.
func readUintSized(b []byte, n int) uint64 {
	var u uint64
	for i := n - 1; i >= 0; i-- {
		u = u<<8 | uint64(b[i])
	}
	return u
}

// decodeEncodedValue reads one encoded_value starting at data[*pos],
// advancing *pos past it.
func decodeEncodedValue(data []byte, pos *int) (EncodedValue, error) {
	if *pos >= len(data) {
		return EncodedValue{}, ErrEmptyEncodedValue
	}
	header := data[*pos]
	*pos++

	kind := EncodedValueKind(header & 0x1F)
	size := int(header>>5) + 1

	readPayload := func(maxSize int) ([]byte, error) {
		if size > maxSize {
			return nil, ErrBadEncodedValueSize
		}
		if *pos+size > len(data) {
			return nil, ErrInvalidEncodedValue
		}
		b := data[*pos : *pos+size]
		*pos += size
		return b, nil
	}

	switch kind {
	case ValueByte:
		b, err := readPayload(1)
		if err != nil {
			return EncodedValue{}, err
		}
		return EncodedValue{Kind: kind, I8: int8(b[0])}, nil
	case ValueShort:
		b, err := readPayload(2)
		if err != nil {
			return EncodedValue{}, err
		}
		return EncodedValue{Kind: kind, I16: int16(readIntSized(b, size))}, nil
	case ValueChar:
		b, err := readPayload(2)
		if err != nil {
			return EncodedValue{}, err
		}
		return EncodedValue{Kind: kind, U16: uint16(readUintSized(b, size))}, nil
	case ValueInt:
		b, err := readPayload(4)
		if err != nil {
			return EncodedValue{}, err
		}
		return EncodedValue{Kind: kind, I32: int32(readIntSized(b, size))}, nil
	case ValueLong:
		b, err := readPayload(8)
		if err != nil {
			return EncodedValue{}, err
		}
		return EncodedValue{Kind: kind, I64: readIntSized(b, size)}, nil
	case ValueFloat:
		b, err := readPayload(4)
		if err != nil {
			return EncodedValue{}, err
		}
		bits := uint32(readUintSized(b, size)) << (uint(4-size) * 8)
		return EncodedValue{Kind: kind, F32: math.Float32frombits(bits)}, nil
	case ValueDouble:
		b, err := readPayload(8)
		if err != nil {
			return EncodedValue{}, err
		}
		bits := readUintSized(b, size) << (uint(8-size) * 8)
		return EncodedValue{Kind: kind, F64: math.Float64frombits(bits)}, nil
	case ValueMethodType, ValueMethodHandle, ValueString, ValueType,
		ValueField, ValueMethod, ValueEnum:
		b, err := readPayload(4)
		if err != nil {
			return EncodedValue{}, err
		}
		return EncodedValue{Kind: kind, Index: uint32(readUintSized(b, size))}, nil
	case ValueArray:
		arr, err := decodeEncodedArray(data, pos)
		if err != nil {
			return EncodedValue{}, err
		}
		return EncodedValue{Kind: kind, Array: arr}, nil
	case ValueAnnotation:
		ann, err := decodeEncodedAnnotation(data, pos)
		if err != nil {
			return EncodedValue{}, err
		}
		return EncodedValue{Kind: kind, Annotation: ann}, nil
	case ValueNull:
		return EncodedValue{Kind: kind}, nil
	case ValueBoolean:
		return EncodedValue{Kind: kind, Bool: header&0xE0 != 0}, nil
	default:
		return EncodedValue{}, ErrBadEncodedValueType
	}
}

// decodeEncodedArray reads an encoded_array: a ULEB128 element count
// followed by that many encoded_value entries.
func decodeEncodedArray(data []byte, pos *int) ([]EncodedValue, error) {
	count, err := leb128Cursor(data, pos)
	if err != nil {
		return nil, err
	}
	if uint64(count) > uint64(len(data)-*pos) {
		return nil, ErrBadEncodedArrayLength
	}
	out := make([]EncodedValue, 0, count)
	for i := uint32(0); i < count; i++ {
		v, err := decodeEncodedValue(data, pos)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// decodeEncodedAnnotation reads an encoded_annotation: a ULEB128 type index,
// a ULEB128 element count, then that many (name_idx, value) pairs.
func decodeEncodedAnnotation(data []byte, pos *int) (EncodedAnnotation, error) {
	typeIdx, err := leb128Cursor(data, pos)
	if err != nil {
		return EncodedAnnotation{}, err
	}
	count, err := leb128Cursor(data, pos)
	if err != nil {
		return EncodedAnnotation{}, err
	}
	if uint64(count) > uint64(len(data)-*pos) {
		return EncodedAnnotation{}, ErrBadEncodedArrayLength
	}
	elems := make([]AnnotationElement, 0, count)
	for i := uint32(0); i < count; i++ {
		nameIdx, err := leb128Cursor(data, pos)
		if err != nil {
			return EncodedAnnotation{}, err
		}
		val, err := decodeEncodedValue(data, pos)
		if err != nil {
			return EncodedAnnotation{}, err
		}
		elems = append(elems, AnnotationElement{NameIdx: nameIdx, Value: val})
	}
	return EncodedAnnotation{TypeIdx: typeIdx, Elements: elems}, nil
}

// GetEncodedValue decodes a single encoded_value at byte offset off.
func (f *File) GetEncodedValue(off uint32) (EncodedValue, error) {
	data := f.container.Data()
	if uint64(off) >= uint64(len(data)) {
		return EncodedValue{}, &DexLayoutError{ItemTy: "EncodedValue", Offset: off, Length: 1, FileSize: uint32(len(data))}
	}
	pos := int(off)
	return decodeEncodedValue(data, &pos)
}

// GetEncodedArrayItem decodes the encoded_array_item at byte offset off, as
// referenced by ClassDef.StaticValuesOff or CallSiteIDItem.CallSiteOff.
func (f *File) GetEncodedArrayItem(off uint32) ([]EncodedValue, error) {
	if off == 0 {
		return nil, nil
	}
	data := f.container.Data()
	if uint64(off) >= uint64(len(data)) {
		return nil, &DexLayoutError{ItemTy: "EncodedArrayItem", Offset: off, Length: 1, FileSize: uint32(len(data))}
	}
	pos := int(off)
	return decodeEncodedArray(data, &pos)
}
