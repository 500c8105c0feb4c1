// Copyright 2026 The gosmali Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import "encoding/binary"

// Annotations (spec.md §4.9). The annotations_directory_item is a fixed
// header (class_annotations_off plus three counts) followed immediately by
// three variable-length tables, resolved eagerly since they are small and
// fixed-width; individual AnnotationItem/EncodedAnnotation payloads are
// resolved lazily through GetAnnotation. Grounded on the teacher's
// resource.go, which likewise reads a directory header followed by a run of
// fixed-width entries pointing at variable-length payloads elsewhere in the
// file.

// AnnotationVisibility is the visibility byte of an annotation_item.
type AnnotationVisibility byte

const (
	VisibilityBuild   AnnotationVisibility = 0x00
	VisibilityRuntime AnnotationVisibility = 0x01
	VisibilitySystem  AnnotationVisibility = 0x02
)

// AnnotationItem is one annotation_item: a visibility tag plus the
// annotation content.
type AnnotationItem struct {
	Visibility AnnotationVisibility
	Annotation EncodedAnnotation
}

// FieldAnnotation associates a field-id index with an annotation set.
type FieldAnnotation struct {
	FieldIdx       uint32
	AnnotationsOff uint32
}

// MethodAnnotation associates a method-id index with an annotation set.
type MethodAnnotation struct {
	MethodIdx      uint32
	AnnotationsOff uint32
}

// ParameterAnnotation associates a method-id index with an
// annotation_set_ref_list (one annotation set per parameter).
type ParameterAnnotation struct {
	MethodIdx      uint32
	AnnotationsOff uint32
}

// AnnotationsDirectory is the fully-resolved annotations_directory_item for
// one class: its own class-level annotation set plus the three typed
// tables that trail it in the file.
type AnnotationsDirectory struct {
	ClassAnnotationsOff uint32
	Fields              []FieldAnnotation
	Methods             []MethodAnnotation
	Parameters          []ParameterAnnotation
}

const (
	annotationsDirectoryHeaderSize = 16
	fieldAnnotationSize            = 8
	methodAnnotationSize           = 8
	parameterAnnotationSize        = 8
)

// GetAnnotationsDirectory decodes the annotations_directory_item at off.
func (f *File) GetAnnotationsDirectory(off uint32) (*AnnotationsDirectory, error) {
	if off == 0 {
		return nil, nil
	}
	data := f.container.Data()
	if uint64(off)+annotationsDirectoryHeaderSize > uint64(len(data)) {
		return nil, &DexLayoutError{ItemTy: "AnnotationsDirectoryItem", Offset: off, Length: annotationsDirectoryHeaderSize, FileSize: uint32(len(data))}
	}

	classAnnOff := binary.LittleEndian.Uint32(data[off : off+4])
	fieldsSize := binary.LittleEndian.Uint32(data[off+4 : off+8])
	methodsSize := binary.LittleEndian.Uint32(data[off+8 : off+12])
	paramsSize := binary.LittleEndian.Uint32(data[off+12 : off+16])

	dir := &AnnotationsDirectory{ClassAnnotationsOff: classAnnOff}
	cursor := off + annotationsDirectoryHeaderSize
	remaining := uint64(len(data)) - uint64(cursor)

	if uint64(fieldsSize)*fieldAnnotationSize > remaining {
		return nil, &DexLayoutError{ItemTy: "FieldAnnotation", Offset: cursor, Length: fieldAnnotationSize, FileSize: uint32(len(data))}
	}
	dir.Fields = make([]FieldAnnotation, fieldsSize)
	for i := range dir.Fields {
		p := cursor + uint32(i)*fieldAnnotationSize
		if uint64(p)+fieldAnnotationSize > uint64(len(data)) {
			return nil, &DexLayoutError{ItemTy: "FieldAnnotation", Offset: p, Length: fieldAnnotationSize, FileSize: uint32(len(data))}
		}
		dir.Fields[i] = FieldAnnotation{
			FieldIdx:       binary.LittleEndian.Uint32(data[p : p+4]),
			AnnotationsOff: binary.LittleEndian.Uint32(data[p+4 : p+8]),
		}
	}
	cursor += fieldsSize * fieldAnnotationSize

	if remaining = uint64(len(data)) - uint64(cursor); uint64(methodsSize)*methodAnnotationSize > remaining {
		return nil, &DexLayoutError{ItemTy: "MethodAnnotation", Offset: cursor, Length: methodAnnotationSize, FileSize: uint32(len(data))}
	}
	dir.Methods = make([]MethodAnnotation, methodsSize)
	for i := range dir.Methods {
		p := cursor + uint32(i)*methodAnnotationSize
		if uint64(p)+methodAnnotationSize > uint64(len(data)) {
			return nil, &DexLayoutError{ItemTy: "MethodAnnotation", Offset: p, Length: methodAnnotationSize, FileSize: uint32(len(data))}
		}
		dir.Methods[i] = MethodAnnotation{
			MethodIdx:      binary.LittleEndian.Uint32(data[p : p+4]),
			AnnotationsOff: binary.LittleEndian.Uint32(data[p+4 : p+8]),
		}
	}
	cursor += methodsSize * methodAnnotationSize

	if remaining = uint64(len(data)) - uint64(cursor); uint64(paramsSize)*parameterAnnotationSize > remaining {
		return nil, &DexLayoutError{ItemTy: "ParameterAnnotation", Offset: cursor, Length: parameterAnnotationSize, FileSize: uint32(len(data))}
	}
	dir.Parameters = make([]ParameterAnnotation, paramsSize)
	for i := range dir.Parameters {
		p := cursor + uint32(i)*parameterAnnotationSize
		if uint64(p)+parameterAnnotationSize > uint64(len(data)) {
			return nil, &DexLayoutError{ItemTy: "ParameterAnnotation", Offset: p, Length: parameterAnnotationSize, FileSize: uint32(len(data))}
		}
		dir.Parameters[i] = ParameterAnnotation{
			MethodIdx:      binary.LittleEndian.Uint32(data[p : p+4]),
			AnnotationsOff: binary.LittleEndian.Uint32(data[p+4 : p+8]),
		}
	}

	return dir, nil
}

// GetClassAnnotationsDirectory resolves cd's annotations_off to its
// AnnotationsDirectory, or nil if the class has no annotations.
func (f *File) GetClassAnnotationsDirectory(cd *ClassDef) (*AnnotationsDirectory, error) {
	return f.GetAnnotationsDirectory(cd.AnnotationsOff)
}

// GetAnnotationSetItem decodes an annotation_set_item at off: a u32 count
// followed by that many u32 offsets into individual annotation_item
// payloads. Returns nil if off is 0 (an empty set).
func (f *File) GetAnnotationSetItem(off uint32) ([]uint32, error) {
	if off == 0 {
		return nil, nil
	}
	data := f.container.Data()
	if uint64(off)+4 > uint64(len(data)) {
		return nil, &DexLayoutError{ItemTy: "AnnotationSetItem", Offset: off, Length: 4, FileSize: uint32(len(data))}
	}
	count := binary.LittleEndian.Uint32(data[off : off+4])
	if uint64(count)*4 > uint64(len(data))-uint64(off)-4 {
		return nil, &DexLayoutError{ItemTy: "AnnotationSetItem", Offset: off + 4, Length: 4, FileSize: uint32(len(data))}
	}
	out := make([]uint32, count)
	cursor := off + 4
	for i := range out {
		p := cursor + uint32(i)*4
		if uint64(p)+4 > uint64(len(data)) {
			return nil, &DexLayoutError{ItemTy: "AnnotationSetItem", Offset: p, Length: 4, FileSize: uint32(len(data))}
		}
		out[i] = binary.LittleEndian.Uint32(data[p : p+4])
	}
	return out, nil
}

// GetAnnotationSetRefList decodes an annotation_set_ref_list at off: a u32
// count followed by that many u32 offsets, each into an
// annotation_set_item (or 0 for "no annotations on this parameter").
func (f *File) GetAnnotationSetRefList(off uint32) ([]uint32, error) {
	return f.GetAnnotationSetItem(off)
}

// GetAnnotation decodes the annotation_item at off: a visibility byte
// followed by one encoded_annotation.
func (f *File) GetAnnotation(off uint32) (*AnnotationItem, error) {
	data := f.container.Data()
	if uint64(off) >= uint64(len(data)) {
		return nil, &DexLayoutError{ItemTy: "AnnotationItem", Offset: off, Length: 1, FileSize: uint32(len(data))}
	}
	visibility := AnnotationVisibility(data[off])
	pos := int(off) + 1
	ann, err := decodeEncodedAnnotation(data, &pos)
	if err != nil {
		return nil, err
	}
	return &AnnotationItem{Visibility: visibility, Annotation: ann}, nil
}
