// Copyright 2026 The gosmali Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import "encoding/binary"

// CodeItem is the fixed-width prefix of a code_item (spec.md §4.11, §3).
type CodeItem struct {
	RegistersSize uint16
	InsSize       uint16
	OutsSize      uint16
	TriesSize     uint16
	DebugInfoOff  uint32
	InsnsSize     uint32
}

const codeItemHeaderSize = 16

// CodeItemAccessor resolves the variable-length regions that follow a
// CodeItem: the instruction stream, the try-item table, and the encoded
// catch handler list. Grounded on the teacher's dotnet.go, which likewise
// derives a sequence of section offsets from a fixed header plus alignment
// rules.
type CodeItemAccessor struct {
	Item      CodeItem
	Insns     []uint16
	triesOff  uint32
	handlerOff uint32
	data      []byte
}

// GetCodeItemAccessor decodes the code_item at byte offset off.
func (f *File) GetCodeItemAccessor(off uint32) (*CodeItemAccessor, error) {
	data := f.container.Data()
	if uint64(off)+codeItemHeaderSize > uint64(len(data)) {
		return nil, &DexLayoutError{ItemTy: "CodeItem", Offset: off, Length: codeItemHeaderSize, FileSize: uint32(len(data))}
	}

	item := CodeItem{
		RegistersSize: binary.LittleEndian.Uint16(data[off : off+2]),
		InsSize:       binary.LittleEndian.Uint16(data[off+2 : off+4]),
		OutsSize:      binary.LittleEndian.Uint16(data[off+4 : off+6]),
		TriesSize:     binary.LittleEndian.Uint16(data[off+6 : off+8]),
		DebugInfoOff:  binary.LittleEndian.Uint32(data[off+8 : off+12]),
		InsnsSize:     binary.LittleEndian.Uint32(data[off+12 : off+16]),
	}

	insnsOff := off + codeItemHeaderSize
	insnsByteLen := uint64(item.InsnsSize) * 2
	if uint64(insnsOff)+insnsByteLen > uint64(len(data)) {
		return nil, &DexLayoutError{ItemTy: "CodeItem.insns", Offset: insnsOff, Length: uint32(insnsByteLen), FileSize: uint32(len(data))}
	}

	insns := make([]uint16, item.InsnsSize)
	for i := range insns {
		p := insnsOff + uint32(i)*2
		insns[i] = binary.LittleEndian.Uint16(data[p : p+2])
	}

	triesOff := insnsOff + uint32(insnsByteLen)
	if item.TriesSize != 0 && item.InsnsSize%2 == 1 {
		triesOff += 2
	}

	handlerOff := triesOff + uint32(item.TriesSize)*tryItemSize

	return &CodeItemAccessor{
		Item:       item,
		Insns:      insns,
		triesOff:   triesOff,
		handlerOff: handlerOff,
		data:       data,
	}, nil
}

// InstAt returns the code unit at program counter pc (in code units, not
// bytes), for use as the start of an instruction decode (§4.12).
func (a *CodeItemAccessor) InstAt(pc uint32) (uint16, error) {
	if pc >= uint32(len(a.Insns)) {
		return 0, ErrBadInstructionOffset
	}
	return a.Insns[pc], nil
}

// Instructions returns an Instruction iterator over the whole insns slice.
func (a *CodeItemAccessor) Instructions() *InstructionIterator {
	return newInstructionIterator(a.Insns)
}

// Tries returns a TriesAccessor over this code item's try/catch data, or
// nil if it declares no tries.
func (a *CodeItemAccessor) Tries() *TriesAccessor {
	if a.Item.TriesSize == 0 {
		return nil
	}
	return &TriesAccessor{
		data:       a.data,
		triesOff:   a.triesOff,
		handlerOff: a.handlerOff,
		count:      a.Item.TriesSize,
	}
}
