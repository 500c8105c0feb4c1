// Copyright 2026 The gosmali Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

// Debug info (spec.md §4.13) is a byte-code state machine: a header giving
// the method's starting line number and parameter name indices, followed
// by a stream of opcodes that advance an (address, line) register pair and
// emit position/local-variable events. Grounded on the teacher's debug.go
// const-table idiom for enumerating a small fixed opcode space, adapted
// from PE's single-byte debug directory Type field to Dalvik's DBG_*
// byte-code.
const (
	DbgEndSequence         = 0x00
	DbgAdvancePC           = 0x01
	DbgAdvanceLine         = 0x02
	DbgStartLocal          = 0x03
	DbgStartLocalExtended  = 0x04
	DbgEndLocal            = 0x05
	DbgRestartLocal        = 0x06
	DbgSetPrologueEnd      = 0x07
	DbgSetEpilogueBegin    = 0x08
	DbgSetFile             = 0x09
	dbgFirstSpecial        = 0x0a
	dbgLineBase            = -4
	dbgLineRange           = 15
)

// DebugPositionEntry is one emitted (address, line) row, the DEX analogue
// of a DWARF line-table row.
type DebugPositionEntry struct {
	Address uint32
	Line    uint32
}

// DebugLocalEntry is one emitted local-variable lifetime event.
type DebugLocalEntry struct {
	Address       uint32
	RegisterNum   uint32
	NameIdx       int32 // ULEB128p1: -1 means no name
	TypeIdx       int32 // ULEB128p1: -1 means no type
	SigIdx        int32 // ULEB128p1: -1 means no signature (StartLocalExtended only)
	IsStart       bool
	IsRestart     bool
}

// DebugInfo is the decoded header of a debug_info_item; ParameterNames is
// decoded together with the header, while the opcode stream after it is
// interpreted only when Walk runs, since it must be executed to find where
// it ends.
type DebugInfo struct {
	LineStart      uint32
	ParameterNames []int32 // ULEB128p1 string indices, one per method parameter

	data []byte
	pos  int
}

// GetDebugInfo decodes the debug_info_item header at off. off == 0 means
// the method carries no debug information.
func (f *File) GetDebugInfo(off uint32) (*DebugInfo, error) {
	if off == 0 {
		return nil, nil
	}
	data := f.container.Data()
	if uint64(off) >= uint64(len(data)) {
		return nil, &DexLayoutError{ItemTy: "DebugInfoItem", Offset: off, Length: 1, FileSize: uint32(len(data))}
	}

	pos := 0
	body := data[off:]
	lineStart, err := leb128Cursor(body, &pos)
	if err != nil {
		return nil, err
	}
	paramCount, err := leb128Cursor(body, &pos)
	if err != nil {
		return nil, err
	}
	params := make([]int32, paramCount)
	for i := range params {
		v, err := leb128p1Cursor(body, &pos)
		if err != nil {
			return nil, err
		}
		params[i] = v
	}

	return &DebugInfo{LineStart: lineStart, ParameterNames: params, data: body, pos: pos}, nil
}

// PositionVisitor is called once per emitted debug position row.
type PositionVisitor func(DebugPositionEntry) error

// LocalVisitor is called once per emitted local-variable event.
type LocalVisitor func(DebugLocalEntry) error

// Walk runs the debug_info_item's byte-code state machine to completion,
// calling onPosition for every emitted position row and onLocal for every
// local-variable event. Either callback may be nil to skip that stream.
func (d *DebugInfo) Walk(onPosition PositionVisitor, onLocal LocalVisitor) error {
	address := uint32(0)
	line := d.LineStart
	pos := d.pos
	data := d.data

	for {
		if pos >= len(data) {
			return ErrBadInstruction
		}
		opcode := data[pos]
		pos++

		switch {
		case opcode == DbgEndSequence:
			return nil

		case opcode == DbgAdvancePC:
			delta, err := leb128Cursor(data, &pos)
			if err != nil {
				return err
			}
			address += delta

		case opcode == DbgAdvanceLine:
			delta, err := sleb128Cursor(data, &pos)
			if err != nil {
				return err
			}
			line = uint32(int64(line) + int64(delta))

		case opcode == DbgStartLocal:
			reg, err := leb128Cursor(data, &pos)
			if err != nil {
				return err
			}
			nameIdx, err := leb128p1Cursor(data, &pos)
			if err != nil {
				return err
			}
			typeIdx, err := leb128p1Cursor(data, &pos)
			if err != nil {
				return err
			}
			if onLocal != nil {
				if err := onLocal(DebugLocalEntry{Address: address, RegisterNum: reg, NameIdx: nameIdx, TypeIdx: typeIdx, SigIdx: -1, IsStart: true}); err != nil {
					return err
				}
			}

		case opcode == DbgStartLocalExtended:
			reg, err := leb128Cursor(data, &pos)
			if err != nil {
				return err
			}
			nameIdx, err := leb128p1Cursor(data, &pos)
			if err != nil {
				return err
			}
			typeIdx, err := leb128p1Cursor(data, &pos)
			if err != nil {
				return err
			}
			sigIdx, err := leb128p1Cursor(data, &pos)
			if err != nil {
				return err
			}
			if onLocal != nil {
				if err := onLocal(DebugLocalEntry{Address: address, RegisterNum: reg, NameIdx: nameIdx, TypeIdx: typeIdx, SigIdx: sigIdx, IsStart: true}); err != nil {
					return err
				}
			}

		case opcode == DbgEndLocal:
			reg, err := leb128Cursor(data, &pos)
			if err != nil {
				return err
			}
			if onLocal != nil {
				if err := onLocal(DebugLocalEntry{Address: address, RegisterNum: reg, NameIdx: -1, TypeIdx: -1, SigIdx: -1}); err != nil {
					return err
				}
			}

		case opcode == DbgRestartLocal:
			reg, err := leb128Cursor(data, &pos)
			if err != nil {
				return err
			}
			if onLocal != nil {
				if err := onLocal(DebugLocalEntry{Address: address, RegisterNum: reg, NameIdx: -1, TypeIdx: -1, SigIdx: -1, IsRestart: true}); err != nil {
					return err
				}
			}

		case opcode == DbgSetPrologueEnd, opcode == DbgSetEpilogueBegin:
			// No operands; no observable event in this accessor.

		case opcode == DbgSetFile:
			if _, err := leb128p1Cursor(data, &pos); err != nil {
				return err
			}

		default:
			// Special opcode: adjusts both address and line in one byte.
			adjusted := int(opcode) - dbgFirstSpecial
			address += uint32(adjusted / dbgLineRange)
			line = uint32(int64(line) + int64(dbgLineBase+adjusted%dbgLineRange))
			if onPosition != nil {
				if err := onPosition(DebugPositionEntry{Address: address, Line: line}); err != nil {
					return err
				}
			}
		}
	}
}
