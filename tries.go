// Copyright 2026 The gosmali Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import "encoding/binary"

// TryItem is one fixed-width try_item record: the code-unit range it
// covers and a byte offset (relative to the handler-list region) of its
// encoded_catch_handler.
type TryItem struct {
	StartAddr  uint32
	InsnCount  uint16
	HandlerOff uint16
}

const tryItemSize = 8

// CatchHandler is one typed exception handler: type_idx == NoIndex16
// marks the synthetic catch-all entry produced when a handler list's size
// is non-positive (spec.md §3 "Encoded catch handler list").
type CatchHandler struct {
	TypeIdx uint32
	Addr    uint32
}

// TriesAccessor walks the try_item table and the trailing encoded catch
// handler list of a code item. Grounded on the teacher's exception.go,
// which parses a table of fixed-width unwind entries each pointing at a
// variable-length handler description elsewhere in the image.
type TriesAccessor struct {
	data       []byte
	triesOff   uint32
	handlerOff uint32
	count      uint16
}

// Count returns the number of try_item entries.
func (t *TriesAccessor) Count() uint16 { return t.count }

// TryItem returns the i'th try_item.
func (t *TriesAccessor) TryItem(i uint16) (TryItem, error) {
	if i >= t.count {
		return TryItem{}, &DexIndexError{Index: uint32(i), Max: uint32(t.count), ItemTy: "TryItem"}
	}
	p := t.triesOff + uint32(i)*tryItemSize
	if uint64(p)+tryItemSize > uint64(len(t.data)) {
		return TryItem{}, &DexLayoutError{ItemTy: "TryItem", Offset: p, Length: tryItemSize, FileSize: uint32(len(t.data))}
	}
	return TryItem{
		StartAddr:  binary.LittleEndian.Uint32(t.data[p : p+4]),
		InsnCount:  binary.LittleEndian.Uint16(t.data[p+4 : p+6]),
		HandlerOff: binary.LittleEndian.Uint16(t.data[p+6 : p+8]),
	}, nil
}

// CatchHandlers decodes the encoded_catch_handler at byte offset
// t.handlerOff+relOff (relOff is a TryItem.HandlerOff), returning every
// typed handler plus a synthetic catch-all (TypeIdx == NoIndex16) appended
// last when the handler list declares one.
func (t *TriesAccessor) CatchHandlers(relOff uint16) ([]CatchHandler, error) {
	off := int(t.handlerOff) + int(relOff)
	if off < 0 || off >= len(t.data) {
		return nil, &DexLayoutError{ItemTy: "EncodedCatchHandler", Offset: uint32(off), Length: 1, FileSize: uint32(len(t.data))}
	}

	pos := off
	size, err := sleb128Cursor(t.data, &pos)
	if err != nil {
		return nil, err
	}

	hasCatchAll := size <= 0
	n := size
	if hasCatchAll {
		n = -size
	}
	// Every typed handler takes at least two bytes; a count the remaining
	// bytes cannot hold (or a size of math.MinInt32, whose negation stays
	// negative) is rejected before it sizes an allocation.
	if n < 0 || int64(n)*2 > int64(len(t.data)-pos) {
		return nil, &DexLayoutError{ItemTy: "EncodedCatchHandler", Offset: uint32(off), Length: 1, FileSize: uint32(len(t.data))}
	}

	handlers := make([]CatchHandler, 0, n+1)
	for i := int32(0); i < n; i++ {
		typeIdx, err := leb128Cursor(t.data, &pos)
		if err != nil {
			return nil, err
		}
		addr, err := leb128Cursor(t.data, &pos)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, CatchHandler{TypeIdx: typeIdx, Addr: addr})
	}

	if hasCatchAll {
		addr, err := leb128Cursor(t.data, &pos)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, CatchHandler{TypeIdx: NoIndex16, Addr: addr})
	}

	return handlers, nil
}

// FindCatchHandlers returns the catch handlers of the first try_item whose
// [StartAddr, StartAddr+InsnCount) range contains pc (a program counter in
// code units), or nil if pc isn't covered by any try block.
func (t *TriesAccessor) FindCatchHandlers(pc uint32) ([]CatchHandler, error) {
	for i := uint16(0); i < t.count; i++ {
		item, err := t.TryItem(i)
		if err != nil {
			return nil, err
		}
		if pc >= item.StartAddr && pc < item.StartAddr+uint32(item.InsnCount) {
			return t.CatchHandlers(item.HandlerOff)
		}
	}
	return nil, nil
}
