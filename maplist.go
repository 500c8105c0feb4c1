// Copyright 2026 The gosmali Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import "encoding/binary"

// MapItem is one entry of the map list (spec.md §3): a count and offset of
// every item of a given type present in the file.
type MapItem struct {
	Type     MapItemType
	Reserved uint16
	Size     uint32
	Offset   uint32
}

// mapItemSize is sizeof(map_item) on disk: u16 + u16 + u32 + u32.
const mapItemSize = 12

// parseMapList decodes the map list at off: a u32 count followed by that
// many 12-byte entries. Grounded on the teacher's section.go, which builds
// a lookup table from a fixed-width-entry array the same way (there: the
// section header table; here: the map item table).
func parseMapList(data []byte, off uint32) ([]MapItem, error) {
	if off == 0 {
		return nil, nil
	}
	if uint64(off)+4 > uint64(len(data)) {
		return nil, &DexLayoutError{ItemTy: "MapList", Offset: off, Length: 4, FileSize: uint32(len(data))}
	}
	count := binary.LittleEndian.Uint32(data[off : off+4])
	if uint64(4)+uint64(count)*mapItemSize > uint64(len(data))-uint64(off) {
		return nil, &DexLayoutError{ItemTy: "MapList", Offset: off, Length: mapItemSize, FileSize: uint32(len(data))}
	}
	items := make([]MapItem, 0, count)
	cursor := off + 4
	for i := uint32(0); i < count; i++ {
		end := uint64(cursor) + mapItemSize
		if end > uint64(len(data)) {
			return nil, &DexLayoutError{ItemTy: "MapItem", Offset: cursor, Length: mapItemSize, FileSize: uint32(len(data))}
		}
		it := MapItem{
			Type:     MapItemType(binary.LittleEndian.Uint16(data[cursor : cursor+2])),
			Reserved: binary.LittleEndian.Uint16(data[cursor+2 : cursor+4]),
			Size:     binary.LittleEndian.Uint32(data[cursor+4 : cursor+8]),
			Offset:   binary.LittleEndian.Uint32(data[cursor+8 : cursor+12]),
		}
		items = append(items, it)
		cursor += mapItemSize
	}
	return items, nil
}

// findMapItem returns the first map item of the given type, if present.
func findMapItem(items []MapItem, ty MapItemType) (MapItem, bool) {
	for _, it := range items {
		if it.Type == ty {
			return it, true
		}
	}
	return MapItem{}, false
}
