// Copyright 2026 The gosmali Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import "encoding/binary"

// Header is the fixed 112-byte (or 120-byte for version >= 41) DEX header
// (spec.md §3). Field order matches the on-disk layout; parseHeader reads
// each field little-endian from its fixed offset, the way the teacher reads
// ImageDOSHeader/ImageFileHeader in dosheader.go/ntheader.go.
type Header struct {
	Magic         [8]byte
	Checksum      uint32
	Signature     [20]byte
	FileSize      uint32
	HeaderSize    uint32
	EndianTag     uint32
	LinkSize      uint32
	LinkOff       uint32
	MapOff        uint32
	StringIDsSize uint32
	StringIDsOff  uint32
	TypeIDsSize   uint32
	TypeIDsOff    uint32
	ProtoIDsSize  uint32
	ProtoIDsOff   uint32
	FieldIDsSize  uint32
	FieldIDsOff   uint32
	MethodIDsSize uint32
	MethodIDsOff  uint32
	ClassDefsSize uint32
	ClassDefsOff  uint32
	DataSize      uint32
	DataOff       uint32

	// ContainerSize/HeaderOffset are only present (and only populated) for
	// DEX version >= 41, where multiple dex files may be concatenated into
	// one container file (SPEC_FULL.md "V41 container header").
	ContainerSize uint32
	HeaderOffset  uint32
}

// Version returns the header's numeric version, parsed from the three
// ASCII digits that follow "dex\n" in Magic.
func (h *Header) Version() int {
	v, ok := DexMagicVersions[string(h.Magic[4:7])]
	if !ok {
		return 0
	}
	return v
}

// sizeForVersion returns the expected on-disk header size for a given
// version.
func sizeForVersion(version int) uint32 {
	if version >= v41Version {
		return HeaderSizeV41
	}
	return HeaderSizeLegacy
}

// parseHeader reads and structurally validates the fixed header at offset
// 0. It never panics: every failure surfaces as a typed error, matching the
// teacher's ParseDOSHeader/ParseNTHeader contract.
func parseHeader(data []byte) (*Header, error) {
	if len(data) < HeaderSizeLegacy {
		return nil, ErrTruncatedFile
	}

	h := &Header{}
	copy(h.Magic[:], data[0:8])
	if string(h.Magic[0:4]) != dexMagic {
		return nil, ErrBadFileMagic
	}

	version := h.Version()
	if version == 0 {
		return nil, &UnknownDexVersionError{Version: string(h.Magic[4:7])}
	}

	h.Checksum = binary.LittleEndian.Uint32(data[8:12])
	copy(h.Signature[:], data[12:32])
	h.FileSize = binary.LittleEndian.Uint32(data[32:36])
	h.HeaderSize = binary.LittleEndian.Uint32(data[36:40])
	h.EndianTag = binary.LittleEndian.Uint32(data[40:44])
	h.LinkSize = binary.LittleEndian.Uint32(data[44:48])
	h.LinkOff = binary.LittleEndian.Uint32(data[48:52])
	h.MapOff = binary.LittleEndian.Uint32(data[52:56])
	h.StringIDsSize = binary.LittleEndian.Uint32(data[56:60])
	h.StringIDsOff = binary.LittleEndian.Uint32(data[60:64])
	h.TypeIDsSize = binary.LittleEndian.Uint32(data[64:68])
	h.TypeIDsOff = binary.LittleEndian.Uint32(data[68:72])
	h.ProtoIDsSize = binary.LittleEndian.Uint32(data[72:76])
	h.ProtoIDsOff = binary.LittleEndian.Uint32(data[76:80])
	h.FieldIDsSize = binary.LittleEndian.Uint32(data[80:84])
	h.FieldIDsOff = binary.LittleEndian.Uint32(data[84:88])
	h.MethodIDsSize = binary.LittleEndian.Uint32(data[88:92])
	h.MethodIDsOff = binary.LittleEndian.Uint32(data[92:96])
	h.ClassDefsSize = binary.LittleEndian.Uint32(data[96:100])
	h.ClassDefsOff = binary.LittleEndian.Uint32(data[100:104])
	h.DataSize = binary.LittleEndian.Uint32(data[104:108])
	h.DataOff = binary.LittleEndian.Uint32(data[108:112])

	expected := sizeForVersion(version)
	if h.HeaderSize != expected {
		return nil, ErrBadHeaderSize
	}

	if expected == HeaderSizeV41 {
		if len(data) < int(HeaderSizeV41) {
			return nil, ErrTruncatedFile
		}
		h.ContainerSize = binary.LittleEndian.Uint32(data[112:116])
		h.HeaderOffset = binary.LittleEndian.Uint32(data[116:120])
	}

	if h.EndianTag != EndianConstant {
		return nil, ErrUnexpectedEndianess
	}

	return h, nil
}
