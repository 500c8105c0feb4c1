// Copyright 2026 The gosmali Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

// String data (spec.md §4.7): each string_data_item is a ULEB128 UTF-16
// length (the "UTF-16 size", i.e. the number of code units, not bytes)
// followed by MUTF-8 bytes terminated by a single NUL. Grounded on the
// teacher's resource.go pattern of resolving a table of offsets into
// variable-length payloads one at a time, on demand.

// GetStringData returns the raw MUTF-8 bytes (excluding the ULEB128 length
// prefix, but including the terminating NUL) for the string whose StringID
// is id.
func (f *File) GetStringData(id *StringID) ([]byte, error) {
	data := f.container.Data()
	off := id.DataOff
	if uint64(off) >= uint64(len(data)) {
		return nil, &DexLayoutError{ItemTy: "StringDataItem", Offset: off, Length: 1, FileSize: uint32(len(data))}
	}

	_, n, err := DecodeULEB128(data[off:])
	if err != nil {
		return nil, ErrBadStringData
	}
	start := uint64(off) + uint64(n)

	end := start
	for {
		if end >= uint64(len(data)) {
			return nil, ErrBadStringDataMissingNullByte
		}
		if data[end] == 0 {
			break
		}
		end++
	}
	return data[start : end+1], nil
}

// stringPayload strips GetStringData's trailing NUL, the form the MUTF-8
// decoders expect (the NUL is a string_data_item terminator, not part of
// the MUTF-8 payload itself: MUTF-8 never encodes a literal 0x00 byte,
// U+0000 is always the overlong C0 80).
func (f *File) stringPayload(id *StringID) ([]byte, error) {
	raw, err := f.GetStringData(id)
	if err != nil {
		return nil, err
	}
	return raw[:len(raw)-1], nil
}

// GetUTF16Size returns the declared UTF-16 code unit count for the string at
// id, without decoding the MUTF-8 bytes.
func (f *File) GetUTF16Size(id *StringID) (uint32, error) {
	data := f.container.Data()
	off := id.DataOff
	if uint64(off) >= uint64(len(data)) {
		return 0, &DexLayoutError{ItemTy: "StringDataItem", Offset: off, Length: 1, FileSize: uint32(len(data))}
	}
	size, _, err := DecodeULEB128(data[off:])
	if err != nil {
		return 0, ErrBadStringData
	}
	return size, nil
}

// GetUTF16Str decodes the string at id strictly, failing on malformed
// MUTF-8.
func (f *File) GetUTF16Str(id *StringID) (string, error) {
	raw, err := f.stringPayload(id)
	if err != nil {
		return "", err
	}
	return DecodeMUTF8String(raw)
}

// GetUTF16StrLossy decodes the string at id, substituting the replacement
// character for malformed sequences instead of failing.
func (f *File) GetUTF16StrLossy(id *StringID) (string, error) {
	raw, err := f.stringPayload(id)
	if err != nil {
		return "", err
	}
	return DecodeMUTF8StringLossy(raw), nil
}

// GetStringFast decodes the string at id via FastUTF8Unchecked, skipping
// MUTF-8 validation entirely. Only appropriate for hot paths that have
// already validated the file (e.g. after VerifyAll) and don't need correct
// handling of embedded U+0000 or supplementary code points.
func (f *File) GetStringFast(id *StringID) (string, error) {
	raw, err := f.stringPayload(id)
	if err != nil {
		return "", err
	}
	return FastUTF8Unchecked(raw), nil
}

// GetStringByIdx looks up and decodes (strictly) the string at string-id
// index i in one call.
func (f *File) GetStringByIdx(i uint32) (string, error) {
	id, err := f.GetStringID(i)
	if err != nil {
		return "", err
	}
	return f.GetUTF16Str(id)
}

// GetTypeDescriptor resolves a TypeID to its descriptor string (e.g.
// "Ljava/lang/Object;").
func (f *File) GetTypeDescriptor(t *TypeID) (string, error) {
	id, err := f.GetStringID(t.DescriptorIdx)
	if err != nil {
		return "", err
	}
	return f.GetUTF16Str(id)
}

// GetTypeDescriptorByIdx resolves a type-id index to its descriptor string.
func (f *File) GetTypeDescriptorByIdx(i uint32) (string, error) {
	t, err := f.GetTypeID(i)
	if err != nil {
		return "", err
	}
	return f.GetTypeDescriptor(t)
}
