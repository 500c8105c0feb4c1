// Copyright 2026 The gosmali Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

// LEB128 decoding (spec.md §4.2). Every DEX variable-length field (class
// data counts, encoded-value array/annotation lengths, debug-info operands)
// goes through one of these three entry points. None of them allocate; each
// returns the decoded value and the number of bytes consumed so callers can
// advance a cursor.

// maxLEB128Bytes bounds how many input bytes a 32-bit LEB128 value can
// legally occupy; a longer run is an over-long encoding.
const maxLEB128Bytes = 5

// DecodeULEB128 decodes an unsigned LEB128 value from the start of data. It
// fails with a *VarIntError if data is truncated, the encoding runs past
// maxLEB128Bytes, or the decoded magnitude overflows uint32.
func DecodeULEB128(data []byte) (value uint32, n int, err error) {
	var result uint32
	var shift uint
	for n = 0; ; n++ {
		if n >= maxLEB128Bytes {
			return 0, 0, &VarIntError{Offset: uint32(n), Reason: "uleb128 too long"}
		}
		if n >= len(data) {
			return 0, 0, &VarIntError{Offset: uint32(n), Reason: "truncated uleb128"}
		}
		b := data[n]
		contributed := uint32(b&0x7f) << shift
		if shift >= 32 || (contributed>>shift) != uint32(b&0x7f) {
			return 0, 0, &VarIntError{Offset: uint32(n), Reason: "uleb128 overflows u32"}
		}
		result |= contributed
		if b&0x80 == 0 {
			n++
			return result, n, nil
		}
		shift += 7
	}
}

// DecodeSLEB128 decodes a signed LEB128 value from the start of data.
func DecodeSLEB128(data []byte) (value int32, n int, err error) {
	var result int32
	var shift uint
	var b byte
	for n = 0; ; n++ {
		if n >= maxLEB128Bytes {
			return 0, 0, &VarIntError{Offset: uint32(n), Reason: "sleb128 too long"}
		}
		if n >= len(data) {
			return 0, 0, &VarIntError{Offset: uint32(n), Reason: "truncated sleb128"}
		}
		b = data[n]
		result |= int32(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}
	n++
	// Sign-extend if the sign bit of the last group is set and there is
	// room left below the 32-bit boundary.
	if shift < 32 && (b&0x40) != 0 {
		result |= -1 << shift
	}
	return result, n, nil
}

// DecodeULEB128p1 decodes the "plus-one biased" unsigned variant used for
// optional indices: an encoded 0 means "-1" (absent), otherwise the decoded
// value minus one is returned.
func DecodeULEB128p1(data []byte) (value int32, n int, err error) {
	raw, n, err := DecodeULEB128(data)
	if err != nil {
		return 0, 0, err
	}
	return int32(raw) - 1, n, nil
}

// leb128Cursor advances pos past one ULEB128 value and returns it. Used
// throughout the class-data and encoded-value readers, which chain many
// such decodes over a single byte slice.
func leb128Cursor(data []byte, pos *int) (uint32, error) {
	v, n, err := DecodeULEB128(data[*pos:])
	if err != nil {
		return 0, err
	}
	*pos += n
	return v, nil
}

func sleb128Cursor(data []byte, pos *int) (int32, error) {
	v, n, err := DecodeSLEB128(data[*pos:])
	if err != nil {
		return 0, err
	}
	*pos += n
	return v, nil
}

func leb128p1Cursor(data []byte, pos *int) (int32, error) {
	v, n, err := DecodeULEB128p1(data[*pos:])
	if err != nil {
		return 0, err
	}
	*pos += n
	return v, nil
}
