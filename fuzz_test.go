// Copyright 2026 The gosmali Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import (
	"crypto/sha1"
	"encoding/binary"
	"hash/adler32"
	"testing"
)

// buildMinimalDex assembles a structurally valid, empty DEX file (no
// strings, types, protos, fields, methods, or classes) with a correctly
// computed checksum and signature, so corpus seeds pass VerifyAll instead of
// being rejected before any interesting code runs.
func buildMinimalDex() []byte {
	const size = HeaderSizeLegacy
	data := make([]byte, size)
	copy(data[0:8], []byte("dex\n035\x00"))
	binary.LittleEndian.PutUint32(data[32:36], size)  // FileSize
	binary.LittleEndian.PutUint32(data[36:40], size)  // HeaderSize
	binary.LittleEndian.PutUint32(data[40:44], EndianConstant)
	// LinkSize/LinkOff/MapOff/*IDsSize/*IDsOff/DataSize/DataOff all stay 0.

	sig := sha1.Sum(data[32:size])
	copy(data[12:32], sig[:])

	checksum := adler32.Checksum(data[12:size])
	binary.LittleEndian.PutUint32(data[8:12], checksum)

	return data
}

func FuzzOpen(f *testing.F) {
	f.Add(buildMinimalDex())
	f.Add([]byte("dex\n035\x00"))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		df, err := OpenBytes(data, &Options{Verify: VerifyAll})
		if err != nil {
			return
		}
		defer df.Close()

		for i := uint32(0); i < df.NumClassDefs(); i++ {
			cd, err := df.GetClassDef(i)
			if err != nil {
				t.Fatalf("GetClassDef(%d) failed after NumClassDefs reported it present: %v", i, err)
			}
			walkClassForFuzz(df, cd)
		}
	})
}

func FuzzMUTF8(f *testing.F) {
	f.Add([]byte("hello"))
	f.Add([]byte{0xC0, 0x80})       // encoded NUL
	f.Add([]byte{0xED, 0xA0, 0x80}) // high surrogate half
	f.Add([]byte{0xff, 0xfe, 0xfd})

	f.Fuzz(func(t *testing.T, data []byte) {
		_ = DecodeMUTF8StringLossy(data)
		if units, err := DecodeMUTF8ToUTF16(data, false); err == nil {
			_ = EncodeUTF16ToMUTF8(units)
		}
		_, _ = DecodeMUTF8String(data)
		_ = FastUTF8Unchecked(data)
	})
}

func FuzzLEB128(f *testing.F) {
	f.Add([]byte{0x00})
	f.Add([]byte{0xff, 0xff, 0xff, 0xff, 0x0f})
	f.Add([]byte{0x80, 0x80, 0x80, 0x80, 0x08})

	f.Fuzz(func(t *testing.T, data []byte) {
		if _, n, err := DecodeULEB128(data); err == nil && n > len(data) {
			t.Fatalf("DecodeULEB128 consumed %d bytes from a %d-byte input", n, len(data))
		}
		if _, n, err := DecodeSLEB128(data); err == nil && n > len(data) {
			t.Fatalf("DecodeSLEB128 consumed %d bytes from a %d-byte input", n, len(data))
		}
		if _, n, err := DecodeULEB128p1(data); err == nil && n > len(data) {
			t.Fatalf("DecodeULEB128p1 consumed %d bytes from a %d-byte input", n, len(data))
		}
	})
}

func FuzzEncodedValue(f *testing.F) {
	f.Add([]byte{byte(ValueByte), 0x00})
	f.Add([]byte{byte(ValueInt) | (3 << 5), 0x01, 0x02, 0x03, 0x04})
	f.Add([]byte{byte(ValueArray), 0x00})
	f.Add([]byte{byte(ValueAnnotation), 0x00, 0x00})

	f.Fuzz(func(t *testing.T, data []byte) {
		pos := 0
		for pos < len(data) {
			before := pos
			_, err := decodeEncodedValue(data, &pos)
			if err != nil {
				return
			}
			if pos <= before {
				t.Fatalf("decodeEncodedValue made no forward progress at offset %d", before)
			}
		}
	})
}

func FuzzInstructionStream(f *testing.F) {
	f.Add([]byte{0x00, 0x00})             // nop
	f.Add([]byte{0x01, 0x10})             // move v0, v1
	f.Add([]byte{0x0e, 0x00})             // return-void
	f.Add([]byte{0x1a, 0x00, 0x00, 0x00}) // const-string v0, string@0

	f.Fuzz(func(t *testing.T, data []byte) {
		insns := make([]uint16, len(data)/2)
		for i := range insns {
			insns[i] = binary.LittleEndian.Uint16(data[i*2 : i*2+2])
		}

		it := newInstructionIterator(insns)
		seen := 0
		for {
			in, err := it.Next()
			if err != nil {
				return
			}
			if in == nil {
				break
			}
			seen++
			if seen > len(insns)+1 {
				t.Fatalf("InstructionIterator failed to terminate over a %d-unit stream", len(insns))
			}
			_, _ = in.A()
			_, _ = in.B()
			_, _ = in.C()
			_, _ = in.H()
			_, _ = in.VarArgs()
			_, _, _ = in.ArgsRange()
		}
	})
}
