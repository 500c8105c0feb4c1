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

// buildMinimalDexWithStrings builds a structurally valid DEX file (grounded
// on buildMinimalDex in fuzz_test.go) carrying one string-id table entry
// pointing at the given raw string_data_item bytes, placed immediately
// after the header.
func buildMinimalDexWithStrings(stringData []byte) []byte {
	const headerSize = HeaderSizeLegacy
	stringIDsOff := uint32(headerSize)
	stringDataOff := stringIDsOff + 4
	size := stringDataOff + uint32(len(stringData))

	data := make([]byte, size)
	copy(data[0:8], []byte("dex\n035\x00"))
	binary.LittleEndian.PutUint32(data[32:36], size)
	binary.LittleEndian.PutUint32(data[36:40], headerSize)
	binary.LittleEndian.PutUint32(data[40:44], EndianConstant)
	binary.LittleEndian.PutUint32(data[56:60], 1)            // StringIDsSize
	binary.LittleEndian.PutUint32(data[60:64], stringIDsOff) // StringIDsOff
	binary.LittleEndian.PutUint32(data[stringIDsOff:stringIDsOff+4], stringDataOff)
	copy(data[stringDataOff:], stringData)

	sig := sha1.Sum(data[32:size])
	copy(data[12:32], sig[:])

	checksum := adler32.Checksum(data[12:size])
	binary.LittleEndian.PutUint32(data[8:12], checksum)

	return data
}

// S1: a minimal valid v035 DEX with all id-table sizes zero and a correctly
// computed Adler-32 checksum must open successfully, report zero strings,
// and pass full verification.
func TestScenarioS1MinimalDex(t *testing.T) {
	data := buildMinimalDex()

	f, err := OpenBytes(data, &Options{Verify: VerifyAll})
	if err != nil {
		t.Fatalf("OpenBytes failed on a minimal valid dex: %v", err)
	}
	defer f.Close()

	if got := f.NumStringIDs(); got != 0 {
		t.Fatalf("NumStringIDs() = %d, want 0", got)
	}
	if err := f.Verify(VerifyAll); err != nil {
		t.Fatalf("Verify(VerifyAll) = %v, want nil", err)
	}
}

// S2: a single string-data item `02 48 69 00` ("Hi", ULEB128 size 2) must
// round-trip through GetStringData as the NUL-inclusive payload and decode
// to "Hi" through GetUTF16Str.
func TestScenarioS2StringHi(t *testing.T) {
	data := buildMinimalDexWithStrings([]byte{0x02, 0x48, 0x69, 0x00})

	f, err := OpenBytes(data, &Options{Verify: VerifyAll})
	if err != nil {
		t.Fatalf("OpenBytes failed: %v", err)
	}
	defer f.Close()

	id, err := f.GetStringID(0)
	if err != nil {
		t.Fatalf("GetStringID(0) failed: %v", err)
	}

	raw, err := f.GetStringData(id)
	if err != nil {
		t.Fatalf("GetStringData failed: %v", err)
	}
	want := []byte{0x48, 0x69, 0x00}
	if len(raw) != len(want) {
		t.Fatalf("GetStringData = %v, want %v", raw, want)
	}
	for i := range want {
		if raw[i] != want[i] {
			t.Fatalf("GetStringData = %v, want %v", raw, want)
		}
	}

	size, err := f.GetUTF16Size(id)
	if err != nil {
		t.Fatalf("GetUTF16Size failed: %v", err)
	}
	if size != 2 {
		t.Fatalf("GetUTF16Size() = %d, want 2", size)
	}

	s, err := f.GetUTF16Str(id)
	if err != nil {
		t.Fatalf("GetUTF16Str failed: %v", err)
	}
	if s != "Hi" {
		t.Fatalf("GetUTF16Str() = %q, want %q", s, "Hi")
	}
}

// S3: code unit 0x3012 (bytes 12 30: opcode 0x12 in the low byte, then
// B|A = 3|0) decodes as "const/4 v0, #+3" — opcode name "const/4",
// format 11n, A==0, B==3, size_in_code_units==1.
func TestScenarioS3Const4(t *testing.T) {
	insns := []uint16{0x3012}

	in, err := InstructionAt(insns, 0)
	if err != nil {
		t.Fatalf("InstructionAt failed: %v", err)
	}
	if in.Name != "const/4" {
		t.Fatalf("Name = %q, want %q", in.Name, "const/4")
	}
	if in.Format != Format11n {
		t.Fatalf("Format = %v, want Format11n", in.Format)
	}
	a, err := in.A()
	if err != nil {
		t.Fatalf("A() failed: %v", err)
	}
	if a != 0 {
		t.Fatalf("A() = %d, want 0", a)
	}
	b, err := in.B()
	if err != nil {
		t.Fatalf("B() failed: %v", err)
	}
	if b != 3 {
		t.Fatalf("B() = %d, want 3", b)
	}
	if in.SizeInCodeUnits() != 1 {
		t.Fatalf("SizeInCodeUnits() = %d, want 1", in.SizeInCodeUnits())
	}
}

// S4: a packed-switch payload of 3 targets must decode with a pretty-print
// that begins "packed-switch" and an instruction size of 4 + 3*2 = 10 code
// units — not the 1-unit size a naive opcode==0x00 lookup would produce.
func TestScenarioS4PackedSwitchPayload(t *testing.T) {
	insns := []uint16{
		identPackedSwitchPayload, // ident 0x0100
		0x0003,                   // size: 3 targets
		0x0000, 0x0000,           // first_key (lo, hi)
		0x1111, 0x2222, // target 0
		0x3333, 0x4444, // target 1
		0x5555, 0x6666, // target 2
	}

	in, err := InstructionAt(insns, 0)
	if err != nil {
		t.Fatalf("InstructionAt failed: %v", err)
	}
	if in.SizeInCodeUnits() != 10 {
		t.Fatalf("SizeInCodeUnits() = %d, want 10", in.SizeInCodeUnits())
	}

	f := &File{}
	pretty := f.PrettyInstruction(in)
	const want = "packed-switch"
	if len(pretty) < len(want) || pretty[:len(want)] != want {
		t.Fatalf("PrettyInstruction() = %q, want prefix %q", pretty, want)
	}
}

// S5: the encoded catch handler list `7F 05 00 07` (SLEB128 -1, one
// typed handler type=5/addr=0, one catch-all addr=7) must yield exactly
// those two handlers in order.
func TestScenarioS5CatchHandlers(t *testing.T) {
	data := []byte{0x7F, 0x05, 0x00, 0x07}
	ta := &TriesAccessor{data: data, handlerOff: 0}

	handlers, err := ta.CatchHandlers(0)
	if err != nil {
		t.Fatalf("CatchHandlers failed: %v", err)
	}
	if len(handlers) != 2 {
		t.Fatalf("len(handlers) = %d, want 2", len(handlers))
	}
	if handlers[0].TypeIdx != 5 || handlers[0].Addr != 0 {
		t.Fatalf("handlers[0] = %+v, want {TypeIdx:5 Addr:0}", handlers[0])
	}
	if handlers[1].TypeIdx != NoIndex16 || handlers[1].Addr != 7 {
		t.Fatalf("handlers[1] = %+v, want {TypeIdx:%d Addr:7}", handlers[1], uint32(NoIndex16))
	}
}

// S6: MUTF-8 bytes `C0 80 41 00` (encoded NUL followed by "A") strictly
// decode to "\x00A", and re-encoding the result reproduces the original
// bytes (minus the terminating NUL, which EncodeUTF16ToMUTF8 never emits).
func TestScenarioS6MUTF8NulRoundTrip(t *testing.T) {
	raw := []byte{0xC0, 0x80, 0x41}

	s, err := DecodeMUTF8String(raw)
	if err != nil {
		t.Fatalf("DecodeMUTF8String failed: %v", err)
	}
	if s != "\x00A" {
		t.Fatalf("DecodeMUTF8String() = %q, want %q", s, "\x00A")
	}

	units, err := DecodeMUTF8ToUTF16(raw, false)
	if err != nil {
		t.Fatalf("DecodeMUTF8ToUTF16 failed: %v", err)
	}
	reencoded := EncodeUTF16ToMUTF8(units)
	if len(reencoded) != len(raw) {
		t.Fatalf("EncodeUTF16ToMUTF8() = %v, want %v", reencoded, raw)
	}
	for i := range raw {
		if reencoded[i] != raw[i] {
			t.Fatalf("EncodeUTF16ToMUTF8() = %v, want %v", reencoded, raw)
		}
	}
}
