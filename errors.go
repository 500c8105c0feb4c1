// Copyright 2026 The gosmali Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Open and the header/section verification
// path. These carry no reproduction data beyond the error string, mirroring
// the teacher's sentinel errors in helper.go.
var (
	// ErrTruncatedFile is returned when the container is smaller than the
	// smallest possible header.
	ErrTruncatedFile = errors.New("dex: file too small to contain a header")

	// ErrBadFileMagic is returned when the first four magic bytes are not
	// "dex\n".
	ErrBadFileMagic = errors.New("dex: bad file magic")

	// ErrBadHeaderSize is returned when header_size does not match the
	// version-appropriate struct size (112 or 120 bytes).
	ErrBadHeaderSize = errors.New("dex: bad header size")

	// ErrUnexpectedEndianess is returned when endian_tag is not
	// EndianConstant. Reverse-endian files are declined, not byte-swapped.
	ErrUnexpectedEndianess = errors.New("dex: unexpected endian tag")

	// ErrBadChecksum is returned by Verify when the Adler-32 checksum does
	// not match the recomputed value.
	ErrBadChecksum = errors.New("dex: checksum mismatch")

	// ErrBadSignature is returned by Verify when the SHA-1 signature does
	// not match the recomputed value.
	ErrBadSignature = errors.New("dex: signature mismatch")

	// ErrUnknownObjectRef is returned by an index-of accessor when the
	// supplied reference does not point inside the expected table.
	ErrUnknownObjectRef = errors.New("dex: reference does not belong to this table")

	// ErrEmptyEncodedValue is returned when an encoded-value header byte
	// is read from an empty byte window.
	ErrEmptyEncodedValue = errors.New("dex: empty encoded value")

	// ErrBadEncodedValueType is returned when a 5-bit value_type does not
	// correspond to any of the 18 recognized encoded value kinds.
	ErrBadEncodedValueType = errors.New("dex: unrecognized encoded value type")

	// ErrInvalidEncodedValue is returned when an encoded value's payload
	// bytes run past the end of the byte window. (Array/annotation element
	// counts that cannot fit are ErrBadEncodedArrayLength.)
	ErrInvalidEncodedValue = errors.New("dex: invalid encoded value")

	// ErrBadEncodedValueSize is returned when value_arg implies a byte
	// width larger than the target type supports.
	ErrBadEncodedValueSize = errors.New("dex: bad encoded value size")

	// ErrBadEncodedArrayLength is returned when an encoded_array's element
	// count overflows the remaining bytes.
	ErrBadEncodedArrayLength = errors.New("dex: bad encoded array length")

	// ErrBadEncodedIndex is returned when a class-data delta-encoded index
	// sum would overflow uint32.
	ErrBadEncodedIndex = errors.New("dex: encoded index overflow")

	// ErrBadInstruction is returned when fetch16/fetch32 run past the end
	// of the instruction stream.
	ErrBadInstruction = errors.New("dex: truncated instruction stream")

	// ErrBadInstructionOffset is returned when an instruction accessor is
	// asked for a program counter outside the stream.
	ErrBadInstructionOffset = errors.New("dex: instruction offset out of range")

	// ErrInvalidArgCount is returned for a 35c/45cc format instruction
	// whose register count argument A exceeds 5.
	ErrInvalidArgCount = errors.New("dex: invalid argument count")

	// ErrInvalidArgRange is returned for a 3rc/4rcc format instruction
	// whose [first, first+count) range overflows uint16.
	ErrInvalidArgRange = errors.New("dex: invalid argument range")

	// ErrBadStringData is returned when a string-id's ULEB128 length
	// prefix cannot be decoded.
	ErrBadStringData = errors.New("dex: bad string data length")

	// ErrBadStringDataMissingNullByte is returned when no NUL terminator
	// is found before the container ends.
	ErrBadStringDataMissingNullByte = errors.New("dex: string data missing null terminator")

	// ErrMalformedMUTF8Sequence is returned by the strict MUTF-8 decoder
	// on invalid byte sequences or unpaired surrogates.
	ErrMalformedMUTF8Sequence = errors.New("dex: malformed MUTF-8 sequence")

	// ErrVarInt is returned by the LEB128 codec on truncated or
	// over-long encodings, or ones whose magnitude overflows the target
	// width.
	ErrVarInt = errors.New("dex: malformed variable-length integer")
)

// DexIndexError is returned by an id-table accessor when the requested
// index is out of range. It carries the data needed to reproduce or report
// the failure, following the shape of the teacher's richer structured
// errors (e.g. security.go's certificate errors) rather than a sentinel.
type DexIndexError struct {
	Index   uint32
	Max     uint32
	ItemTy  string
}

func (e *DexIndexError) Error() string {
	return fmt.Sprintf("dex: index %d out of range for %s (count %d)", e.Index, e.ItemTy, e.Max)
}

// DexLayoutError reports a structural inconsistency discovered while
// resolving an item at a given offset: a declared array length that would
// run past the end of the container.
type DexLayoutError struct {
	ItemTy   string
	Offset   uint32
	Length   uint32
	FileSize uint32
}

func (e *DexLayoutError) Error() string {
	return fmt.Sprintf("dex: %s at offset %#x with length %d overruns file size %d",
		e.ItemTy, e.Offset, e.Length, e.FileSize)
}

// OperandAccessError is returned by an instruction operand accessor
// (A/B/C/H/VarArgs/ArgsRange) when the instruction's format does not carry
// that operand.
type OperandAccessError struct {
	InsnName string
	Operand  string
}

func (e *OperandAccessError) Error() string {
	return fmt.Sprintf("dex: instruction %q has no operand %q", e.InsnName, e.Operand)
}

// VarIntError is returned by the LEB128 codec, carrying the byte offset at
// which decoding failed.
type VarIntError struct {
	Offset uint32
	Reason string
}

func (e *VarIntError) Error() string {
	return fmt.Sprintf("dex: varint decode failed at offset %#x: %s", e.Offset, e.Reason)
}

func (e *VarIntError) Unwrap() error { return ErrVarInt }

// Mutf8DecodeError is returned by the strict MUTF-8 decode path.
type Mutf8DecodeError struct {
	Offset int
	Reason string
}

func (e *Mutf8DecodeError) Error() string {
	return fmt.Sprintf("dex: mutf-8 decode failed at byte %d: %s", e.Offset, e.Reason)
}

func (e *Mutf8DecodeError) Unwrap() error { return ErrMalformedMUTF8Sequence }

// DexFileError wraps an open-time semantic failure that doesn't fit one of
// the narrower structured kinds above (e.g. a map-list entry pointing
// outside the file).
type DexFileError struct {
	Msg string
}

func (e *DexFileError) Error() string { return "dex: " + e.Msg }

// UnknownDexVersionError is returned when the magic's version digits do not
// match any entry in DexMagicVersions.
type UnknownDexVersionError struct {
	Version string
}

func (e *UnknownDexVersionError) Error() string {
	return fmt.Sprintf("dex: unknown dex version %q", e.Version)
}

// offsetSizeError reports a header (size, offset) pair that violates the
// invariants of spec.md §3: BadOffsetTooLarge, BadOffsetInHeader,
// BadOffsetNoSize, BadSection all share this shape, distinguished by Kind.
type offsetSizeError struct {
	Kind    string
	Section string
	Offset  uint32
	Size    uint32
	Bound   uint32
}

func (e *offsetSizeError) Error() string {
	return fmt.Sprintf("dex: %s in section %q: offset=%#x size=%d bound=%#x",
		e.Kind, e.Section, e.Offset, e.Size, e.Bound)
}
