// Copyright 2026 The gosmali Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

// Instruction decoding (spec.md §4.12). Every instruction's low byte (the
// first code unit, little-endian) selects a descriptor from a 256-entry
// table; the descriptor names the opcode and its format. Grounded on
// original_source/src/dalvik/insns.rs's per-opcode format_factory dispatch,
// re-expressed as the teacher's const-table-plus-dispatch idiom (dex.go's
// MapItemType.String, file.go's funcMaps) rather than a parser-combinator
// per opcode.

// Format identifies one of the Dalvik instruction encodings.
type Format uint8

const (
	FormatInvalid Format = iota
	Format10x
	Format12x
	Format11n
	Format11x
	Format10t
	Format20t
	Format20bc
	Format22x
	Format21t
	Format21s
	Format21h
	Format21c
	Format23x
	Format22b
	Format22t
	Format22s
	Format22c
	Format32x
	Format30t
	Format31t
	Format31i
	Format31c
	Format35c
	Format3rc
	Format45cc
	Format4rcc
	Format51l
)

// sizeInCodeUnits returns how many 16-bit code units an instruction of this
// format occupies, not counting any inline payload reached through a 31t
// offset (those are sized separately by the payload parsers below). This
// does not hold for NOP, whose size additionally depends on whether its
// code unit identifies a pseudo-instruction payload; see
// instructionSizeInCodeUnits.
func (fmtTag Format) sizeInCodeUnits() uint32 {
	switch fmtTag {
	case Format10x, Format12x, Format11n, Format11x, Format10t:
		return 1
	case Format20t, Format20bc, Format22x, Format21t, Format21s, Format21h,
		Format21c, Format23x, Format22b, Format22t, Format22s, Format22c:
		return 2
	case Format32x, Format30t, Format31t, Format31i, Format31c, Format35c, Format3rc:
		return 3
	case Format45cc, Format4rcc:
		return 4
	case Format51l:
		return 5
	default:
		return 1
	}
}

// IndexKind names what kind of id-table (if any) operand B/C/H of an
// instruction indexes into.
type IndexKind uint8

const (
	IndexNone IndexKind = iota
	IndexStringRef
	IndexTypeRef
	IndexFieldRef
	IndexMethodRef
	IndexProtoRef
	IndexCallSiteRef
	IndexMethodHandleRef
	IndexVtableOffset
	IndexFieldOffset
	IndexInlineMethod
)

type opcodeInfo struct {
	name    string
	format  Format
	index   IndexKind
}

// opcodeTable maps every possible low byte to its descriptor. Ranges follow
// the Dalvik executable instruction set's fixed layout; opcodes the
// original defines as unused still need a format so size computation never
// panics, so they're entered as Format10x/IndexNone ("unused").
var opcodeTable [256]opcodeInfo

func op(lo, hi byte, name string, f Format, idx IndexKind) {
	for b := int(lo); b <= int(hi); b++ {
		opcodeTable[b] = opcodeInfo{name: name, format: f, index: idx}
	}
}

func init() {
	for i := range opcodeTable {
		opcodeTable[i] = opcodeInfo{name: "unused", format: Format10x}
	}

	op(0x00, 0x00, "nop", Format10x, IndexNone)
	op(0x01, 0x01, "move", Format12x, IndexNone)
	op(0x02, 0x02, "move/from16", Format22x, IndexNone)
	op(0x03, 0x03, "move/16", Format32x, IndexNone)
	op(0x04, 0x04, "move-wide", Format12x, IndexNone)
	op(0x05, 0x05, "move-wide/from16", Format22x, IndexNone)
	op(0x06, 0x06, "move-wide/16", Format32x, IndexNone)
	op(0x07, 0x07, "move-object", Format12x, IndexNone)
	op(0x08, 0x08, "move-object/from16", Format22x, IndexNone)
	op(0x09, 0x09, "move-object/16", Format32x, IndexNone)
	op(0x0a, 0x0a, "move-result", Format11x, IndexNone)
	op(0x0b, 0x0b, "move-result-wide", Format11x, IndexNone)
	op(0x0c, 0x0c, "move-result-object", Format11x, IndexNone)
	op(0x0d, 0x0d, "move-exception", Format11x, IndexNone)
	op(0x0e, 0x0e, "return-void", Format10x, IndexNone)
	op(0x0f, 0x0f, "return", Format11x, IndexNone)
	op(0x10, 0x10, "return-wide", Format11x, IndexNone)
	op(0x11, 0x11, "return-object", Format11x, IndexNone)
	op(0x12, 0x12, "const/4", Format11n, IndexNone)
	op(0x13, 0x13, "const/16", Format21s, IndexNone)
	op(0x14, 0x14, "const", Format31i, IndexNone)
	op(0x15, 0x15, "const/high16", Format21h, IndexNone)
	op(0x16, 0x16, "const-wide/16", Format21s, IndexNone)
	op(0x17, 0x17, "const-wide/32", Format31i, IndexNone)
	op(0x18, 0x18, "const-wide", Format51l, IndexNone)
	op(0x19, 0x19, "const-wide/high16", Format21h, IndexNone)
	op(0x1a, 0x1a, "const-string", Format21c, IndexStringRef)
	op(0x1b, 0x1b, "const-string/jumbo", Format31c, IndexStringRef)
	op(0x1c, 0x1c, "const-class", Format21c, IndexTypeRef)
	op(0x1d, 0x1d, "monitor-enter", Format11x, IndexNone)
	op(0x1e, 0x1e, "monitor-exit", Format11x, IndexNone)
	op(0x1f, 0x1f, "check-cast", Format21c, IndexTypeRef)
	op(0x20, 0x20, "instance-of", Format22c, IndexTypeRef)
	op(0x21, 0x21, "array-length", Format12x, IndexNone)
	op(0x22, 0x22, "new-instance", Format21c, IndexTypeRef)
	op(0x23, 0x23, "new-array", Format22c, IndexTypeRef)
	op(0x24, 0x24, "filled-new-array", Format35c, IndexTypeRef)
	op(0x25, 0x25, "filled-new-array/range", Format3rc, IndexTypeRef)
	op(0x26, 0x26, "fill-array-data", Format31t, IndexNone)
	op(0x27, 0x27, "throw", Format11x, IndexNone)
	op(0x28, 0x28, "goto", Format10t, IndexNone)
	op(0x29, 0x29, "goto/16", Format20t, IndexNone)
	op(0x2a, 0x2a, "goto/32", Format30t, IndexNone)
	op(0x2b, 0x2b, "packed-switch", Format31t, IndexNone)
	op(0x2c, 0x2c, "sparse-switch", Format31t, IndexNone)

	cmpNames := []string{"cmpl-float", "cmpg-float", "cmpl-double", "cmpg-double", "cmp-long"}
	for i, n := range cmpNames {
		op(byte(0x2d+i), byte(0x2d+i), n, Format23x, IndexNone)
	}

	ifTestNames := []string{"if-eq", "if-ne", "if-lt", "if-ge", "if-gt", "if-le"}
	for i, n := range ifTestNames {
		op(byte(0x32+i), byte(0x32+i), n, Format22t, IndexNone)
	}

	ifTestzNames := []string{"if-eqz", "if-nez", "if-ltz", "if-gez", "if-gtz", "if-lez"}
	for i, n := range ifTestzNames {
		op(byte(0x38+i), byte(0x38+i), n, Format21t, IndexNone)
	}

	arrayOpNames := []string{
		"aget", "aget-wide", "aget-object", "aget-boolean", "aget-byte", "aget-char", "aget-short",
		"aput", "aput-wide", "aput-object", "aput-boolean", "aput-byte", "aput-char", "aput-short",
	}
	for i, n := range arrayOpNames {
		op(byte(0x44+i), byte(0x44+i), n, Format23x, IndexNone)
	}

	instanceOpNames := []string{
		"iget", "iget-wide", "iget-object", "iget-boolean", "iget-byte", "iget-char", "iget-short",
		"iput", "iput-wide", "iput-object", "iput-boolean", "iput-byte", "iput-char", "iput-short",
	}
	for i, n := range instanceOpNames {
		op(byte(0x52+i), byte(0x52+i), n, Format22c, IndexFieldRef)
	}

	staticOpNames := []string{
		"sget", "sget-wide", "sget-object", "sget-boolean", "sget-byte", "sget-char", "sget-short",
		"sput", "sput-wide", "sput-object", "sput-boolean", "sput-byte", "sput-char", "sput-short",
	}
	for i, n := range staticOpNames {
		op(byte(0x60+i), byte(0x60+i), n, Format21c, IndexFieldRef)
	}

	invokeNames := []string{"invoke-virtual", "invoke-super", "invoke-direct", "invoke-static", "invoke-interface"}
	for i, n := range invokeNames {
		op(byte(0x6e+i), byte(0x6e+i), n, Format35c, IndexMethodRef)
	}
	for i, n := range invokeNames {
		op(byte(0x74+i), byte(0x74+i), n+"/range", Format3rc, IndexMethodRef)
	}

	unopNames := []string{
		"neg-int", "not-int", "neg-long", "not-long", "neg-float", "neg-double",
		"int-to-long", "int-to-float", "int-to-double", "long-to-int", "long-to-float",
		"long-to-double", "float-to-int", "float-to-long", "float-to-double",
		"double-to-int", "double-to-long", "double-to-float", "int-to-byte",
		"int-to-char", "int-to-short",
	}
	for i, n := range unopNames {
		op(byte(0x7b+i), byte(0x7b+i), n, Format12x, IndexNone)
	}

	binopNames := []string{
		"add-int", "sub-int", "mul-int", "div-int", "rem-int", "and-int", "or-int", "xor-int",
		"shl-int", "shr-int", "ushr-int", "add-long", "sub-long", "mul-long", "div-long",
		"rem-long", "and-long", "or-long", "xor-long", "shl-long", "shr-long", "ushr-long",
		"add-float", "sub-float", "mul-float", "div-float", "rem-float", "add-double",
		"sub-double", "mul-double", "div-double", "rem-double",
	}
	for i, n := range binopNames {
		op(byte(0x90+i), byte(0x90+i), n, Format23x, IndexNone)
	}
	for i, n := range binopNames {
		op(byte(0xb0+i), byte(0xb0+i), n+"/2addr", Format12x, IndexNone)
	}

	lit16Names := []string{"add-int/lit16", "rsub-int", "mul-int/lit16", "div-int/lit16", "rem-int/lit16", "and-int/lit16", "or-int/lit16", "xor-int/lit16"}
	for i, n := range lit16Names {
		op(byte(0xd0+i), byte(0xd0+i), n, Format22s, IndexNone)
	}

	lit8Names := []string{
		"add-int/lit8", "rsub-int/lit8", "mul-int/lit8", "div-int/lit8", "rem-int/lit8",
		"and-int/lit8", "or-int/lit8", "xor-int/lit8", "shl-int/lit8", "shr-int/lit8", "ushr-int/lit8",
	}
	for i, n := range lit8Names {
		op(byte(0xd8+i), byte(0xd8+i), n, Format22b, IndexNone)
	}

	op(0xfa, 0xfa, "invoke-polymorphic", Format45cc, IndexMethodRef)
	op(0xfb, 0xfb, "invoke-polymorphic/range", Format4rcc, IndexMethodRef)
	op(0xfc, 0xfc, "invoke-custom", Format35c, IndexCallSiteRef)
	op(0xfd, 0xfd, "invoke-custom/range", Format3rc, IndexCallSiteRef)
	op(0xfe, 0xfe, "const-method-handle", Format21c, IndexMethodHandleRef)
	op(0xff, 0xff, "const-method-type", Format21c, IndexProtoRef)
}

// packed-switch-payload, sparse-switch-payload and fill-array-data-payload
// pseudo-instructions are reached only via a 31t branch offset and are
// identified by a NOP opcode (0x00) followed by one of these idents in the
// next code unit.
const (
	identPackedSwitchPayload = 0x0100
	identSparseSwitchPayload = 0x0200
	identFillArrayDataPayload = 0x0300
)

// Instruction is one decoded instruction: its opcode byte, format, and the
// code-unit window it occupies (relative to the insns slice it was decoded
// from).
type Instruction struct {
	insns  []uint16
	pc     uint32
	size   uint32
	Opcode byte
	Name   string
	Format Format
	Index  IndexKind
}

func fetch16(insns []uint16, pc uint32) (uint16, error) {
	if pc >= uint32(len(insns)) {
		return 0, ErrBadInstruction
	}
	return insns[pc], nil
}

func fetch32(insns []uint16, pc uint32) (uint32, error) {
	lo, err := fetch16(insns, pc)
	if err != nil {
		return 0, err
	}
	hi, err := fetch16(insns, pc+1)
	if err != nil {
		return 0, err
	}
	return uint32(lo) | uint32(hi)<<16, nil
}

// instructionSizeInCodeUnits computes an instruction's size, handling NOP's
// "complex" special case (spec.md §4.12): when NOP's code unit (opcode 0x00)
// is actually one of the packed-switch/sparse-switch/fill-array-data payload
// idents, the instruction's size must be derived from a length field carried
// in the following code unit(s), not from the format table. first is the
// already-fetched code unit at pc.
func instructionSizeInCodeUnits(insns []uint16, pc uint32, first uint16, format Format) (uint32, error) {
	if byte(first) == 0x00 {
		switch first {
		case identPackedSwitchPayload:
			size, err := fetch16(insns, pc+1)
			if err != nil {
				return 0, err
			}
			return 4 + uint32(size)*2, nil
		case identSparseSwitchPayload:
			size, err := fetch16(insns, pc+1)
			if err != nil {
				return 0, err
			}
			return 2 + uint32(size)*4, nil
		case identFillArrayDataPayload:
			elemWidth, err := fetch16(insns, pc+1)
			if err != nil {
				return 0, err
			}
			length, err := fetch32(insns, pc+2)
			if err != nil {
				return 0, err
			}
			totalBytes := uint64(elemWidth) * uint64(length)
			return 4 + uint32((totalBytes+1)/2), nil
		}
	}
	return format.sizeInCodeUnits(), nil
}

// InstructionAt decodes the instruction starting at code-unit offset pc.
func InstructionAt(insns []uint16, pc uint32) (*Instruction, error) {
	first, err := fetch16(insns, pc)
	if err != nil {
		return nil, err
	}
	opcode := byte(first)
	info := opcodeTable[opcode]
	name := info.name

	size, err := instructionSizeInCodeUnits(insns, pc, first, info.format)
	if err != nil {
		return nil, err
	}
	if size == 0 || pc+size > uint32(len(insns)) {
		return nil, ErrBadInstruction
	}

	if opcode == 0x00 {
		switch first {
		case identPackedSwitchPayload:
			name = "packed-switch-payload"
		case identSparseSwitchPayload:
			name = "sparse-switch-payload"
		case identFillArrayDataPayload:
			name = "fill-array-data-payload"
		}
	}

	return &Instruction{insns: insns, pc: pc, size: size, Opcode: opcode, Name: name, Format: info.format, Index: info.index}, nil
}

// SizeInCodeUnits returns the number of code units this instruction
// occupies. For a packed-switch/sparse-switch/fill-array-data payload this
// is the whole payload, header and variable-length body together; use
// ParsePackedSwitchPayload etc. to decode the body.
func (in *Instruction) SizeInCodeUnits() uint32 { return in.size }

// Next returns the program counter of the instruction immediately
// following this one.
func (in *Instruction) Next() uint32 { return in.pc + in.SizeInCodeUnits() }

func (in *Instruction) first() uint16 { return in.insns[in.pc] }

// A returns the register/literal operand named "A" for formats that carry
// one: 4 bits wide for 12x, 11n, 22t, 22s, 22c (and 35c/45cc's arg
// count), 8 bits for 11x, 10t, 21*, 22x, 23x, 22b, 31*, 3rc/4rcc's count
// and 51l, and 16 bits (the second code unit) for 32x.
func (in *Instruction) A() (uint32, error) {
	switch in.Format {
	case Format12x, Format11n, Format22t, Format22s, Format22c:
		return uint32(in.first()>>8) & 0xF, nil
	case Format11x, Format10t, Format21t, Format21s, Format21h, Format21c,
		Format31t, Format31i, Format31c, Format51l:
		return uint32(in.first() >> 8), nil
	case Format22x, Format23x, Format22b:
		return uint32(in.first() >> 8), nil
	case Format32x:
		u16, err := fetch16(in.insns, in.pc+1)
		if err != nil {
			return 0, err
		}
		return uint32(u16), nil
	case Format35c, Format45cc:
		return uint32(in.first()>>12) & 0xF, nil
	case Format3rc, Format4rcc:
		return uint32(in.first() >> 8), nil
	default:
		return 0, &OperandAccessError{InsnName: in.Name, Operand: "A"}
	}
}

// B returns the wide/index/literal operand named "B". Its meaning depends
// on Format: a register for 12x/22x/23x/22b/22t/22s/22c/32x, a branch
// offset for 10t/20t/21t/30t/31t, a literal for 11n/21s/21h/31i/51l, or an
// id-table index for 21c/31c/35c/3rc/45cc/4rcc (via Index).
func (in *Instruction) B() (int64, error) {
	switch in.Format {
	case Format12x:
		return int64(in.first()>>12) & 0xF, nil
	case Format11n:
		v := int8(in.first()>>8) >> 4
		return int64(v), nil
	case Format10t:
		return int64(int8(in.first() >> 8)), nil
	case Format20t, Format21t, Format21s, Format21h:
		u16, err := fetch16(in.insns, in.pc+1)
		if err != nil {
			return 0, err
		}
		return int64(int16(u16)), nil
	case Format21c:
		u16, err := fetch16(in.insns, in.pc+1)
		if err != nil {
			return 0, err
		}
		return int64(u16), nil
	case Format22x:
		u16, err := fetch16(in.insns, in.pc+1)
		if err != nil {
			return 0, err
		}
		return int64(u16), nil
	case Format23x, Format22b:
		u16, err := fetch16(in.insns, in.pc+1)
		if err != nil {
			return 0, err
		}
		return int64(u16 & 0xFF), nil
	case Format22t, Format22s, Format22c:
		return int64(in.first()>>12) & 0xF, nil
	case Format30t:
		v, err := fetch32(in.insns, in.pc+1)
		if err != nil {
			return 0, err
		}
		return int64(int32(v)), nil
	case Format31t, Format31i, Format31c:
		v, err := fetch32(in.insns, in.pc+1)
		if err != nil {
			return 0, err
		}
		return int64(int32(v)), nil
	case Format32x:
		u16, err := fetch16(in.insns, in.pc+2)
		if err != nil {
			return 0, err
		}
		return int64(u16), nil
	case Format35c, Format45cc:
		u16, err := fetch16(in.insns, in.pc+1)
		if err != nil {
			return 0, err
		}
		return int64(u16), nil
	case Format3rc, Format4rcc:
		u16, err := fetch16(in.insns, in.pc+1)
		if err != nil {
			return 0, err
		}
		return int64(u16), nil
	case Format51l:
		v, err := fetch32(in.insns, in.pc+1)
		if err != nil {
			return 0, err
		}
		v2, err := fetch32(in.insns, in.pc+3)
		if err != nil {
			return 0, err
		}
		return int64(uint64(v) | uint64(v2)<<32), nil
	default:
		return 0, &OperandAccessError{InsnName: in.Name, Operand: "B"}
	}
}

// C returns the third register/literal operand, present only on formats
// with at least three fields (23x's register, 22b/22s's literal, 22t's
// branch offset, 22c's id-table index, 35c's first argument register,
// 3rc/4rcc's first register in the range).
func (in *Instruction) C() (int64, error) {
	switch in.Format {
	case Format23x:
		u16, err := fetch16(in.insns, in.pc+1)
		if err != nil {
			return 0, err
		}
		return int64(u16 >> 8), nil
	case Format22b:
		u16, err := fetch16(in.insns, in.pc+1)
		if err != nil {
			return 0, err
		}
		return int64(int8(u16 >> 8)), nil
	case Format22t, Format22s:
		u16, err := fetch16(in.insns, in.pc+1)
		if err != nil {
			return 0, err
		}
		return int64(int16(u16)), nil
	case Format22c:
		u16, err := fetch16(in.insns, in.pc+1)
		if err != nil {
			return 0, err
		}
		return int64(u16), nil
	case Format35c, Format45cc:
		u16, err := fetch16(in.insns, in.pc+2)
		if err != nil {
			return 0, err
		}
		return int64(u16 & 0xF), nil
	case Format3rc, Format4rcc:
		u16, err := fetch16(in.insns, in.pc+2)
		if err != nil {
			return 0, err
		}
		return int64(u16), nil
	default:
		return 0, &OperandAccessError{InsnName: in.Name, Operand: "C"}
	}
}

// H returns the "high bits" shift operand of 21h (const/high16,
// const-wide/high16 use B already left-shifted by the caller; H exposes
// the raw unshifted field for callers that want it explicitly).
func (in *Instruction) H() (int64, error) {
	if in.Format != Format21h {
		return 0, &OperandAccessError{InsnName: in.Name, Operand: "H"}
	}
	u16, err := fetch16(in.insns, in.pc+1)
	if err != nil {
		return 0, err
	}
	return int64(u16), nil
}

// ArgCount returns the register-argument count for 35c/45cc instructions
// (the "A" nibble), failing with ErrInvalidArgCount if it exceeds 5.
func (in *Instruction) ArgCount() (uint32, error) {
	if in.Format != Format35c && in.Format != Format45cc {
		return 0, &OperandAccessError{InsnName: in.Name, Operand: "ArgCount"}
	}
	n := uint32(in.first()>>12) & 0xF
	if n > 5 {
		return 0, ErrInvalidArgCount
	}
	return n, nil
}

// VarArgs returns the up-to-5 register arguments of a 35c/45cc
// instruction in declaration order C, D, E, F, G, truncated to the count
// carried in A.
func (in *Instruction) VarArgs() ([]uint16, error) {
	n, err := in.ArgCount()
	if err != nil {
		return nil, err
	}
	packed, err := fetch16(in.insns, in.pc+2)
	if err != nil {
		return nil, err
	}
	regsWord, err := fetch16(in.insns, in.pc+0)
	if err != nil {
		return nil, err
	}
	g := uint16(regsWord>>8) & 0xF

	regs := [5]uint16{
		uint16(packed) & 0xF,
		uint16(packed>>4) & 0xF,
		uint16(packed>>8) & 0xF,
		uint16(packed>>12) & 0xF,
		g,
	}
	return regs[:n], nil
}

// ArgsRange returns the (first, count) register range of a 3rc/4rcc
// instruction, failing with ErrInvalidArgRange if first+count overflows a
// 16-bit register space.
func (in *Instruction) ArgsRange() (first uint16, count uint16, err error) {
	if in.Format != Format3rc && in.Format != Format4rcc {
		return 0, 0, &OperandAccessError{InsnName: in.Name, Operand: "ArgsRange"}
	}
	count = uint16(in.first() >> 8)
	firstReg, ferr := fetch16(in.insns, in.pc+2)
	if ferr != nil {
		return 0, 0, ferr
	}
	first = firstReg
	if uint32(first)+uint32(count) > 0xFFFF {
		return 0, 0, ErrInvalidArgRange
	}
	return first, count, nil
}

// PackedSwitchPayload is the decoded form of a packed-switch-payload
// pseudo-instruction.
type PackedSwitchPayload struct {
	FirstKey int32
	Targets  []int32
}

// ParsePackedSwitchPayload decodes a packed-switch-payload at code-unit
// offset pc (as referenced by a packed-switch's 31t branch offset).
func ParsePackedSwitchPayload(insns []uint16, pc uint32) (*PackedSwitchPayload, error) {
	ident, err := fetch16(insns, pc)
	if err != nil {
		return nil, err
	}
	if ident != identPackedSwitchPayload {
		return nil, ErrBadInstruction
	}
	size, err := fetch16(insns, pc+1)
	if err != nil {
		return nil, err
	}
	firstKey, err := fetch32(insns, pc+2)
	if err != nil {
		return nil, err
	}
	targets := make([]int32, size)
	for i := range targets {
		v, err := fetch32(insns, pc+4+uint32(i)*2)
		if err != nil {
			return nil, err
		}
		targets[i] = int32(v)
	}
	return &PackedSwitchPayload{FirstKey: int32(firstKey), Targets: targets}, nil
}

// SparseSwitchPayload is the decoded form of a sparse-switch-payload
// pseudo-instruction.
type SparseSwitchPayload struct {
	Keys    []int32
	Targets []int32
}

// ParseSparseSwitchPayload decodes a sparse-switch-payload at code-unit
// offset pc.
func ParseSparseSwitchPayload(insns []uint16, pc uint32) (*SparseSwitchPayload, error) {
	ident, err := fetch16(insns, pc)
	if err != nil {
		return nil, err
	}
	if ident != identSparseSwitchPayload {
		return nil, ErrBadInstruction
	}
	size, err := fetch16(insns, pc+1)
	if err != nil {
		return nil, err
	}
	keys := make([]int32, size)
	base := pc + 2
	for i := range keys {
		v, err := fetch32(insns, base+uint32(i)*2)
		if err != nil {
			return nil, err
		}
		keys[i] = int32(v)
	}
	targets := make([]int32, size)
	base = pc + 2 + uint32(size)*2
	for i := range targets {
		v, err := fetch32(insns, base+uint32(i)*2)
		if err != nil {
			return nil, err
		}
		targets[i] = int32(v)
	}
	return &SparseSwitchPayload{Keys: keys, Targets: targets}, nil
}

// FillArrayDataPayload is the decoded form of a fill-array-data-payload
// pseudo-instruction.
type FillArrayDataPayload struct {
	ElementWidth uint16
	Data         []byte
}

// ParseFillArrayDataPayload decodes a fill-array-data-payload at code-unit
// offset pc.
func ParseFillArrayDataPayload(insns []uint16, pc uint32) (*FillArrayDataPayload, error) {
	ident, err := fetch16(insns, pc)
	if err != nil {
		return nil, err
	}
	if ident != identFillArrayDataPayload {
		return nil, ErrBadInstruction
	}
	elemWidth, err := fetch16(insns, pc+1)
	if err != nil {
		return nil, err
	}
	size, err := fetch32(insns, pc+2)
	if err != nil {
		return nil, err
	}
	totalBytes := uint64(size) * uint64(elemWidth)
	numUnits := (totalBytes + 1) / 2
	if pc+4+uint32(numUnits) > uint32(len(insns)) {
		return nil, ErrBadInstruction
	}

	data := make([]byte, totalBytes)
	base := pc + 4
	for i := uint64(0); i < totalBytes; i++ {
		unit, err := fetch16(insns, base+uint32(i/2))
		if err != nil {
			return nil, err
		}
		if i%2 == 0 {
			data[i] = byte(unit)
		} else {
			data[i] = byte(unit >> 8)
		}
	}
	return &FillArrayDataPayload{ElementWidth: elemWidth, Data: data}, nil
}

// InstructionIterator walks an insns slice one instruction at a time.
type InstructionIterator struct {
	insns []uint16
	pc    uint32
}

func newInstructionIterator(insns []uint16) *InstructionIterator {
	return &InstructionIterator{insns: insns}
}

// Next returns the next instruction, or (nil, nil) at end of stream.
func (it *InstructionIterator) Next() (*Instruction, error) {
	if it.pc >= uint32(len(it.insns)) {
		return nil, nil
	}
	in, err := InstructionAt(it.insns, it.pc)
	if err != nil {
		return nil, err
	}
	it.pc = in.Next()
	return in, nil
}
