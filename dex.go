// Copyright 2026 The gosmali Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package dex reads Dalvik Executable (DEX) files, the compiled binary
// format shipped inside Android application packages.
//
// The package exposes strings, types, prototypes, fields, methods, classes
// and bytecode found in a DEX file so that host tooling (disassemblers,
// rewriters, security analyzers, decompilers) can navigate them without
// decoding the whole file up front. It does not execute bytecode, verify
// typing beyond structural constraints, resolve cross-DEX references, or
// perform semantic analysis.
package dex

// DEX magic, version and endian constants.
const (
	// dexMagic is the fixed 4-byte prefix of every DEX file's magic value.
	dexMagic = "dex\n"

	// EndianConstant is the only endian tag this package accepts. DEX files
	// tagged with ReverseEndianConstant are declined rather than byte-swapped.
	EndianConstant = 0x12345678

	// ReverseEndianConstant marks a big-endian DEX file. Such files are
	// rejected.
	ReverseEndianConstant = 0x78563412

	// NoIndex is the sentinel value meaning "no entry" for uint32 index
	// fields such as ClassDef.SuperclassIdx and ClassDef.SourceFileIdx.
	NoIndex = 0xFFFFFFFF

	// NoIndex16 is the catch-all synthetic type_idx assigned by the
	// try/catch iterator (spec.md §4.14).
	NoIndex16 = 0xFFFF

	// HeaderSizeLegacy is sizeof(Header) for DEX versions below 41.
	HeaderSizeLegacy = 0x70

	// HeaderSizeV41 is sizeof(Header) + the two extra container fields
	// introduced in DEX version 41 (container_size, header_off).
	HeaderSizeV41 = HeaderSizeLegacy + 8

	// minSupportedVersion is the lowest version in DexMagicVersions below;
	// v41Version is the first version with the V41 container header.
	minSupportedVersion = 35
	v41Version          = 41
)

// DexMagicVersions lists the three ASCII digits recognized after "dex\n".
// Versions 035/037/038/039/040/041 are accepted; anything else is
// ErrUnknownDexVersion.
var DexMagicVersions = map[string]int{
	"035": 35,
	"037": 37,
	"038": 38,
	"039": 39,
	"040": 40,
	"041": 41,
}

// VerifyPreset selects how much validation Open performs.
type VerifyPreset int

const (
	// VerifyNone performs no validation beyond what is required to
	// construct accessors safely (bounds on the id tables).
	VerifyNone VerifyPreset = iota

	// VerifyChecksumOnly additionally recomputes and compares the
	// Adler-32 checksum over the file body.
	VerifyChecksumOnly

	// VerifyAll additionally checks the SHA-1 signature as well as the
	// checksum. See SPEC_FULL.md for why "All" is read to imply both.
	VerifyAll
)

// MapItemType identifies the kind of a map list entry (spec.md §3).
type MapItemType uint16

// Recognized map list item types.
const (
	TypeHeaderItem               MapItemType = 0x0000
	TypeStringIDItem              MapItemType = 0x0001
	TypeTypeIDItem                 MapItemType = 0x0002
	TypeProtoIDItem                MapItemType = 0x0003
	TypeFieldIDItem                MapItemType = 0x0004
	TypeMethodIDItem                MapItemType = 0x0005
	TypeClassDefItem               MapItemType = 0x0006
	TypeCallSiteIDItem             MapItemType = 0x0007
	TypeMethodHandleItem           MapItemType = 0x0008
	TypeMapList                    MapItemType = 0x1000
	TypeTypeList                   MapItemType = 0x1001
	TypeAnnotationSetRefList       MapItemType = 0x1002
	TypeAnnotationSetItem          MapItemType = 0x1003
	TypeClassDataItem              MapItemType = 0x2000
	TypeCodeItem                   MapItemType = 0x2001
	TypeStringDataItem             MapItemType = 0x2002
	TypeDebugInfoItem              MapItemType = 0x2003
	TypeAnnotationItem             MapItemType = 0x2004
	TypeEncodedArrayItem           MapItemType = 0x2005
	TypeAnnotationsDirectoryItem   MapItemType = 0x2006
	TypeHiddenapiClassDataItem     MapItemType = 0xF000
)

// String returns the human-readable name of a map item type, or "unknown"
// for unrecognized values.
func (t MapItemType) String() string {
	names := map[MapItemType]string{
		TypeHeaderItem:             "HeaderItem",
		TypeStringIDItem:           "StringIdItem",
		TypeTypeIDItem:             "TypeIdItem",
		TypeProtoIDItem:            "ProtoIdItem",
		TypeFieldIDItem:            "FieldIdItem",
		TypeMethodIDItem:           "MethodIdItem",
		TypeClassDefItem:           "ClassDefItem",
		TypeCallSiteIDItem:         "CallSiteIdItem",
		TypeMethodHandleItem:       "MethodHandleItem",
		TypeMapList:                "MapList",
		TypeTypeList:               "TypeList",
		TypeAnnotationSetRefList:   "AnnotationSetRefList",
		TypeAnnotationSetItem:      "AnnotationSetItem",
		TypeClassDataItem:          "ClassDataItem",
		TypeCodeItem:               "CodeItem",
		TypeStringDataItem:         "StringDataItem",
		TypeDebugInfoItem:          "DebugInfoItem",
		TypeAnnotationItem:         "AnnotationItem",
		TypeEncodedArrayItem:       "EncodedArrayItem",
		TypeAnnotationsDirectoryItem: "AnnotationsDirectoryItem",
		TypeHiddenapiClassDataItem: "HiddenapiClassData",
	}
	if name, ok := names[t]; ok {
		return name
	}
	return "unknown"
}

// Access flags shared by classes, fields and methods (Dalvik spec). Grounded
// on the field-layout of other_examples' godex (dutchcoders/godex dex.go),
// itself a direct transcription of the Android access_flags table.
const (
	AccPublic              = 0x1
	AccPrivate             = 0x2
	AccProtected           = 0x4
	AccStatic              = 0x8
	AccFinal               = 0x10
	AccSynchronized        = 0x20
	AccVolatile            = 0x40
	AccBridge              = 0x40
	AccTransient           = 0x80
	AccVarargs             = 0x80
	AccNative              = 0x100
	AccInterface           = 0x200
	AccAbstract            = 0x400
	AccStrict              = 0x800
	AccSynthetic           = 0x1000
	AccAnnotation          = 0x2000
	AccEnum                = 0x4000
	AccConstructor         = 0x10000
	AccDeclaredSynchronized = 0x20000
)

// FeatureFlags records which optional sections a parsed File populated,
// mirroring the boolean feature-presence struct the teacher exposes as
// pe.FileInfo.
type FeatureFlags struct {
	HasMapList           bool
	HasMethodHandles     bool
	HasCallSites         bool
	HasHiddenAPIData     bool
	IsV41Container        bool
}
