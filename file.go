// Copyright 2026 The gosmali Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import (
	"encoding/binary"
	"os"

	"github.com/gosmali/dex/internal/logutil"
)

// File is an open, parsed DEX file. Every accessor method in this package
// (idtables.go, stringdata.go, classaccessor.go, ...) hangs off *File.
// Grounded on the teacher's file.go, which likewise holds the backing bytes
// plus every parsed sub-structure on one File value.
type File struct {
	container Container
	header    *Header
	mapItems  []MapItem
	features  FeatureFlags

	stringIDs     []StringID
	typeIDs       []TypeID
	protoIDs      []ProtoID
	fieldIDs      []FieldID
	methodIDs     []MethodID
	classDefs     []ClassDef
	methodHandles []MethodHandleItem
	callSiteIDs   []CallSiteIDItem

	opts   *Options
	logger *logutil.Helper
}

// Options configures how Open/OpenBytes parse a DEX file, mirroring the
// teacher's pe.Options.
type Options struct {
	// Verify selects how much validation Open performs before returning
	// (default VerifyNone: structural bounds only).
	Verify VerifyPreset

	// A custom logger. Defaults to a stdout logger filtered to LevelError,
	// the same default the teacher applies in pe.New/pe.NewBytes.
	Logger logutil.Logger
}

func newHelper(opts *Options) *logutil.Helper {
	if opts.Logger != nil {
		return logutil.NewHelper(opts.Logger)
	}
	std := logutil.NewStdLogger(os.Stdout)
	return logutil.NewHelper(logutil.NewFilter(std, logutil.FilterLevel(logutil.LevelError)))
}

// Open memory-maps name and parses it as a DEX file.
func Open(name string, opts *Options) (*File, error) {
	c, err := OpenMapped(name)
	if err != nil {
		return nil, err
	}
	f, err := newFile(c, opts)
	if err != nil {
		c.Close()
		return nil, err
	}
	return f, nil
}

// OpenBytes parses data, already held in memory by the caller, as a DEX
// file. data is borrowed, not copied; the caller must keep it alive and
// unmodified for the lifetime of the returned File.
func OpenBytes(data []byte, opts *Options) (*File, error) {
	return newFile(NewInMemoryContainer(data), opts)
}

func newFile(c Container, opts *Options) (*File, error) {
	if opts == nil {
		opts = &Options{}
	}
	f := &File{
		container: c,
		opts:      opts,
		logger:    newHelper(opts),
	}
	if err := f.Parse(); err != nil {
		return nil, err
	}
	return f, nil
}

// Close releases the resources held by the underlying Container.
func (f *File) Close() error {
	if f.container != nil {
		return f.container.Close()
	}
	return nil
}

// Container returns the byte container backing this File.
func (f *File) Container() Container { return f.container }

// Header returns the parsed DEX header.
func (f *File) Header() *Header { return f.header }

// Features reports which optional sections were present.
func (f *File) Features() FeatureFlags { return f.features }

// MapItems returns the parsed map list, or nil if the header declared no
// map.
func (f *File) MapItems() []MapItem { return f.mapItems }

// HiddenAPIClassData returns the raw bytes of the hiddenapi_class_data_item
// section, or nil if this file carries none (SPEC_FULL.md supplemented
// feature 2). The section is exposed as-is; decoding its per-member
// quadruple-nibble-packed restriction flags is not implemented, matching
// original_source's own treatment of this section as a located-but-opaque
// pointer.
func (f *File) HiddenAPIClassData() []byte {
	item, ok := findMapItem(f.mapItems, TypeHiddenapiClassDataItem)
	if !ok {
		return nil
	}
	data := f.container.Data()
	// The section is self-describing: its first 4 bytes are its own total
	// byte size, unlike most map_list entries where Size counts items
	// rather than bytes.
	if uint64(item.Offset)+4 > uint64(len(data)) {
		return nil
	}
	sectionSize := binary.LittleEndian.Uint32(data[item.Offset : item.Offset+4])
	if uint64(item.Offset)+uint64(sectionSize) > uint64(len(data)) {
		return nil
	}
	return data[item.Offset : item.Offset+sectionSize]
}

// Parse decodes the header, the map list, every fixed-width id table, and
// (per Options.Verify) the checksum/signature. It never panics: failures
// surface as typed errors from header.go/maplist.go/verify.go. Grounded on
// the teacher's File.Parse, which runs its sub-parsers in a fixed order and
// only treats the first couple as fatal.
func (f *File) Parse() error {
	data := f.container.Data()

	h, err := parseHeader(data)
	if err != nil {
		return err
	}
	f.header = h
	f.features.IsV41Container = h.Version() >= v41Version

	if err := verifyHeader(h, f.container.Size()); err != nil {
		return err
	}

	mapItems, err := parseMapList(data, h.MapOff)
	if err != nil {
		f.logger.Warnf("map list parsing failed: %v", err)
	} else {
		f.mapItems = mapItems
		f.features.HasMapList = mapItems != nil
	}

	f.stringIDs = decodeStringIDs(data, h.StringIDsOff, h.StringIDsSize)
	f.typeIDs = decodeTypeIDs(data, h.TypeIDsOff, h.TypeIDsSize)
	f.protoIDs = decodeProtoIDs(data, h.ProtoIDsOff, h.ProtoIDsSize)
	f.fieldIDs = decodeFieldIDs(data, h.FieldIDsOff, h.FieldIDsSize)
	f.methodIDs = decodeMethodIDs(data, h.MethodIDsOff, h.MethodIDsSize)
	f.classDefs = decodeClassDefs(data, h.ClassDefsOff, h.ClassDefsSize)

	if mh, ok := findMapItem(f.mapItems, TypeMethodHandleItem); ok {
		if err := checkValidOffsetAndSize(f.container.Size(), h.HeaderSize, mh.Offset, mh.Size, methodHandleSize, "method-handles"); err != nil {
			f.logger.Warnf("method handle section skipped: %v", err)
		} else {
			f.methodHandles = decodeMethodHandles(data, mh.Offset, mh.Size)
			f.features.HasMethodHandles = len(f.methodHandles) > 0
		}
	}
	if cs, ok := findMapItem(f.mapItems, TypeCallSiteIDItem); ok {
		if err := checkValidOffsetAndSize(f.container.Size(), h.HeaderSize, cs.Offset, cs.Size, callSiteIDSize, "call-site-ids"); err != nil {
			f.logger.Warnf("call site section skipped: %v", err)
		} else {
			f.callSiteIDs = decodeCallSiteIDs(data, cs.Offset, cs.Size)
			f.features.HasCallSites = len(f.callSiteIDs) > 0
		}
	}
	if _, ok := findMapItem(f.mapItems, TypeHiddenapiClassDataItem); ok {
		f.features.HasHiddenAPIData = true
	}

	if f.opts.Verify != VerifyNone {
		if err := f.Verify(f.opts.Verify); err != nil {
			return err
		}
	}

	return nil
}
