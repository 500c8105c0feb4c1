// Copyright 2026 The gosmali Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

// TrailingData (SPEC_FULL.md "V41 container header") exposes the bytes
// beyond this DEX file's own declared size inside a V41 multi-dex
// container, the container_size/header_off pair pointing at where the next
// file (if any) starts. Grounded on the teacher's overlay.go, which
// likewise exposes the bytes a PE file's own declared layout doesn't
// account for; DEX's version is container concatenation rather than an
// appended installer payload, but the "bytes past what the header claims"
// shape is the same.

// TrailingLength returns the number of bytes in the container past this
// file's own FileSize, or 0 if there are none or the header isn't a V41
// container header.
func (f *File) TrailingLength() int64 {
	if !f.features.IsV41Container {
		return 0
	}
	total := int64(f.container.Size())
	end := int64(f.header.HeaderOffset) + int64(f.header.FileSize)
	if end >= total {
		return 0
	}
	return total - end
}

// TrailingData returns the bytes in the container past this file's own
// FileSize (e.g. the next file packed into a V41 container, or unrelated
// appended data). The returned slice aliases the container's backing
// bytes.
func (f *File) TrailingData() []byte {
	n := f.TrailingLength()
	if n == 0 {
		return nil
	}
	data := f.container.Data()
	start := int64(f.header.HeaderOffset) + int64(f.header.FileSize)
	return data[start : start+n]
}
