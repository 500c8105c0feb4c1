// Copyright 2026 The gosmali Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// Container is the byte container abstraction described in spec.md §4.1:
// any value that gives the same bytes for the same offsets for as long as
// it lives. Container implementations never allocate on Data(); they hand
// back a stable view into the bytes they own.
type Container interface {
	// Data returns the full backing byte slice.
	Data() []byte

	// Size returns len(Data()) as a uint32.
	Size() uint32

	// Close releases any OS resources (file descriptor, mapping) held by
	// the container. Closing invalidates every view borrowed from Data.
	Close() error
}

// InMemoryContainer wraps a borrowed []byte the caller already owns. It
// never allocates and never closes anything.
type InMemoryContainer struct {
	data []byte
}

// NewInMemoryContainer wraps data without copying it.
func NewInMemoryContainer(data []byte) *InMemoryContainer {
	return &InMemoryContainer{data: data}
}

func (c *InMemoryContainer) Data() []byte { return c.data }
func (c *InMemoryContainer) Size() uint32 { return uint32(len(c.data)) }
func (c *InMemoryContainer) Close() error { return nil }

// MappedContainer memory-maps a file read-only. Grounded on the teacher's
// file.go, which maps PE files the same way via mmap.Map(f, mmap.RDONLY, 0).
type MappedContainer struct {
	data mmap.MMap
	f    *os.File
}

// OpenMapped memory-maps name for reading.
func OpenMapped(name string) (*MappedContainer, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &MappedContainer{data: data, f: f}, nil
}

func (c *MappedContainer) Data() []byte { return c.data }
func (c *MappedContainer) Size() uint32 { return uint32(len(c.data)) }

func (c *MappedContainer) Close() error {
	if c.data != nil {
		if err := c.data.Unmap(); err != nil {
			c.f.Close()
			return err
		}
	}
	return c.f.Close()
}

// WritableMappedContainer memory-maps a file read-write. Reserved for the
// writer/mutation path noted as out of scope in spec.md §1; nothing in this
// core mutates through it today, but C1 requires the flavor to exist so a
// future writer can share the same Container contract.
type WritableMappedContainer struct {
	data mmap.MMap
	f    *os.File
}

// OpenWritableMapped memory-maps name for read-write access.
func OpenWritableMapped(name string) (*WritableMappedContainer, error) {
	f, err := os.OpenFile(name, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	data, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &WritableMappedContainer{data: data, f: f}, nil
}

func (c *WritableMappedContainer) Data() []byte { return c.data }
func (c *WritableMappedContainer) Size() uint32 { return uint32(len(c.data)) }

func (c *WritableMappedContainer) Close() error {
	if c.data != nil {
		if err := c.data.Unmap(); err != nil {
			c.f.Close()
			return err
		}
	}
	return c.f.Close()
}
