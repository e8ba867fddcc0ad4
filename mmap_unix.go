// Copyright 2011 Evan Shaw. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE-MMAP-GO file.
//
// Modifications (c) 2026 The Uxheap Authors.

//go:build darwin || dragonfly || freebsd || linux || openbsd || solaris || netbsd

package uxheap

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// mmapRaw maps size bytes private-anonymous read/write. The kernel
// guarantees page alignment, which is always a multiple of alignQ.
func mmapRaw(size int) (unsafe.Pointer, error) {
	b, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, err
	}
	return unsafe.Pointer(&b[0]), nil
}

// munmapRaw unmaps a region previously returned by mmapRaw.
func munmapRaw(addr unsafe.Pointer, size int) error {
	b := unsafe.Slice((*byte)(addr), size)
	return unix.Munmap(b)
}
