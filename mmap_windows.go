// Copyright 2011 Evan Shaw. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE-MMAP-GO file.
//
// Modifications (c) 2026 The Uxheap Authors.

package uxheap

import (
	"errors"
	"os"
	"syscall"
	"unsafe"
)

// mmap on Windows is a two-step process: CreateFileMapping gets a
// handle backed by the system paging file, then MapViewOfFile gets an
// actual pointer into memory.

// handleMap lets munmapRaw recover the handle CreateFileMapping
// returned from the address MapViewOfFile handed back.
var handleMap = map[uintptr]syscall.Handle{}

func mmapRaw(size int) (unsafe.Pointer, error) {
	flProtect := uint32(syscall.PAGE_READWRITE)
	dwDesiredAccess := uint32(syscall.FILE_MAP_WRITE)

	maxSizeHigh := uint32(int64(size) >> 32)
	maxSizeLow := uint32(int64(size) & 0xFFFFFFFF)
	h, errno := syscall.CreateFileMapping(syscall.InvalidHandle, nil, flProtect, maxSizeHigh, maxSizeLow, nil)
	if h == 0 {
		return nil, os.NewSyscallError("CreateFileMapping", errno)
	}

	addr, errno := syscall.MapViewOfFile(h, dwDesiredAccess, 0, 0, uintptr(size))
	if addr == 0 {
		return nil, os.NewSyscallError("MapViewOfFile", errno)
	}

	handleMap[addr] = h
	return unsafe.Pointer(addr), nil
}

func munmapRaw(addr unsafe.Pointer, size int) error {
	a := uintptr(addr)
	if err := syscall.UnmapViewOfFile(a); err != nil {
		return err
	}

	handle, ok := handleMap[a]
	if !ok {
		return errors.New("uxheap: unknown mapping base address")
	}
	delete(handleMap, a)

	e := syscall.CloseHandle(handle)
	return os.NewSyscallError("CloseHandle", e)
}
