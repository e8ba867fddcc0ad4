// Copyright 2026 The Uxheap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package uxheap

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// brkState tracks the raw kernel-managed program break on Linux. The
// break itself is process-global kernel state; this struct caches the
// break it last obtained and whether it has queried it yet, since a
// zero-argument brk call returns the current break without changing it.
type brkState struct {
	cur         uintptr
	initialized bool
}

// brkRaw issues the raw SYS_BRK syscall. Unlike the libc sbrk() wrapper,
// the kernel brk(2) syscall takes and returns an absolute address: a
// zero argument queries the current break, any other argument requests
// it as the new break and returns the break the kernel actually granted.
func brkRaw(addr uintptr) (uintptr, error) {
	r1, _, errno := unix.Syscall(unix.SYS_BRK, addr, 0, 0)
	if errno != 0 {
		return 0, errno
	}
	return r1, nil
}

// extend grows the break by delta bytes and returns a pointer to the
// start of the newly added region, mirroring POSIX sbrk(delta)'s return
// value. Failure to obtain the requested extension is fatal: the caller
// has already decided to commit to brk and the list may be mid-mutation.
func (b *brkState) extend(delta int) (unsafe.Pointer, error) {
	if !b.initialized {
		cur, err := brkRaw(0)
		if err != nil {
			fatal("brk(query)", err)
		}
		b.cur = cur
		b.initialized = true
	}

	want := b.cur + uintptr(delta)
	got, err := brkRaw(want)
	if err != nil {
		fatal("brk(extend)", err)
	}
	if got < want {
		fatal("brk(extend)", fmt.Errorf("kernel granted %#x, wanted %#x", got, want))
	}

	old := b.cur
	b.cur = got
	return unsafe.Pointer(old), nil
}
