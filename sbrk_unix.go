// Copyright 2026 The Uxheap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin || dragonfly || freebsd || openbsd || solaris || netbsd

package uxheap

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// arenaReserve is the size of the single virtual-address reservation
// that stands in for the program break on OSes with no stable raw brk
// syscall. None of it is actually backed by memory until committed via
// mprotect below, so the reservation is cheap even where it is larger
// than physical RAM.
var arenaReserve = func() int {
	if unsafe.Sizeof(uintptr(0)) == 8 {
		return 1 << 36 // 64 GiB of address space
	}
	return 1 << 28 // 256 MiB on 32-bit targets
}()

// brkState emulates a brk-style monotonically growing, contiguous
// region by reserving one large PROT_NONE mapping up front and then
// mprotect-ing a growing prefix of it to PROT_READ|PROT_WRITE. This
// gives the same append-only, never-relocating contract real brk
// provides, built from the mmap/mprotect primitives this package
// already has available on every Unix target.
type brkState struct {
	base      uintptr
	committed int // bytes already mprotect'd RW
	cursor    int // bytes already handed out via extend
}

func (b *brkState) reserve() error {
	if b.base != 0 {
		return nil
	}
	m, err := unix.Mmap(-1, 0, arenaReserve, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return err
	}
	b.base = uintptr(unsafe.Pointer(&m[0]))
	return nil
}

func (b *brkState) extend(delta int) (unsafe.Pointer, error) {
	if err := b.reserve(); err != nil {
		fatal("mmap(brk-arena)", err)
	}

	need := b.cursor + delta
	if need > arenaReserve {
		fatal("brk(extend)", fmt.Errorf("emulated break exhausted: need %d of %d reserved", need, arenaReserve))
	}

	if need > b.committed {
		pageSize := osPageSize
		newCommitted := roundup(need, pageSize)
		if newCommitted > arenaReserve {
			newCommitted = arenaReserve
		}
		region := unsafe.Slice((*byte)(unsafe.Pointer(b.base+uintptr(b.committed))), newCommitted-b.committed)
		if err := unix.Mprotect(region, unix.PROT_READ|unix.PROT_WRITE); err != nil {
			fatal("mprotect(brk-arena)", err)
		}
		b.committed = newCommitted
	}

	old := b.base + uintptr(b.cursor)
	b.cursor = need
	return unsafe.Pointer(old), nil
}
