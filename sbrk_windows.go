// Copyright 2026 The Uxheap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uxheap

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// arenaReserve mirrors the Unix fallback's reservation size: Windows has
// no brk equivalent either, so a single large reserved region stands in
// for the program break, with pages committed on demand as the break
// grows.
var arenaReserve = func() int {
	if unsafe.Sizeof(uintptr(0)) == 8 {
		return 1 << 36
	}
	return 1 << 28
}()

// brkState emulates brk on Windows via VirtualAlloc's MEM_RESERVE /
// MEM_COMMIT split: reserve the whole arena once, then commit a growing
// prefix of it as extend is called, exactly the same shape as the Unix
// mmap+mprotect fallback in sbrk_unix.go.
type brkState struct {
	base      uintptr
	committed int
	cursor    int
}

func (b *brkState) reserve() error {
	if b.base != 0 {
		return nil
	}
	addr, err := windows.VirtualAlloc(0, uintptr(arenaReserve), windows.MEM_RESERVE, windows.PAGE_NOACCESS)
	if err != nil {
		return err
	}
	b.base = addr
	return nil
}

func (b *brkState) extend(delta int) (unsafe.Pointer, error) {
	if err := b.reserve(); err != nil {
		fatal("VirtualAlloc(reserve)", err)
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
		length := uintptr(newCommitted - b.committed)
		_, err := windows.VirtualAlloc(b.base+uintptr(b.committed), length, windows.MEM_COMMIT, windows.PAGE_READWRITE)
		if err != nil {
			fatal("VirtualAlloc(commit)", err)
		}
		b.committed = newCommitted
	}

	old := b.base + uintptr(b.cursor)
	b.cursor = need
	return unsafe.Pointer(old), nil
}
