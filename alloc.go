// Copyright 2026 The Uxheap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uxheap

import (
	"fmt"
	"os"
	"unsafe"
)

var osPageSize = os.Getpagesize()

// Allocator allocates and frees memory. Its zero value is ready for use.
// Each Allocator keeps its own brk-owned block list, and it is not safe
// for concurrent use.
type Allocator struct {
	head *header
	tail *header

	allocs    int // live allocation count, any backend
	brkBytes  int // bytes currently owned via brk (list span)
	mmapBytes int // bytes currently owned via mmap
	mmaps     int // live mmap-backed allocation count

	brk brkState
}

// sbrkAllocate satisfies a brk-backed request of size payload bytes: it
// first tries to grow the tail block in place, and otherwise extends the
// break by size+headerSize and links a fresh block.
func (a *Allocator) sbrkAllocate(size int) (*header, error) {
	if p, err := a.tryExpandTail(size); err != nil {
		return nil, err
	} else if p != nil {
		return headerOf(p), nil
	}

	total := size + headerSize
	newPtr, err := a.brk.extend(total)
	if err != nil {
		return nil, err
	}

	var h *header
	if a.listIsEmpty() {
		h = a.listInit(newPtr, size)
	} else {
		h = a.listAppend(newPtr, size)
	}
	a.brkBytes += total
	return h, nil
}

// mmapAllocate satisfies an mmap-backed request: total bytes (payload +
// header) are mapped, a MAPPED header is written, and that header is
// returned. The block is never linked into the brk list.
func (a *Allocator) mmapAllocate(total, size int) (*header, error) {
	ptr, err := mmapRaw(total)
	if err != nil {
		fatal("mmap", err)
		return nil, err // unreachable: fatal exits
	}
	h := mmapFill(ptr, size)
	a.mmapBytes += total
	a.mmaps++
	return h, nil
}

// allocCommon implements the shared body of Alloc and CallocZeroed,
// parameterized on the mmap-routing threshold (spec.md's "max"): Alloc
// uses mmapThresholdMalloc, CallocZeroed uses the OS page size. It
// returns the header of the block backing the request, or nil for a
// zero-sized request.
func (a *Allocator) allocCommon(size, maxTotal int) (*header, error) {
	if sizeOverflows(size) {
		return nil, fmt.Errorf("uxheap: alloc %d: %w", size, ErrOutOfMemory)
	}
	if size == 0 {
		return nil, nil
	}

	aligned := roundup(size, alignQ)
	total := aligned + headerSize

	if a.listIsEmpty() && total < maxTotal {
		if _, err := a.sbrkAllocate(initBrk - headerSize); err != nil {
			return nil, err
		}
	}

	if total >= maxTotal {
		return a.mmapAllocate(total, aligned)
	}

	if block := a.listBestFit(aligned); block != nil {
		block.status = statusAlloc
		a.trySplit(block, aligned)
		return block, nil
	}

	return a.sbrkAllocate(aligned)
}

// Alloc allocates size bytes and returns a byte slice of the allocated
// memory. The memory is not initialized. Alloc returns (nil, nil) for a
// zero-sized request and (nil, ErrOutOfMemory) if size overflows. A
// failing brk or mmap call terminates the process through fatal rather
// than returning an error.
func (a *Allocator) Alloc(size int) (r []byte, err error) {
	if trace {
		defer func() { dbg("Alloc(%#x) -> len=%d err=%v", size, len(r), err) }()
	}
	if size < 0 {
		panic("uxheap: invalid Alloc size")
	}

	h, err := a.allocCommon(size, mmapThresholdMalloc)
	if err != nil || h == nil {
		return nil, err
	}
	a.allocs++
	return sliceFromHeader(h, size), nil
}

// Free deallocates memory acquired from Alloc, CallocZeroed, or Realloc.
// A nil or empty slice, and a double free of an already-FREE block, are
// both silently tolerated.
func (a *Allocator) Free(b []byte) (err error) {
	if trace {
		defer func() { dbg("Free(len=%d) err=%v", len(b), err) }()
	}
	b = b[:cap(b)]
	if len(b) == 0 {
		return nil
	}

	block := headerOf(unsafe.Pointer(&b[0]))
	switch block.status {
	case statusFree:
		return nil
	case statusAlloc:
		block.status = statusFree
		a.allocs--
		return nil
	default: // statusMapped
		total := block.size + headerSize
		if err := munmapRaw(unsafe.Pointer(block), total); err != nil {
			fatal("munmap", err)
			return err // unreachable: fatal exits
		}
		a.mmapBytes -= total
		a.mmaps--
		a.allocs--
		return nil
	}
}

// CallocZeroed is like Alloc except the allocated memory is zero-filled
// and the mmap-routing threshold is the OS page size rather than
// mmapThresholdMalloc: large, zero-initialized requests go through mmap,
// which the OS already hands back zeroed, but the payload is zeroed
// unconditionally regardless of backend.
func (a *Allocator) CallocZeroed(nmemb, size int) (r []byte, err error) {
	if trace {
		defer func() { dbg("CallocZeroed(%#x, %#x) -> len=%d err=%v", nmemb, size, len(r), err) }()
	}
	n := nmemb * size
	h, err := a.allocCommon(n, osPageSize)
	if err != nil || h == nil {
		return nil, err
	}
	a.allocs++
	b := sliceFromHeader(h, n)
	for i := range b {
		b[i] = 0
	}
	return b, nil
}

// Realloc changes the size of the backing allocation of b to size bytes,
// preserving the first min(old,new) bytes. A nil b behaves like
// Alloc(size); a zero size frees b and returns nil; failure to allocate
// a replacement leaves the original allocation untouched.
func (a *Allocator) Realloc(b []byte, size int) (r []byte, err error) {
	if trace {
		defer func() { dbg("Realloc(len=%d, %#x) -> len=%d err=%v", len(b), size, len(r), err) }()
	}
	switch {
	case len(b) == 0 && cap(b) == 0:
		return a.Alloc(size)
	case size == 0:
		return nil, a.Free(b)
	}
	if sizeOverflows(size) {
		return nil, fmt.Errorf("uxheap: realloc %d: %w", size, ErrOutOfMemory)
	}

	full := b[:cap(b)]
	block := headerOf(unsafe.Pointer(&full[0]))
	if block.status == statusFree {
		return nil, fmt.Errorf("uxheap: realloc on freed block: %w", ErrOutOfMemory)
	}

	aligned := roundup(size, alignQ)

	if aligned < mmapThresholdMalloc && block.status == statusAlloc {
		if block.size >= aligned {
			a.trySplit(block, aligned)
			return sliceFromHeader(block, size), nil
		}

		cur := block.next
		for cur != nil && cur.status == statusFree {
			block.size += cur.size + headerSize
			block.next = cur.next
			if a.tail == cur {
				a.tail = block
			}
			cur = cur.next
			if block.size >= aligned {
				a.trySplit(block, aligned)
				return sliceFromHeader(block, size), nil
			}
		}

		if cur == nil {
			diff := aligned - block.size
			if diff < mmapThresholdMalloc {
				if _, err := a.brk.extend(diff); err != nil {
					return nil, err
				}
				block.size += diff
				a.brkBytes += diff
				return sliceFromHeader(block, size), nil
			}
		}
	}

	newB, err := a.Alloc(size)
	if err != nil || newB == nil {
		return nil, err
	}
	n := len(full)
	if size < n {
		n = size
	}
	copy(newB, full[:n])
	if err := a.Free(full); err != nil {
		return nil, err
	}
	return newB, nil
}
