// Copyright 2026 The Uxheap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uxheap

import "unsafe"

// UnsafeAlloc is like Alloc except it returns an unsafe.Pointer instead
// of a byte slice, letting callers skip the slice-header bookkeeping
// when they already track size and lifetime themselves.
func (a *Allocator) UnsafeAlloc(size int) (unsafe.Pointer, error) {
	if size < 0 {
		panic("uxheap: invalid UnsafeAlloc size")
	}
	h, err := a.allocCommon(size, mmapThresholdMalloc)
	if err != nil || h == nil {
		return nil, err
	}
	a.allocs++
	return payloadOf(h, 0), nil
}

// UnsafeCallocZeroed is like CallocZeroed except its return is an
// unsafe.Pointer.
func (a *Allocator) UnsafeCallocZeroed(nmemb, size int) (unsafe.Pointer, error) {
	n := nmemb * size
	h, err := a.allocCommon(n, osPageSize)
	if err != nil || h == nil {
		return nil, err
	}
	a.allocs++
	p := payloadOf(h, 0)
	b := unsafe.Slice((*byte)(p), n)
	for i := range b {
		b[i] = 0
	}
	return p, nil
}

// UnsafeUsableSize reports the payload capacity of the block at p, which
// must have been returned by UnsafeAlloc, UnsafeCallocZeroed, or
// UnsafeRealloc (or their slice-returning counterparts, via &b[0]).
func UnsafeUsableSize(p unsafe.Pointer) int {
	if p == nil {
		return 0
	}
	return headerOf(p).size
}

// UnsafeFree is like Free except its argument is an unsafe.Pointer
// acquired from UnsafeAlloc, UnsafeCallocZeroed, or UnsafeRealloc.
func (a *Allocator) UnsafeFree(p unsafe.Pointer) error {
	if p == nil {
		return nil
	}
	size := UnsafeUsableSize(p)
	return a.Free(unsafe.Slice((*byte)(p), size))
}

// UnsafeRealloc is like Realloc except its first argument and its
// return are unsafe.Pointer.
func (a *Allocator) UnsafeRealloc(p unsafe.Pointer, size int) (unsafe.Pointer, error) {
	if p == nil {
		r, err := a.UnsafeAlloc(size)
		return r, err
	}
	if size == 0 {
		return nil, a.UnsafeFree(p)
	}

	old := UnsafeUsableSize(p)
	b, err := a.Realloc(unsafe.Slice((*byte)(p), old), size)
	if err != nil || b == nil {
		return nil, err
	}
	return unsafe.Pointer(&b[0]), nil
}
