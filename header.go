// Copyright 2026 The Uxheap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uxheap

import (
	"unsafe"

	"modernc.org/mathutil"
)

// blockStatus is the lifecycle state of a block.
type blockStatus uint8

const (
	statusFree blockStatus = iota
	statusAlloc
	statusMapped
)

func (s blockStatus) String() string {
	switch s {
	case statusFree:
		return "FREE"
	case statusAlloc:
		return "ALLOC"
	case statusMapped:
		return "MAPPED"
	default:
		return "invalid"
	}
}

// header is the fixed record immediately preceding every payload region.
// It is never stored on the Go heap: every instance lives in raw memory
// obtained from the brk or mmap shims and is addressed through
// unsafe.Pointer arithmetic, the same technique the teacher package uses
// for its page/node structs.
type header struct {
	size   int // payload capacity in bytes, a multiple of alignQ
	status blockStatus
	next   *header // brk-list successor; always nil for MAPPED blocks
}

// headerAt reinterprets the memory at addr as a *header.
func headerAt(addr uintptr) *header { return (*header)(unsafe.Pointer(addr)) }

// payloadOf returns the address offset bytes into h's payload region.
func payloadOf(h *header, offset int) unsafe.Pointer {
	return unsafe.Pointer(uintptr(unsafe.Pointer(h)) + uintptr(headerSize) + uintptr(offset))
}

// headerOf returns the header immediately preceding the payload at p.
func headerOf(p unsafe.Pointer) *header {
	return (*header)(unsafe.Pointer(uintptr(p) - uintptr(headerSize)))
}

// sliceFromHeader builds the byte slice callers see for h: length bytes
// long, but with its capacity pinned to h's full payload size so that
// Free/Realloc can always recover the whole block via b[:cap(b)], and so
// callers can grow a slice in place up to cap(b) without a Realloc call,
// mirroring the teacher's convention of handing back the full usable
// slot size as capacity.
func sliceFromHeader(h *header, length int) []byte {
	full := unsafe.Slice((*byte)(payloadOf(h, 0)), h.size)
	return full[:length]
}

// addr is h's own address, used for list-contiguity arithmetic.
func (h *header) addr() uintptr { return uintptr(unsafe.Pointer(h)) }

// end returns the address one past h's payload: where h.next, if any,
// must begin (invariant I5).
func (h *header) end() uintptr { return h.addr() + uintptr(headerSize) + uintptr(h.size) }

// canSplit reports whether remaining bytes left over after carving a
// block of the requested size still leave room for a header plus at
// least one payload byte.
func canSplit(remaining int) bool { return remaining >= headerSize+1 }

// sizeOverflows reports whether n is too large to safely align, add a
// header to, or otherwise do arithmetic on without wrapping. The bound
// itself is a plain comparison; BitLen below is purely a trace
// diagnostic, not part of the verdict.
func sizeOverflows(n int) bool {
	if n < 0 {
		return true
	}
	if trace {
		dbg("sizeOverflows: n=%#x bitlen=%d threshold bitlen=%d", n, mathutil.BitLen(n), mathutil.BitLen(maxAllocSize))
	}
	return n >= maxAllocSize
}
