// Copyright 2026 The Uxheap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uxheap

import (
	"math"
	"unsafe"
)

const (
	// alignQ is the alignment quantum every header and payload address
	// is kept a multiple of.
	alignQ = 8

	// initBrk is the size of the first program-break extension,
	// prepaying the heap so that small requests that follow avoid a
	// per-request syscall.
	initBrk = 128 * 1024

	// mmapThresholdMalloc is the total-size (payload + header) cutoff
	// at or above which Alloc/Realloc route to mmap instead of brk.
	mmapThresholdMalloc = 128 * 1024
)

// headerSize is sizeof(header) rounded up to alignQ. header has no
// fields whose natural alignment exceeds a pointer's, so this is a
// compile-time constant in practice but computed defensively in case the
// struct ever grows a wider field.
var headerSize = roundup(int(unsafe.Sizeof(header{})), alignQ)

// maxAllocSize is the largest size Alloc/Realloc/CallocZeroed will ever
// attempt to satisfy; anything at or beyond it is rejected by
// sizeOverflows before any arithmetic on it is trusted.
const maxAllocSize = math.MaxInt/2 - 4096

// roundup returns the smallest multiple of m that is >= n. m must be a
// power of two.
func roundup(n, m int) int { return (n + m - 1) &^ (m - 1) }
