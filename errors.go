// Copyright 2026 The Uxheap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uxheap

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// ErrOutOfMemory is returned, wrapped with context, when a requested
// size overflows and when Realloc is given an already freed block. A
// zero-sized request is not an error, and a failing brk or mmap call
// goes through fatal instead.
var ErrOutOfMemory = errors.New("uxheap: out of memory")

// ErrDoubleFree would be the natural error for freeing an already-FREE
// block, but per spec it is explicitly tolerated, not reported: Free
// silently no-ops on a block that is already FREE.

// fatal routes failures of a syscall the allocator has already
// committed to (brk, mmap, munmap) through one primitive, per the
// Design Notes rationale: the list is mid-mutation at that point and no
// caller can reason about partial success, so the process terminates
// with the OS error code instead of returning.
func fatal(op string, err error) {
	fmt.Fprintf(os.Stderr, "uxheap: fatal: %s: %v\n", op, err)
	code := 1
	var errno syscall.Errno
	if errors.As(err, &errno) {
		code = int(errno)
	}
	os.Exit(code)
}
