// Copyright 2026 The Uxheap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package uxheap implements a minimal general purpose heap allocator on
// top of two OS memory acquisition primitives: a program break extension
// primitive (brk/sbrk) and an anonymous page mapping primitive
// (mmap/munmap).
//
// Requests below the mmap threshold are served from the Allocator's
// address-ordered singly linked list of brk-owned blocks
// using best-fit search, splitting and coalescing. Requests at or above
// the threshold go straight to mmap and are freed with munmap; they
// never enter the list.
//
// Allocator's zero value is ready for use. It is not safe for concurrent
// use by multiple goroutines; callers needing that must serialize their
// own access.
package uxheap
