// Copyright 2026 The Uxheap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uxheap

import (
	"testing"
	"unsafe"
)

// walk returns every node reachable from a.head, in list order.
func walk(a *Allocator) []*header {
	var nodes []*header
	for h := a.head; h != nil; h = h.next {
		nodes = append(nodes, h)
	}
	return nodes
}

// checkListInvariants re-verifies the structural properties the brk list
// must hold after any sequence of operations once the deferred coalesce
// has run: sizes aligned, blocks address-contiguous, no two adjacent
// FREE blocks, and the cached tail
// agrees with a full walk (invariant I5 from the spec's Design Notes).
func checkListInvariants(t *testing.T, a *Allocator) {
	t.Helper()
	nodes := walk(a)
	for i, h := range nodes {
		if h.size%alignQ != 0 {
			t.Errorf("node %d: size %d is not %d-aligned", i, h.size, alignQ)
		}
		if i+1 < len(nodes) {
			next := nodes[i+1]
			if h.end() != next.addr() {
				t.Errorf("node %d: end %#x does not abut next node at %#x", i, h.end(), next.addr())
			}
			if h.status == statusFree && next.status == statusFree {
				t.Errorf("nodes %d and %d are both FREE; coalesce should have merged them", i, i+1)
			}
		}
		if h.status == statusMapped {
			t.Errorf("node %d: MAPPED block must never be linked into the brk list", i)
		}
	}

	slow := a.listEndSlow()
	if a.listEnd() != slow {
		t.Errorf("cached tail %p disagrees with the slow walk %p", a.listEnd(), slow)
	}
}

func TestInvariantsAfterMixedWorkload(t *testing.T) {
	var a Allocator
	var live [][]byte
	for i := 0; i < 40; i++ {
		size := 16 + (i%7)*24
		p, err := a.Alloc(size)
		if err != nil {
			t.Fatal(err)
		}
		live = append(live, p)
		checkListInvariants(t, &a)

		if i%3 == 0 && len(live) > 2 {
			if err := a.Free(live[0]); err != nil {
				t.Fatal(err)
			}
			live = live[1:]
			// Free defers coalescing to the next best-fit search; run it
			// so the no-adjacent-FREE check sees the post-coalesce list.
			a.listCoalesce()
			checkListInvariants(t, &a)
		}
	}
	for _, p := range live {
		if err := a.Free(p); err != nil {
			t.Fatal(err)
		}
	}
	a.listCoalesce()
	checkListInvariants(t, &a)
}

// TestAllocFreeAllocSameAddress covers spec boundary P6: freeing a block
// and immediately allocating a request that fits it exactly must reuse
// the same address, since best-fit has nothing else to choose from.
func TestAllocFreeAllocSameAddress(t *testing.T) {
	var a Allocator
	p, err := a.Alloc(64)
	if err != nil {
		t.Fatal(err)
	}
	addr := unsafe.Pointer(&p[0])
	if err := a.Free(p); err != nil {
		t.Fatal(err)
	}
	q, err := a.Alloc(64)
	if err != nil {
		t.Fatal(err)
	}
	if unsafe.Pointer(&q[0]) != addr {
		t.Fatalf("reused block moved from %p to %p", addr, &q[0])
	}
}

// TestReallocNoopFit covers spec boundary P7: reallocating to a size
// that already fits within the current block's capacity never moves the
// allocation or touches brk/mmap state.
func TestReallocNoopFit(t *testing.T) {
	var a Allocator
	p, err := a.Alloc(64)
	if err != nil {
		t.Fatal(err)
	}
	addr := unsafe.Pointer(&p[0])
	brkBefore, mmapBefore := a.brkBytes, a.mmapBytes

	q, err := a.Realloc(p, 32)
	if err != nil {
		t.Fatal(err)
	}
	if unsafe.Pointer(&q[0]) != addr {
		t.Fatalf("shrink-in-place moved the allocation")
	}
	if a.brkBytes != brkBefore || a.mmapBytes != mmapBefore {
		t.Fatalf("shrink-in-place touched backend byte counters")
	}
}

// TestMmapThresholdNeverTouchesBrkList covers spec boundary P10: any
// request whose total size reaches the mmap threshold bypasses the brk
// list entirely, even on a virgin allocator that would otherwise prepay.
func TestMmapThresholdNeverTouchesBrkList(t *testing.T) {
	var a Allocator
	p, err := a.Alloc(mmapThresholdMalloc)
	if err != nil {
		t.Fatal(err)
	}
	if a.brkBytes != 0 {
		t.Fatalf("brkBytes = %d, want 0; mmap path must not prepay the break", a.brkBytes)
	}
	if !a.listIsEmpty() {
		t.Fatalf("brk list must stay empty when every request routes through mmap")
	}
	if err := a.Free(p); err != nil {
		t.Fatal(err)
	}
}

func TestUnsafeAPIRoundTrip(t *testing.T) {
	var a Allocator
	p, err := a.UnsafeAlloc(128)
	if err != nil {
		t.Fatal(err)
	}
	if got := UnsafeUsableSize(p); got < 128 {
		t.Fatalf("UnsafeUsableSize = %d, want >= 128", got)
	}
	q, err := a.UnsafeRealloc(p, 256)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.UnsafeFree(q); err != nil {
		t.Fatal(err)
	}
}
