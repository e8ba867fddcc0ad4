// Copyright 2026 The Uxheap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uxheap

import (
	"fmt"
	"os"
)

// trace gates the diagnostic Fprintf calls scattered through the public
// entry points, exactly the pattern the teacher package uses around its
// own Malloc/Free/Calloc/Realloc. Flip it to true (and rebuild) to watch
// every call on stderr; it costs nothing when false beyond the branch.
const trace = false

func dbg(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "uxheap: "+format+"\n", args...)
}
