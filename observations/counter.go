// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package observations

import "math"

// counter is a monotonic message counter. It restarts at 1 after reaching
// the largest representable value.
type counter uint64

func (c *counter) inc() {
	if *c == math.MaxUint64 {
		*c = 1
		return
	}
	*c++
}

func (c counter) value() uint64 {
	return uint64(c)
}
