// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package observations

// history is a fixed capacity log of acknowledged observations. When full,
// adding an observation evicts the oldest one.
type history struct {
	items []Observation
	head  int
	size  int
}

func newHistory(capacity int) *history {
	if capacity < 1 {
		capacity = 1
	}

	return &history{items: make([]Observation, capacity)}
}

func (h *history) add(obs Observation) {
	tail := (h.head + h.size) % len(h.items)
	h.items[tail] = obs
	if h.size < len(h.items) {
		h.size++
		return
	}
	h.head = (h.head + 1) % len(h.items)
}

// list returns a copy of the log, oldest first.
func (h *history) list() []Observation {
	ret := make([]Observation, h.size)
	for i := 0; i < h.size; i++ {
		ret[i] = h.items[(h.head+i)%len(h.items)]
	}

	return ret
}

func (h *history) len() int {
	return h.size
}

func (h *history) capacity() int {
	return len(h.items)
}
