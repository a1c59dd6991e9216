// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package observations

import (
	"cmp"
	"slices"
	"time"
)

// pending is a dispatched message awaiting acknowledgment.
type pending struct {
	obs        Observation
	dispatched time.Time
}

type tracked struct {
	pending
	seq uint64
}

// tracker maps message ids to pending entries. It is not safe for
// concurrent use; callers hold the service lock.
type tracker struct {
	entries map[string]tracked
	seq     uint64
}

func newTracker() *tracker {
	return &tracker{entries: make(map[string]tracked)}
}

func (t *tracker) register(id string, p pending) error {
	if _, ok := t.entries[id]; ok {
		return ErrDuplicateMessageID
	}
	t.seq++
	t.entries[id] = tracked{pending: p, seq: t.seq}

	return nil
}

// resolve removes and returns the entry for id.
func (t *tracker) resolve(id string) (pending, bool) {
	e, ok := t.entries[id]
	if ok {
		delete(t.entries, id)
	}

	return e.pending, ok
}

// list returns the pending observations in dispatch order.
func (t *tracker) list() []Observation {
	entries := make([]tracked, 0, len(t.entries))
	for _, e := range t.entries {
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b tracked) int {
		return cmp.Compare(a.seq, b.seq)
	})
	obs := make([]Observation, len(entries))
	for i, e := range entries {
		obs[i] = e.obs
	}

	return obs
}

func (t *tracker) len() int {
	return len(t.entries)
}
