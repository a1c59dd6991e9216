// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package observations

import (
	"fmt"
	"testing"
	"time"

	"github.com/absmach/recdist/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestTracker(t *testing.T) {
	tr := newTracker()
	entry := pending{obs: Observation{SensorID: "sensor-1"}, dispatched: time.Now()}

	err := tr.register("id-1", entry)
	assert.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.Equal(t, 1, tr.len())

	err = tr.register("id-1", entry)
	assert.True(t, errors.Contains(err, ErrDuplicateMessageID), fmt.Sprintf("expected %s got %s", ErrDuplicateMessageID, err))
	assert.Equal(t, 1, tr.len())

	got, ok := tr.resolve("id-1")
	assert.True(t, ok)
	assert.Equal(t, entry, got)
	assert.Equal(t, 0, tr.len())

	_, ok = tr.resolve("id-1")
	assert.False(t, ok)

	_, ok = tr.resolve("unknown")
	assert.False(t, ok)
	assert.Equal(t, 0, tr.len())
}

func TestTrackerList(t *testing.T) {
	tr := newTracker()
	assert.Empty(t, tr.list())

	ids := []string{"id-c", "id-a", "id-d", "id-b"}
	for i, id := range ids {
		err := tr.register(id, pending{obs: Observation{SensorID: fmt.Sprintf("sensor-%d", i)}, dispatched: time.Now()})
		assert.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	}
	_, ok := tr.resolve("id-a")
	assert.True(t, ok)

	got := tr.list()
	want := []Observation{{SensorID: "sensor-0"}, {SensorID: "sensor-2"}, {SensorID: "sensor-3"}}
	assert.Equal(t, want, got)

	got[0].SensorID = "changed"
	assert.Equal(t, want, tr.list(), "listing must not alias tracked entries")
}

var errSend = errors.New("send failed")
