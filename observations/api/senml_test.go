// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"testing"
	"time"

	"github.com/absmach/recdist/pkg/apiutil"
	"github.com/absmach/recdist/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSenML(t *testing.T) {
	cases := []struct {
		desc   string
		body   string
		ids    []string
		values []float64
		err    error
	}{
		{
			desc:   "decode numeric records",
			body:   `[{"bn":"floor-2:","n":"temp-1","u":"Cel","v":21.5},{"n":"temp-2","u":"Cel","v":22}]`,
			ids:    []string{"floor-2:temp-1", "floor-2:temp-2"},
			values: []float64{21.5, 22},
		},
		{
			desc:   "decode boolean records",
			body:   `[{"n":"presence-1","vb":true},{"n":"presence-2","vb":false}]`,
			ids:    []string{"presence-1", "presence-2"},
			values: []float64{1, 0},
		},
		{
			desc: "decode string record",
			body: `[{"n":"door-1","vs":"open"}]`,
			err:  apiutil.ErrInvalidValue,
		},
		{
			desc: "decode malformed pack",
			body: `[{"n":"temp-1","v":`,
			err:  apiutil.ErrMalformedRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			obs, err := decodeSenML([]byte(tc.body), "temp")
			assert.True(t, errors.Contains(err, tc.err), "expected error %v got %v", tc.err, err)
			if tc.err != nil {
				return
			}
			require.Len(t, obs, len(tc.ids))
			for i, o := range obs {
				assert.Equal(t, tc.ids[i], o.SensorID)
				assert.Equal(t, tc.values[i], o.Value)
				assert.Equal(t, "temp", o.SensorType)
				assert.False(t, o.ReceivedAt.IsZero())
			}
		})
	}
}

func TestFromSeconds(t *testing.T) {
	got := fromSeconds(1700000000.5)
	assert.Equal(t, time.Unix(1700000000, 500000000).UTC(), got)
}
