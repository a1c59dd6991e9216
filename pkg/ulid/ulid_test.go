// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package ulid_test

import (
	"testing"

	"github.com/absmach/recdist/pkg/ulid"
	oklog "github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID(t *testing.T) {
	idp := ulid.New()

	prev := ""
	for i := 0; i < 100; i++ {
		id, err := idp.ID()
		require.Nil(t, err, "unexpected error generating ulid")

		_, err = oklog.ParseStrict(id)
		require.Nil(t, err, "generated id is not a valid ulid")
		assert.Greater(t, id, prev, "ulids must sort in generation order")
		prev = id
	}
}
