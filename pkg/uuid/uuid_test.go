// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package uuid_test

import (
	"testing"

	"github.com/absmach/recdist/pkg/uuid"
	gofrs "github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID(t *testing.T) {
	idp := uuid.New()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id, err := idp.ID()
		require.Nil(t, err, "unexpected error generating uuid")

		parsed, err := gofrs.FromString(id)
		require.Nil(t, err, "generated id is not a valid uuid")
		assert.Equal(t, gofrs.V4, parsed.Version())

		_, dup := seen[id]
		assert.False(t, dup, "generated duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestMockID(t *testing.T) {
	idp := uuid.NewMock()

	first, err := idp.ID()
	require.Nil(t, err)
	second, err := idp.ID()
	require.Nil(t, err)

	assert.Equal(t, uuid.Prefix+"000000000001", first)
	assert.Equal(t, uuid.Prefix+"000000000002", second)
}
