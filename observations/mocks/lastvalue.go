// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"

	"github.com/absmach/recdist/observations"
	"github.com/stretchr/testify/mock"
)

var _ observations.LastValueRepository = (*LastValueRepository)(nil)

type LastValueRepository struct {
	mock.Mock
}

func (repo *LastValueRepository) Save(ctx context.Context, lv observations.LastValue) error {
	ret := repo.Called(ctx, lv)

	return ret.Error(0)
}

func (repo *LastValueRepository) Retrieve(ctx context.Context, sensorID string) (observations.LastValue, error) {
	ret := repo.Called(ctx, sensorID)

	return ret.Get(0).(observations.LastValue), ret.Error(1)
}
