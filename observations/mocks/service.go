// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"
	"time"

	"github.com/absmach/recdist/observations"
	"github.com/stretchr/testify/mock"
)

var _ observations.Service = (*Service)(nil)

type Service struct {
	mock.Mock
}

func (svc *Service) Initialize(ctx context.Context) error {
	ret := svc.Called(ctx)

	return ret.Error(0)
}

func (svc *Service) Publish(ctx context.Context, obs *observations.Observation) error {
	ret := svc.Called(ctx, obs)

	return ret.Error(0)
}

func (svc *Service) Observed() uint64 {
	ret := svc.Called()

	return ret.Get(0).(uint64)
}

func (svc *Service) Published() uint64 {
	ret := svc.Called()

	return ret.Get(0).(uint64)
}

func (svc *Service) Failed() uint64 {
	ret := svc.Called()

	return ret.Get(0).(uint64)
}

func (svc *Service) InQueue() int {
	ret := svc.Called()

	return ret.Int(0)
}

func (svc *Service) ObservedMessages() []observations.Observation {
	ret := svc.Called()

	return ret.Get(0).([]observations.Observation)
}

func (svc *Service) PendingMessages() []observations.Observation {
	ret := svc.Called()

	return ret.Get(0).([]observations.Observation)
}

func (svc *Service) LastDistributed() time.Time {
	ret := svc.Called()

	return ret.Get(0).(time.Time)
}

func (svc *Service) IsConnectionEstablished() bool {
	ret := svc.Called()

	return ret.Bool(0)
}

func (svc *Service) OpenConnection(ctx context.Context) error {
	ret := svc.Called(ctx)

	return ret.Error(0)
}

func (svc *Service) CloseConnection() error {
	ret := svc.Called()

	return ret.Error(0)
}

func (svc *Service) Stats() observations.Stats {
	ret := svc.Called()

	return ret.Get(0).(observations.Stats)
}
