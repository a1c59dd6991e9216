// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"github.com/absmach/recdist/internal/api"
	"github.com/absmach/recdist/observations"
	"github.com/absmach/recdist/pkg/apiutil"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type publishReq struct {
	observations []observations.Observation
}

func (req publishReq) validate() error {
	if len(req.observations) == 0 {
		return apiutil.ErrEmptyList
	}
	if len(req.observations) > api.MaxBatchSize {
		return apiutil.ErrLimitSize
	}
	for _, obs := range req.observations {
		if err := validation.Validate(obs.SensorID, validation.Required); err != nil {
			return apiutil.ErrMissingSensorID
		}
	}

	return nil
}

type listObservationsReq struct {
	limit    uint64
	sensorID string
}

func (req listObservationsReq) validate() error {
	if err := validation.Validate(req.limit, validation.Required, validation.Max(uint64(api.MaxLimitSize))); err != nil {
		return apiutil.ErrLimitSize
	}

	return nil
}

type lastValueReq struct {
	sensorID string
}

func (req lastValueReq) validate() error {
	if err := validation.Validate(req.sensorID, validation.Required); err != nil {
		return apiutil.ErrMissingSensorID
	}

	return nil
}

type connectionReq struct {
	open bool
}
