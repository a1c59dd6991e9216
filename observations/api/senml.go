// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"math"
	"time"

	"github.com/absmach/recdist/observations"
	"github.com/absmach/recdist/pkg/apiutil"
	"github.com/absmach/recdist/pkg/errors"
	"github.com/absmach/senml"
)

// decodeSenML converts a SenML JSON pack to observations. Record names
// resolved against the base name become sensor ids. Boolean values map to
// 1 and 0; records carrying neither a numeric nor a boolean value are
// rejected.
func decodeSenML(body []byte, sensorType string) ([]observations.Observation, error) {
	raw, err := senml.Decode(body, senml.JSON)
	if err != nil {
		return nil, errors.Wrap(apiutil.ErrMalformedRequest, err)
	}
	normalized, err := senml.Normalize(raw)
	if err != nil {
		return nil, errors.Wrap(apiutil.ErrMalformedRequest, err)
	}

	received := time.Now().UTC()
	ret := make([]observations.Observation, 0, len(normalized.Records))
	for _, rec := range normalized.Records {
		var value float64
		switch {
		case rec.Value != nil:
			value = *rec.Value
		case rec.BoolValue != nil && *rec.BoolValue:
			value = 1
		case rec.BoolValue != nil:
			value = 0
		default:
			return nil, apiutil.ErrInvalidValue
		}

		observed := received
		if rec.Time != 0 {
			observed = fromSeconds(rec.Time)
		}

		ret = append(ret, observations.Observation{
			SensorID:        rec.Name,
			SensorType:      sensorType,
			MeasurementUnit: rec.Unit,
			Value:           value,
			ObservationTime: observed,
			ReceivedAt:      received,
		})
	}

	return ret, nil
}

func fromSeconds(ts float64) time.Time {
	sec, frac := math.Modf(ts)

	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}
