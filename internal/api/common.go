// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/absmach/recdist"
	"github.com/absmach/recdist/observations"
	"github.com/absmach/recdist/pkg/apiutil"
	"github.com/absmach/recdist/pkg/errors"
)

const (
	LimitKey    = "limit"
	SensorIDKey = "sensor_id"
	DefLimit    = 100
	// MaxLimitSize limits the number of observations listed at once.
	MaxLimitSize = 1000
	// MaxBatchSize limits the number of observations published at once.
	MaxBatchSize = 1000
	// ContentType represents JSON content type.
	ContentType = "application/json"
	// SenMLContentType represents SenML JSON content type.
	SenMLContentType = "application/senml+json"
	// RetryAfter is the number of seconds clients wait before repeating a
	// request refused because the broker connection is down.
	RetryAfter = 5
)

// EncodeResponse encodes successful response.
func EncodeResponse(_ context.Context, w http.ResponseWriter, response interface{}) error {
	if ar, ok := response.(recdist.Response); ok {
		for k, v := range ar.Headers() {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", ContentType)
		w.WriteHeader(ar.Code())

		if ar.Empty() {
			return nil
		}
	}

	return json.NewEncoder(w).Encode(response)
}

// EncodeError encodes an error response.
func EncodeError(_ context.Context, err error, w http.ResponseWriter) {
	var wrapper error
	if errors.Contains(err, apiutil.ErrValidation) {
		wrapper, err = errors.Unwrap(err)
	}

	w.Header().Set("Content-Type", ContentType)
	switch {
	case errors.Contains(err, errors.ErrMalformedEntity),
		errors.Contains(err, apiutil.ErrValidation),
		errors.Contains(err, apiutil.ErrMalformedRequest),
		errors.Contains(err, apiutil.ErrMissingSensorID),
		errors.Contains(err, apiutil.ErrInvalidValue),
		errors.Contains(err, apiutil.ErrEmptyList),
		errors.Contains(err, apiutil.ErrInvalidQueryParams),
		errors.Contains(err, apiutil.ErrLimitSize),
		errors.Contains(err, observations.ErrSerialization):
		err = unwrap(err)
		w.WriteHeader(http.StatusBadRequest)

	case errors.Contains(err, errors.ErrNotFound):
		err = unwrap(err)
		w.WriteHeader(http.StatusNotFound)

	case errors.Contains(err, observations.ErrDuplicateMessageID),
		errors.Contains(err, errors.ErrConflict):
		err = unwrap(err)
		w.WriteHeader(http.StatusConflict)

	case errors.Contains(err, apiutil.ErrUnsupportedContentType),
		errors.Contains(err, errors.ErrUnsupportedContentType):
		err = unwrap(err)
		w.WriteHeader(http.StatusUnsupportedMediaType)

	case errors.Contains(err, observations.ErrNotConnected):
		err = unwrap(err)
		w.Header().Set("Retry-After", strconv.Itoa(RetryAfter))
		w.WriteHeader(http.StatusServiceUnavailable)

	default:
		w.WriteHeader(http.StatusInternalServerError)
	}

	if wrapper != nil {
		err = errors.Wrap(wrapper, err)
	}

	if errorVal, ok := err.(errors.Error); ok {
		if err := json.NewEncoder(w).Encode(errorVal); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
}

func unwrap(err error) error {
	wrapper, err := errors.Unwrap(err)
	if wrapper != nil {
		return wrapper
	}
	return err
}
