// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package apiutil

import "github.com/absmach/recdist/pkg/errors"

// Errors defined in this file are used by the LoggingErrorEncoder decorator
// to distinguish and log API request validation errors and avoid that service
// errors are logged twice.
var (
	// ErrValidation indicates that an error was returned by the API.
	ErrValidation = errors.New("something went wrong with the request")

	// ErrUnsupportedContentType indicates unacceptable or lack of Content-Type.
	ErrUnsupportedContentType = errors.New("unsupported content type")

	// ErrMalformedRequest indicates a request body that cannot be decoded.
	ErrMalformedRequest = errors.New("malformed request body")

	// ErrMissingSensorID indicates missing sensor identifier.
	ErrMissingSensorID = errors.New("missing sensor id")

	// ErrInvalidValue indicates a measurement without a numeric or boolean value.
	ErrInvalidValue = errors.New("value must be numeric or boolean")

	// ErrEmptyList indicates a request without observations.
	ErrEmptyList = errors.New("empty observation list")

	// ErrInvalidQueryParams indicates invalid query parameters.
	ErrInvalidQueryParams = errors.New("invalid query parameters")

	// ErrLimitSize indicates that an invalid limit.
	ErrLimitSize = errors.New("invalid limit size")
)
