// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package observations

import (
	"github.com/absmach/recdist/pkg/errors"
	"github.com/absmach/recdist/pkg/messaging"
)

var (
	// ErrNotConnected indicates that the connection to the ingestion endpoint
	// is not established. Publishing may be retried once it is.
	ErrNotConnected = messaging.ErrNotConnected

	// ErrSerialization indicates an observation that could not be encoded.
	ErrSerialization = errors.New("failed to serialize observation")

	// ErrMessageID indicates a failure to assign a message id.
	ErrMessageID = errors.New("failed to generate message id")

	// ErrDuplicateMessageID indicates a message id that is already awaiting acknowledgment.
	ErrDuplicateMessageID = errors.New("message id is already awaiting acknowledgment")

	// ErrInvalidConfig indicates invalid distribution settings.
	ErrInvalidConfig = errors.New("invalid distribution configuration")
)
