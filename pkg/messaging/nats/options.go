// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package nats

import (
	"github.com/absmach/recdist/pkg/errors"
	"github.com/absmach/recdist/pkg/messaging"
)

// ErrInvalidType is returned when the provided value is not of the expected type.
var ErrInvalidType = errors.New("invalid type")

// Stream makes Open create or update a JetStream stream bound to the
// publish subject.
func Stream(name string) messaging.Option {
	return func(val interface{}) error {
		c, ok := val.(*connection)
		if !ok {
			return ErrInvalidType
		}
		c.stream = name

		return nil
	}
}
