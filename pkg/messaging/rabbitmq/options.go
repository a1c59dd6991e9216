// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package rabbitmq

import (
	"github.com/absmach/recdist/pkg/errors"
	"github.com/absmach/recdist/pkg/messaging"
)

// ErrInvalidType is returned when the provided value is not of the expected type.
var ErrInvalidType = errors.New("invalid type")

// Exchange sets the exchange the connection publishes to.
func Exchange(exchange string) messaging.Option {
	return func(val interface{}) error {
		c, ok := val.(*connection)
		if !ok {
			return ErrInvalidType
		}
		c.exchange = exchange

		return nil
	}
}
