// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mqtt

import (
	"time"

	"github.com/absmach/recdist/pkg/errors"
	"github.com/absmach/recdist/pkg/messaging"
)

// ErrInvalidType is returned when the provided value is not of the expected type.
var ErrInvalidType = errors.New("invalid type")

// ClientID sets the MQTT client identifier.
func ClientID(id string) messaging.Option {
	return func(val interface{}) error {
		c, ok := val.(*connection)
		if !ok {
			return ErrInvalidType
		}
		c.clientID = id

		return nil
	}
}

// Credentials sets the username and password used on connect.
func Credentials(username, password string) messaging.Option {
	return func(val interface{}) error {
		c, ok := val.(*connection)
		if !ok {
			return ErrInvalidType
		}
		c.username = username
		c.password = password

		return nil
	}
}

// KeepAlive sets the keep alive interval.
func KeepAlive(d time.Duration) messaging.Option {
	return func(val interface{}) error {
		c, ok := val.(*connection)
		if !ok {
			return ErrInvalidType
		}
		c.keepAlive = d

		return nil
	}
}

// Properties enables encoding message id, content type and content encoding
// into the publish topic as a property bag.
func Properties() messaging.Option {
	return func(val interface{}) error {
		c, ok := val.(*connection)
		if !ok {
			return ErrInvalidType
		}
		c.properties = true

		return nil
	}
}
