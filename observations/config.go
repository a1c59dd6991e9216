// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package observations

import (
	"github.com/absmach/recdist/pkg/errors"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Payload formats.
const (
	// FormatObservation sends a single REC observation per message.
	FormatObservation = "observation"
	// FormatRec wraps the observation in a REC device envelope.
	FormatRec = "rec"
)

// DefaultHistoryCapacity is the number of acknowledged observations kept by default.
const DefaultHistoryCapacity = 1000

// Config holds the distribution settings.
type Config struct {
	HistoryCapacity int    `env:"HISTORY_CAPACITY" envDefault:"1000"`
	PayloadFormat   string `env:"PAYLOAD_FORMAT"   envDefault:"observation"`
	DeviceID        string `env:"DEVICE_ID"        envDefault:""`
}

// DefaultConfig returns the settings used when none are given.
func DefaultConfig() Config {
	return Config{
		HistoryCapacity: DefaultHistoryCapacity,
		PayloadFormat:   FormatObservation,
	}
}

// Validate checks the settings. A REC envelope requires a device id.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.HistoryCapacity, validation.Required, validation.Min(1)),
		validation.Field(&c.PayloadFormat, validation.Required, validation.In(FormatObservation, FormatRec)),
		validation.Field(&c.DeviceID, validation.When(c.PayloadFormat == FormatRec, validation.Required)),
	)
	if err != nil {
		return errors.Wrap(ErrInvalidConfig, err)
	}

	return nil
}
