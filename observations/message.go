// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package observations

import (
	"encoding/json"
	"time"

	"github.com/absmach/recdist"
	"github.com/absmach/recdist/pkg/errors"
	"github.com/absmach/recdist/pkg/messaging"
)

// Builder converts observations to wire messages.
type Builder struct {
	idp      recdist.IDProvider
	format   string
	deviceID string
}

// NewBuilder returns a builder that assigns message ids from idp and encodes
// payloads in the format configured by cfg.
func NewBuilder(idp recdist.IDProvider, cfg Config) *Builder {
	return &Builder{
		idp:      idp,
		format:   cfg.PayloadFormat,
		deviceID: cfg.DeviceID,
	}
}

// Build encodes obs and assigns it a fresh message id.
func (b *Builder) Build(obs Observation) (messaging.Message, error) {
	rec := NewRecObservation(obs)

	var payload interface{} = rec
	if b.format == FormatRec {
		payload = NewRecMessage(b.deviceID, rec)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return messaging.Message{}, errors.Wrap(ErrSerialization, err)
	}

	id, err := b.idp.ID()
	if err != nil {
		return messaging.Message{}, errors.Wrap(ErrMessageID, err)
	}

	return messaging.Message{
		ID:              id,
		Type:            messaging.Telemetry,
		ContentType:     messaging.ContentTypeJSON,
		ContentEncoding: messaging.EncodingUTF8,
		Payload:         data,
		Created:         time.Now().UnixNano(),
	}, nil
}
