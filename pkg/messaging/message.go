// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package messaging

// MessageType categorizes the message for the ingestion endpoint.
type MessageType string

// Telemetry is the type of every observation message.
const Telemetry MessageType = "telemetry"

const (
	// ContentTypeJSON is the content type of observation payloads.
	ContentTypeJSON = "application/json"

	// EncodingUTF8 is the content encoding of observation payloads.
	EncodingUTF8 = "utf-8"
)

// Message represents a wire message handed to a Connection.
type Message struct {
	ID              string      `json:"id"`
	Type            MessageType `json:"type"`
	ContentType     string      `json:"content_type"`
	ContentEncoding string      `json:"content_encoding"`
	Payload         []byte      `json:"payload"`
	Created         int64       `json:"created"`
}
