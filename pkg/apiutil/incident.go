// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package apiutil

import "math/rand/v2"

const (
	// IncidentHeader carries the incident id of a failed request.
	IncidentHeader = "X-Incident-Id"

	incidentPrefix  = "CRAE-"
	incidentLetters = "abcdefghijklmnopqrstuvwxyz"
	incidentLength  = 5
)

// IncidentID returns a short random id correlating an error response
// with its log record.
func IncidentID() string {
	b := make([]byte, incidentLength)
	for i := range b {
		b[i] = incidentLetters[rand.IntN(len(incidentLetters))]
	}

	return incidentPrefix + string(b)
}
