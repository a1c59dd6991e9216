// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package observations

import "time"

// Observation is a single sensor reading with its location and semantic
// metadata. It is handled by value and never modified after construction.
type Observation struct {
	SensorID        string    `json:"sensorId"`
	Tfm             string    `json:"tfm"`
	RealEstate      string    `json:"realEstate"`
	Building        string    `json:"building"`
	Floor           string    `json:"floor"`
	Section         string    `json:"section"`
	ServesRoom      string    `json:"servesRoom"`
	PlacementRoom   string    `json:"placementRoom"`
	ClimateZone     string    `json:"climateZone"`
	ElectricityZone string    `json:"electricityZone"`
	Name            string    `json:"name"`
	SensorType      string    `json:"sensorType"`
	MeasurementUnit string    `json:"measurementUnit"`
	Value           float64   `json:"value"`
	ObservationTime time.Time `json:"observationTime"`
	ReceivedAt      time.Time `json:"receivedAt"`
}
