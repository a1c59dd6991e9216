// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package observations

import (
	"strings"
	"time"
)

// Quantity kinds of the RealEstateCore ontology.
const (
	QuantityKindTemperature = "https://w3id.org/rec/core/Temperature"
	QuantityKindCO2         = "https://w3id.org/rec/core/CO2"
	QuantityKindPresence    = "https://w3id.org/rec/core/Prescence"
)

const (
	// RecFormat is the format identifier of the REC message envelope.
	RecFormat      = "rec3.3"
	deviceIDPrefix = "https://recref.com/device/"
)

// QuantityKind maps a sensor type to its quantity kind URI. The match is
// case-insensitive and unknown sensor types map to an empty string.
func QuantityKind(sensorType string) string {
	switch strings.ToLower(sensorType) {
	case "temperatur", "temp", "temperature":
		return QuantityKindTemperature
	case "co2":
		return QuantityKindCO2
	case "tilstedevarelse", "presence":
		return QuantityKindPresence
	default:
		return ""
	}
}

// RecObservation is the wire representation of an Observation annotated
// with its quantity kind. Zero times are encoded as null.
type RecObservation struct {
	SensorID        string     `json:"sensorId"`
	Tfm             string     `json:"tfm"`
	RealEstate      string     `json:"realEstate"`
	Building        string     `json:"building"`
	Floor           string     `json:"floor"`
	Section         string     `json:"section"`
	ServesRoom      string     `json:"servesRoom"`
	PlacementRoom   string     `json:"placementRoom"`
	ClimateZone     string     `json:"climateZone"`
	ElectricityZone string     `json:"electricityZone"`
	Name            string     `json:"name"`
	SensorType      string     `json:"sensorType"`
	MeasurementUnit string     `json:"measurementUnit"`
	Value           float64    `json:"value"`
	ObservationTime *time.Time `json:"observationTime"`
	ReceivedAt      *time.Time `json:"receivedAt"`
	QuantityKind    string     `json:"quantityKind"`
}

// NewRecObservation converts obs to its wire representation.
func NewRecObservation(obs Observation) RecObservation {
	return RecObservation{
		SensorID:        obs.SensorID,
		Tfm:             obs.Tfm,
		RealEstate:      obs.RealEstate,
		Building:        obs.Building,
		Floor:           obs.Floor,
		Section:         obs.Section,
		ServesRoom:      obs.ServesRoom,
		PlacementRoom:   obs.PlacementRoom,
		ClimateZone:     obs.ClimateZone,
		ElectricityZone: obs.ElectricityZone,
		Name:            obs.Name,
		SensorType:      obs.SensorType,
		MeasurementUnit: obs.MeasurementUnit,
		Value:           obs.Value,
		ObservationTime: timePtr(obs.ObservationTime),
		ReceivedAt:      timePtr(obs.ReceivedAt),
		QuantityKind:    QuantityKind(obs.SensorType),
	}
}

// RecMessage is the REC envelope carrying observations of one device.
type RecMessage struct {
	Format       string           `json:"format"`
	DeviceID     string           `json:"deviceId"`
	Observations []RecObservation `json:"observations"`
}

// NewRecMessage returns an envelope for the device. Device ids that are
// not already REC device references get the reference prefix.
func NewRecMessage(deviceID string, observations ...RecObservation) RecMessage {
	if !strings.HasPrefix(deviceID, deviceIDPrefix) {
		deviceID = deviceIDPrefix + deviceID
	}
	if observations == nil {
		observations = []RecObservation{}
	}

	return RecMessage{
		Format:       RecFormat,
		DeviceID:     deviceID,
		Observations: observations,
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	t = t.UTC()

	return &t
}
