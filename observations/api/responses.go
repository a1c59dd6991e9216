// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"

	"github.com/absmach/recdist"
	"github.com/absmach/recdist/observations"
)

var (
	_ recdist.Response = (*publishRes)(nil)
	_ recdist.Response = (*listObservationsRes)(nil)
	_ recdist.Response = (*statsRes)(nil)
	_ recdist.Response = (*connectionRes)(nil)
	_ recdist.Response = (*lastValueRes)(nil)
)

type publishRes struct {
	Accepted int `json:"accepted"`
}

func (res publishRes) Code() int {
	return http.StatusAccepted
}

func (res publishRes) Headers() map[string]string {
	return map[string]string{}
}

func (res publishRes) Empty() bool {
	return false
}

type listObservationsRes struct {
	Total        int                        `json:"total"`
	Observations []observations.Observation `json:"observations"`
}

func (res listObservationsRes) Code() int {
	return http.StatusOK
}

func (res listObservationsRes) Headers() map[string]string {
	return map[string]string{}
}

func (res listObservationsRes) Empty() bool {
	return false
}

type statsRes struct {
	observations.Stats
}

func (res statsRes) Code() int {
	return http.StatusOK
}

func (res statsRes) Headers() map[string]string {
	return map[string]string{}
}

func (res statsRes) Empty() bool {
	return false
}

type connectionRes struct {
	Connected bool `json:"connected"`
}

func (res connectionRes) Code() int {
	return http.StatusOK
}

func (res connectionRes) Headers() map[string]string {
	return map[string]string{}
}

func (res connectionRes) Empty() bool {
	return false
}

type lastValueRes struct {
	observations.LastValue
}

func (res lastValueRes) Code() int {
	return http.StatusOK
}

func (res lastValueRes) Headers() map[string]string {
	return map[string]string{}
}

func (res lastValueRes) Empty() bool {
	return false
}
