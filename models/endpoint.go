/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package models

// Param is one kind of input an endpoint accepts.
type Param string

const (
	ParamDeviceSerialID Param = "device_serialid"
	ParamDates          Param = "dates"
	ParamGranularity    Param = "granularity"
)

// Query parameter names sent to the Edge API.
const (
	QueryDeviceSerialID = "device_serialid"
	QueryStartTime      = "starttime"
	QueryEndTime        = "endtime"
	QueryGranularity    = "granularity"
)

// Endpoint describes one selectable Edge API route and its parameter contract.
type Endpoint struct {
	Name        string  `json:"name" structs:"name"`
	Path        string  `json:"path" structs:"path"`
	Description string  `json:"description" structs:"description"`
	Params      []Param `json:"params" structs:"params"`
	Required    []Param `json:"required_params" structs:"required_params"`
	// DeviceInQuery sends the device serial id as a query parameter instead of a path suffix.
	DeviceInQuery bool `json:"device_in_query" structs:"device_in_query"`
}

func (e Endpoint) Accepts(p Param) bool {
	for _, param := range e.Params {
		if param == p {
			return true
		}
	}
	return false
}

func (e Endpoint) Requires(p Param) bool {
	for _, param := range e.Required {
		if param == p {
			return true
		}
	}
	return false
}

// QueryParams is the query string sent with a single fetch.
type QueryParams map[string]string
