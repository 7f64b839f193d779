/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package endpoints

import (
	"fmt"

	"github.com/nethesis/edge-downloader/models"
)

// registry lists the Edge API routes in selector order.
var registry = []models.Endpoint{
	{
		Name:          "Devices",
		Path:          "/devices",
		Description:   "Returns device details based on the API Key and optional device serial ID.",
		Params:        []models.Param{models.ParamDeviceSerialID},
		Required:      []models.Param{},
		DeviceInQuery: true,
	},
	{
		Name:        "Events Interval",
		Path:        "/events/interval/",
		Description: "Returns event details based on the device_serialid provided within the time stamps.",
		Params:      []models.Param{models.ParamDeviceSerialID, models.ParamDates},
		Required:    []models.Param{models.ParamDeviceSerialID},
	},
	{
		Name:        "Power Quality Live",
		Path:        "/powerquality/live/",
		Description: "Returns live power quality based on the serialid provided.",
		Params:      []models.Param{models.ParamDeviceSerialID},
		Required:    []models.Param{models.ParamDeviceSerialID},
	},
	{
		Name:        "Power Quality Interval",
		Path:        "/powerquality/interval/",
		Description: "Returns power quality data based on the provided serialid and the time stamps.",
		Params:      []models.Param{models.ParamDeviceSerialID, models.ParamDates, models.ParamGranularity},
		Required:    []models.Param{models.ParamDeviceSerialID, models.ParamGranularity},
	},
	{
		Name:        "Power Quality Aggregated",
		Path:        "/powerquality/aggregated/",
		Description: "Returns aggregated power quality data based on the provided serialid and the time stamps.",
		Params:      []models.Param{models.ParamDeviceSerialID, models.ParamDates, models.ParamGranularity},
		Required:    []models.Param{models.ParamDeviceSerialID, models.ParamGranularity},
	},
}

// All returns a copy of the registry in selector order.
func All() []models.Endpoint {
	out := make([]models.Endpoint, len(registry))
	copy(out, registry)
	return out
}

// Names returns endpoint names in selector order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, e := range registry {
		names = append(names, e.Name)
	}
	return names
}

// Default is the endpoint preselected when none is chosen.
func Default() models.Endpoint {
	return registry[0]
}

// Lookup finds an endpoint by its display name.
func Lookup(name string) (models.Endpoint, error) {
	for _, e := range registry {
		if e.Name == name {
			return e, nil
		}
	}
	return models.Endpoint{}, fmt.Errorf("unknown endpoint %q", name)
}
