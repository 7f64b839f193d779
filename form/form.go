/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package form

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/nethesis/edge-downloader/models"
)

// Form holds the parameter choices for one endpoint. It is built incrementally and
// passed by value; every With* method returns an updated copy.
type Form struct {
	Endpoint       models.Endpoint
	DeviceSerialID string
	Dates          *DateRange
	Granularity    string
}

// Request is the URL and query string for one fetch.
type Request struct {
	URL    string
	Params models.QueryParams
}

var paramLabels = map[models.Param]string{
	models.ParamDeviceSerialID: "Device Serial ID",
	models.ParamDates:          "Date range",
	models.ParamGranularity:    "Granularity",
}

func New(endpoint models.Endpoint) Form {
	return Form{Endpoint: endpoint}
}

func (f Form) WithDeviceSerialID(id string) Form {
	if f.Endpoint.Accepts(models.ParamDeviceSerialID) {
		f.DeviceSerialID = id
	}
	return f
}

func (f Form) WithDates(start, end time.Time) Form {
	if f.Endpoint.Accepts(models.ParamDates) {
		r := NewDateRange(start, end)
		f.Dates = &r
	}
	return f
}

// WithGranularity selects g when it is offered for the current date range, otherwise
// the first offered option.
func (f Form) WithGranularity(g string) Form {
	options := f.GranularityOptions()
	if len(options) == 0 {
		f.Granularity = ""
		return f
	}

	f.Granularity = options[0]
	for _, option := range options {
		if option == g {
			f.Granularity = g
			break
		}
	}
	return f
}

// GranularityOptions is empty until both dates are present.
func (f Form) GranularityOptions() []string {
	if !f.Endpoint.Accepts(models.ParamGranularity) || f.Dates == nil {
		return nil
	}
	return GranularityOptions(f.Dates.Days())
}

// Label is the input label for p, marked optional when the endpoint does not require it.
func (f Form) Label(p models.Param) string {
	label := paramLabels[p]
	if !f.Endpoint.Requires(p) {
		label += " (Optional)"
	}
	return label
}

func (f Form) value(p models.Param) string {
	switch p {
	case models.ParamDeviceSerialID:
		return f.DeviceSerialID
	case models.ParamGranularity:
		return f.Granularity
	case models.ParamDates:
		if f.Dates != nil {
			return f.Dates.String()
		}
	}
	return ""
}

// Validate returns one message per required parameter that has no value.
func (f Form) Validate() []string {
	var messages []string
	for _, p := range f.Endpoint.Required {
		if f.value(p) == "" {
			messages = append(messages, fmt.Sprintf("%s is a required parameter for this endpoint.", paramLabels[p]))
		}
	}
	return messages
}

// Request builds the URL and query parameters. The device serial id becomes a path
// suffix, except for endpoints that take it as an optional query parameter.
func (f Form) Request(baseURL string) Request {
	req := Request{
		URL:    baseURL + f.Endpoint.Path,
		Params: models.QueryParams{},
	}

	if f.Endpoint.Accepts(models.ParamDeviceSerialID) {
		if f.Endpoint.DeviceInQuery {
			if f.DeviceSerialID != "" {
				req.Params[models.QueryDeviceSerialID] = f.DeviceSerialID
			}
		} else {
			req.URL += url.PathEscape(f.DeviceSerialID)
		}
	}

	if f.Dates != nil {
		req.Params[models.QueryStartTime] = strconv.FormatInt(f.Dates.StartEpoch(), 10)
		req.Params[models.QueryEndTime] = strconv.FormatInt(f.Dates.EndEpoch(), 10)
	}

	if f.Granularity != "" {
		req.Params[models.QueryGranularity] = f.Granularity
	}

	return req
}
