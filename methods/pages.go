/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package methods

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nethesis/edge-downloader/endpoints"
	"github.com/nethesis/edge-downloader/form"
	"github.com/nethesis/edge-downloader/models"
	"github.com/nethesis/edge-downloader/store"
)

const pageTitle = "Edge API Data Downloader"

// formRequest carries the parameter inputs, from the query string on GET and from the
// posted form on fetch.
type formRequest struct {
	Endpoint       string    `form:"endpoint"`
	DeviceSerialID string    `form:"device_serialid"`
	StartDate      time.Time `form:"start_date" time_format:"2006-01-02" time_utc:"1"`
	EndDate        time.Time `form:"end_date" time_format:"2006-01-02" time_utc:"1"`
	Granularity    string    `form:"granularity"`
}

// today is replaced in tests.
var today = time.Now

// Index renders the parameter form for the selected endpoint.
func Index(c *gin.Context) {
	session := currentSession(c)

	var req formRequest
	bindErr := c.ShouldBindQuery(&req)

	f, messages := buildForm(req)
	if bindErr != nil {
		messages = append(messages, "Invalid parameters: "+bindErr.Error())
	}

	outcome := models.Outcome{}
	if len(messages) > 0 {
		outcome = failure(models.OutcomeValidationError, messages...)
	}

	renderApp(c, http.StatusOK, session, f, outcome)
}

// buildForm threads the request values through the form builder. Unknown endpoints fall
// back to the default one and are reported.
func buildForm(req formRequest) (form.Form, []string) {
	var messages []string

	endpoint := endpoints.Default()
	if req.Endpoint != "" {
		e, err := endpoints.Lookup(req.Endpoint)
		if err != nil {
			messages = append(messages, "Unknown endpoint: "+req.Endpoint)
		} else {
			endpoint = e
		}
	}

	start, end := req.StartDate, req.EndDate
	if start.IsZero() {
		start = today()
	}
	if end.IsZero() {
		end = today()
	}

	f := form.New(endpoint).
		WithDeviceSerialID(req.DeviceSerialID).
		WithDates(start, end).
		WithGranularity(req.Granularity)

	return f, messages
}

func renderApp(c *gin.Context, code int, session *store.Session, f form.Form, outcome models.Outcome) {
	data := gin.H{
		"Title":         pageTitle,
		"Username":      session.Username,
		"Endpoints":     endpoints.All(),
		"Form":          f,
		"ShowDevice":    f.Endpoint.Accepts(models.ParamDeviceSerialID),
		"DeviceLabel":   f.Label(models.ParamDeviceSerialID),
		"Granularities": f.GranularityOptions(),
		"Outcome":       outcome,
	}

	if f.Dates != nil {
		data["StartDate"] = f.Dates.Start.Format(form.DateLayout)
		data["EndDate"] = f.Dates.End.Format(form.DateLayout)
		data["StartEpoch"] = f.Dates.StartEpoch()
		data["EndEpoch"] = f.Dates.EndEpoch()
	}

	c.HTML(code, "app.html", data)
}

func currentSession(c *gin.Context) *store.Session {
	return c.MustGet(store.ContextKey).(*store.Session)
}
