/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package methods

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fatih/structs"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/nethesis/edge-downloader/configuration"
	"github.com/nethesis/edge-downloader/edgeapi"
	"github.com/nethesis/edge-downloader/export"
	"github.com/nethesis/edge-downloader/form"
	"github.com/nethesis/edge-downloader/logs"
	"github.com/nethesis/edge-downloader/models"
)

var apiClient = edgeapi.NewClient()

// Fetch validates the form, queries the Edge API and keeps the resulting CSV in the
// session. Every attempt replaces the previous export.
func Fetch(c *gin.Context) {
	session := currentSession(c)

	var req formRequest
	if err := c.ShouldBind(&req); err != nil {
		f, _ := buildForm(formRequest{Endpoint: c.PostForm("endpoint")})
		session.SetExport(nil)
		renderApp(c, http.StatusBadRequest, session, f, failure(models.OutcomeValidationError, "Invalid parameters: "+err.Error()))
		return
	}

	f, messages := buildForm(req)
	outcome := models.Outcome{}
	if len(messages) > 0 {
		outcome = failure(models.OutcomeValidationError, messages...)
	} else {
		outcome = runFetch(c.Request.Context(), f)
	}

	session.SetExport(outcome.Export)
	renderApp(c, statusFor(outcome), session, f, outcome)
}

// Download serves the export held by the session.
func Download(c *gin.Context) {
	exp := currentSession(c).Export()
	if exp == nil {
		c.JSON(http.StatusNotFound, structs.Map(models.StatusNotFound{
			Code:    404,
			Message: "no export available, fetch data first",
			Data:    nil,
		}))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exp.Filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", exp.Data)
}

func runFetch(ctx context.Context, f form.Form) (outcome models.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = failure(models.OutcomeUnexpected, fmt.Sprintf("An unexpected error occurred: %v", r))
		}
	}()

	if messages := f.Validate(); len(messages) > 0 {
		return failure(models.OutcomeValidationError, messages...)
	}

	apiKey, err := configuration.CredentialStore.APIKey()
	if err != nil {
		return failure(models.OutcomeConfigError, err.Error())
	}

	req := f.Request(configuration.Config.APIBaseURL)
	resp, err := apiClient.Fetch(ctx, req.URL, req.Params, apiKey)
	if err != nil {
		return classify(err)
	}

	if resp.Empty() {
		return models.Outcome{
			Kind:     models.OutcomeEmpty,
			Messages: []string{"The API returned no data for the given parameters."},
		}
	}

	exp, err := export.Build(f.Endpoint.Name, resp.Body, time.Now())
	if err != nil {
		return failure(models.OutcomeUnexpected, "An unexpected error occurred: "+err.Error())
	}

	logs.Log(fmt.Sprintf("[INFO][FETCH] %s: %d row(s) exported to %s", f.Endpoint.Name, exp.Rows, exp.Filename))

	return models.Outcome{
		Kind:     models.OutcomeOK,
		Messages: []string{"Data fetched successfully!"},
		Export:   exp,
	}
}

func classify(err error) models.Outcome {
	var transportErr *edgeapi.TransportError
	if errors.As(err, &transportErr) {
		return failure(models.OutcomeTransportError,
			"HTTP Error: "+transportErr.Error(),
			"API Response: "+transportErr.APIMessage())
	}

	var apiErr *edgeapi.APIError
	if errors.As(err, &apiErr) {
		return failure(models.OutcomeAPIError, apiErr.Error())
	}

	if errors.Is(err, edgeapi.ErrMissingAPIKey) {
		return failure(models.OutcomeConfigError, err.Error())
	}

	return failure(models.OutcomeUnexpected, "An unexpected error occurred: "+err.Error())
}

// failure logs each message and wraps them in an outcome.
func failure(kind models.OutcomeKind, messages ...string) models.Outcome {
	for _, message := range messages {
		logs.Log("[ERROR][FETCH] " + message)
	}
	return models.Outcome{Kind: kind, Messages: messages}
}

func statusFor(outcome models.Outcome) int {
	switch outcome.Kind {
	case models.OutcomeValidationError:
		return http.StatusBadRequest
	case models.OutcomeTransportError, models.OutcomeAPIError:
		return http.StatusBadGateway
	case models.OutcomeConfigError, models.OutcomeUnexpected:
		return http.StatusInternalServerError
	case models.OutcomeAuthError:
		return http.StatusUnauthorized
	case models.OutcomeOK, models.OutcomeEmpty, models.OutcomeNone:
		return http.StatusOK
	}
	return http.StatusInternalServerError
}
