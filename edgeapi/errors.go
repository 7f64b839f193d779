/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package edgeapi

import (
	"fmt"
	"strings"

	"github.com/Jeffail/gabs/v2"
	"github.com/pkg/errors"
)

var ErrMissingAPIKey = errors.New("API Key not found in secrets.")

// TransportError is a non-2xx HTTP answer from the Edge API.
type TransportError struct {
	StatusCode int
	Status     string
	URL        string
	Body       []byte
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s for url: %s", e.Status, e.URL)
}

// APIMessage is the "message" field of a JSON error body, or the raw body text.
func (e *TransportError) APIMessage() string {
	parsed, err := gabs.ParseJSON(e.Body)
	if err != nil {
		return string(e.Body)
	}

	message, ok := parsed.ChildrenMap()["message"]
	if !ok {
		return string(e.Body)
	}
	return scalar(message)
}

// APIError is an application error object returned with a 2xx status.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API Error %s: %s", e.Code, e.Message)
}

// applicationError detects the {"error-code": .., "message": ..} shape.
func applicationError(data *gabs.Container) *APIError {
	children := data.ChildrenMap()

	code, ok := children["error-code"]
	if !ok {
		return nil
	}

	apiErr := &APIError{Code: scalar(code)}
	if message, ok := children["message"]; ok {
		apiErr.Message = scalar(message)
	}
	return apiErr
}

func scalar(c *gabs.Container) string {
	switch v := c.Data().(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return strings.TrimSpace(c.String())
	}
}
