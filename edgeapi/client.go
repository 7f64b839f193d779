/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package edgeapi

import (
	"bytes"
	"context"
	"net/http"

	"github.com/Jeffail/gabs/v2"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/nethesis/edge-downloader/models"
)

// Client issues authenticated GET requests against the Edge API.
type Client struct {
	resty *resty.Client
}

// Response is a successful Edge API payload.
type Response struct {
	Body []byte
	Data *gabs.Container
}

func NewClient() *Client {
	return &Client{resty: resty.New()}
}

// NewClientWithHTTP wraps an existing http.Client, tests use it with httptest servers.
func NewClientWithHTTP(hc *http.Client) *Client {
	return &Client{resty: resty.NewWithClient(hc)}
}

// Fetch sends one GET request. It returns *TransportError on non-2xx answers and
// *APIError when a 2xx body carries an "error-code".
func (c *Client) Fetch(ctx context.Context, url string, params models.QueryParams, apiKey string) (*Response, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	resp, err := c.resty.R().
		SetContext(ctx).
		SetHeader("X-Api-Key", apiKey).
		SetHeader("accept", "*/*").
		SetQueryParams(params).
		Get(url)
	if err != nil {
		return nil, errors.Wrap(err, "request to Edge API failed")
	}

	if !resp.IsSuccess() {
		requestURL := url
		if resp.RawResponse != nil && resp.RawResponse.Request != nil {
			requestURL = resp.RawResponse.Request.URL.String()
		}
		return nil, &TransportError{
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			URL:        requestURL,
			Body:       resp.Body(),
		}
	}

	body := resp.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return &Response{Body: body, Data: gabs.New()}, nil
	}

	data, err := gabs.ParseJSON(body)
	if err != nil {
		return nil, errors.Wrap(err, "invalid JSON in Edge API response")
	}

	if apiErr := applicationError(data); apiErr != nil {
		return nil, apiErr
	}

	return &Response{Body: body, Data: data}, nil
}

// Empty reports a payload that carries no data.
func (r *Response) Empty() bool {
	if r == nil || r.Data == nil {
		return true
	}

	switch v := r.Data.Data().(type) {
	case nil:
		return true
	case []interface{}:
		return len(v) == 0
	case map[string]interface{}:
		return len(v) == 0
	case string:
		return v == ""
	case bool:
		return !v
	case float64:
		return v == 0
	}
	return false
}
