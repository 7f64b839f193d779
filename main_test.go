/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nethesis/edge-downloader/store"
)

// Global variables for test server URL and mock Edge API
var testServerURL string
var mockEdgeAPI *httptest.Server
var testSecretsDir string

// TestMain sets up the test environment once for all tests
func TestMain(m *testing.M) {
	setupTestEnvironment()

	code := m.Run()

	cleanupTestEnvironment()

	os.Exit(code)
}

func setupTestEnvironment() {
	gin.SetMode(gin.TestMode)

	// Start mock Edge API first
	mockEdgeAPI = mockEdgeAPIServer()

	// Write the credential store
	testSecretsDir, _ = os.MkdirTemp("", "edge-downloader-test")
	secretsPath := filepath.Join(testSecretsDir, "secrets.toml")
	os.WriteFile(secretsPath, []byte(`
[credentials]
usernames = ["alice", "bob"]
passwords = ["alice-pass", "bob-pass"]

[edgeapi]
api_key = "test-api-key"
`), 0600)

	os.Setenv("EDGE_DOWNLOADER_LISTEN_ADDRESS", "127.0.0.1:8899")
	os.Setenv("EDGE_DOWNLOADER_SECRET", "test-secret")
	os.Setenv("EDGE_DOWNLOADER_SECRETS_FILE", secretsPath)
	os.Setenv("EDGE_DOWNLOADER_API_BASE_URL", mockEdgeAPI.URL+"/pienergy")

	// Start the actual main server in a goroutine
	go func() {
		main()
	}()

	testServerURL = "http://127.0.0.1:8899"

	// Give server time to fully start
	time.Sleep(2 * time.Second)
}

// Mock Edge API for testing
func mockEdgeAPIServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "test-api-key" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message": "bad key"}`))
			return
		}

		switch r.URL.Path {
		case "/pienergy/devices":
			w.Write([]byte(`[{"serialid": "E100", "installdate": 1704067200, "site": {"name": "north"}}]`))
		case "/pienergy/events/interval/E100":
			w.Write([]byte(`[{"event": "sag", "starttime": ` + r.URL.Query().Get("starttime") + `}]`))
		case "/pienergy/powerquality/live/E404":
			w.Write([]byte(`{"error-code": 4, "message": "no device"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message": "not found"}`))
		}
	}))
}

// Global cleanup test data
func cleanupTestEnvironment() {
	if mockEdgeAPI != nil {
		mockEdgeAPI.Close()
	}
	os.RemoveAll(testSecretsDir)

	os.Unsetenv("EDGE_DOWNLOADER_LISTEN_ADDRESS")
	os.Unsetenv("EDGE_DOWNLOADER_SECRET")
	os.Unsetenv("EDGE_DOWNLOADER_SECRETS_FILE")
	os.Unsetenv("EDGE_DOWNLOADER_API_BASE_URL")
}

func newBrowser(t *testing.T) *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func performLogin(t *testing.T, client *http.Client, username, password string) *http.Response {
	resp, err := client.PostForm(testServerURL+"/login", url.Values{
		"username": {username},
		"password": {password},
	})
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestHealth(t *testing.T) {
	resp, err := http.Get(testServerURL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	assert.Equal(t, float64(200), response["code"])
	assert.Equal(t, "healthy", response["message"])
}

func TestAppRequiresLogin(t *testing.T) {
	client := newBrowser(t)

	resp, err := client.Get(testServerURL + "/")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `action="/login"`)

	resp, err = client.PostForm(testServerURL+"/fetch", url.Values{"endpoint": {"Devices"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestLoginFailure(t *testing.T) {
	client := newBrowser(t)

	resp := performLogin(t, client, "alice", "wrong")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Incorrect username or password")
}

func TestLoginCrossPairedCredentials(t *testing.T) {
	client := newBrowser(t)

	resp := performLogin(t, client, "alice", "bob-pass")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Signed in as alice")
}

func TestFetchAndDownload(t *testing.T) {
	client := newBrowser(t)
	readBody(t, performLogin(t, client, "alice", "alice-pass"))

	resp, err := client.PostForm(testServerURL+"/fetch", url.Values{
		"endpoint":        {"Events Interval"},
		"device_serialid": {"E100"},
		"start_date":      {"2024-01-01"},
		"end_date":        {"2024-01-01"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Data fetched successfully!")

	resp, err = client.Get(testServerURL + "/download")
	require.NoError(t, err)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "events_interval_")

	records, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"event", "starttime", "starttime_readable"},
		{"sag", "1704067200", "2024-01-01T00:00:00Z"},
	}, records)
}

func TestFetchDevicesWithoutSerial(t *testing.T) {
	client := newBrowser(t)
	readBody(t, performLogin(t, client, "bob", "bob-pass"))

	resp, err := client.PostForm(testServerURL+"/fetch", url.Values{"endpoint": {"Devices"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	readBody(t, resp)

	resp, err = client.Get(testServerURL + "/download")
	require.NoError(t, err)
	body := readBody(t, resp)

	records, err := csv.NewReader(bytes.NewReader([]byte(body))).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"serialid", "installdate", "site.name", "installdate_readable"}, records[0])
}

func TestFetchApplicationErrorHasNoDownload(t *testing.T) {
	client := newBrowser(t)
	readBody(t, performLogin(t, client, "alice", "alice-pass"))

	resp, err := client.PostForm(testServerURL+"/fetch", url.Values{
		"endpoint":        {"Power Quality Live"},
		"device_serialid": {"E404"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "API Error 4: no device")

	resp, err = client.Get(testServerURL + "/download")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestLogoutRequiresNewLogin(t *testing.T) {
	client := newBrowser(t)
	readBody(t, performLogin(t, client, "alice", "alice-pass"))

	serverURL, _ := url.Parse(testServerURL)
	oldCookies := client.Jar.Cookies(serverURL)
	require.NotEmpty(t, oldCookies)
	sessionsBefore := store.Sessions.Len()

	// logout redirects to the login page
	resp, err := client.Post(testServerURL+"/logout", "application/x-www-form-urlencoded", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `action="/login"`)
	assert.Equal(t, sessionsBefore-1, store.Sessions.Len())

	resp, err = client.Get(testServerURL + "/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// a copy of the old cookie is useless too
	req, _ := http.NewRequest("GET", testServerURL+"/", nil)
	for _, cookie := range oldCookies {
		req.AddCookie(cookie)
	}
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}
