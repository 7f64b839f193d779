/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package configuration

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Configuration struct {
	ListenAddress  string        `json:"listen_address"`
	Secret         string        `json:"secret"`
	SecretsFile    string        `json:"secrets_file"`
	APIBaseURL     string        `json:"api_base_url"`
	SecureCookie   bool          `json:"secure_cookie"`
	SessionTimeout time.Duration `json:"session_timeout"`
}

var Config = Configuration{}

func Init() {
	// seed environment from .env, when present
	_ = godotenv.Load()

	// read configuration from ENV
	if os.Getenv("EDGE_DOWNLOADER_LISTEN_ADDRESS") != "" {
		Config.ListenAddress = os.Getenv("EDGE_DOWNLOADER_LISTEN_ADDRESS")
	} else {
		Config.ListenAddress = "127.0.0.1:8501"
	}

	// token signing key
	if os.Getenv("EDGE_DOWNLOADER_SECRET") != "" {
		Config.Secret = os.Getenv("EDGE_DOWNLOADER_SECRET")
	} else {
		os.Stderr.WriteString("EDGE_DOWNLOADER_SECRET variable is empty. ")
		os.Exit(1)
	}

	// set secrets file
	if os.Getenv("EDGE_DOWNLOADER_SECRETS_FILE") != "" {
		Config.SecretsFile = os.Getenv("EDGE_DOWNLOADER_SECRETS_FILE")
	} else {
		Config.SecretsFile = "secrets.toml"
	}

	// set Edge API base url
	if os.Getenv("EDGE_DOWNLOADER_API_BASE_URL") != "" {
		Config.APIBaseURL = strings.TrimRight(os.Getenv("EDGE_DOWNLOADER_API_BASE_URL"), "/")
	} else {
		Config.APIBaseURL = "https://v3.edgezeroapi.com/pienergy"
	}

	// set cookie flags
	Config.SecureCookie = os.Getenv("EDGE_DOWNLOADER_SECURE_COOKIE") == "true"

	// set session timeout
	Config.SessionTimeout = 12 * time.Hour
	if raw := os.Getenv("EDGE_DOWNLOADER_SESSION_TIMEOUT"); raw != "" {
		if timeout, err := time.ParseDuration(raw); err == nil && timeout > 0 {
			Config.SessionTimeout = timeout
		} else {
			os.Stderr.WriteString("EDGE_DOWNLOADER_SESSION_TIMEOUT is not a valid duration, using 12h. ")
		}
	}

	// load credential store
	InitSecrets(Config.SecretsFile)
}
