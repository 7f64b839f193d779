/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package configuration

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/nethesis/edge-downloader/logs"
)

// ConfigError reports a missing or malformed section of the secrets store.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// Secrets is the read-only credential store backing the login gate and the API key.
type Secrets struct {
	v *viper.Viper
}

var CredentialStore = &Secrets{v: viper.New()}

// InitSecrets loads the secrets file into CredentialStore. A missing file leaves the
// store empty, so every login or fetch reports a configuration error instead.
func InitSecrets(path string) {
	secrets, err := LoadSecrets(path)
	if err != nil {
		logs.Log("[ERROR][CONFIG] Failed to read secrets file " + path + ": " + err.Error())
	}
	CredentialStore = secrets
}

// LoadSecrets reads a TOML secrets file. Values may be overridden from the environment,
// e.g. EDGE_DOWNLOADER_EDGEAPI_API_KEY.
func LoadSecrets(path string) (*Secrets, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix("EDGE_DOWNLOADER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return &Secrets{v: v}, err
	}

	return &Secrets{v: v}, nil
}

// Credentials returns the allowed usernames and passwords.
func (s *Secrets) Credentials() ([]string, []string, error) {
	if s == nil || s.v == nil {
		return nil, nil, &ConfigError{Message: "Missing [credentials] section in your secrets file."}
	}

	if !s.v.IsSet("credentials") && !s.v.IsSet("credentials.usernames") && !s.v.IsSet("credentials.passwords") {
		return nil, nil, &ConfigError{Message: "Missing [credentials] section in your secrets file."}
	}

	if !s.v.IsSet("credentials.usernames") || !s.v.IsSet("credentials.passwords") {
		return nil, nil, &ConfigError{Message: "Missing 'usernames' or 'passwords' under [credentials] in your secrets file."}
	}

	usernames, err := s.stringSet("credentials.usernames")
	if err != nil {
		return nil, nil, err
	}

	passwords, err := s.stringSet("credentials.passwords")
	if err != nil {
		return nil, nil, err
	}

	return usernames, passwords, nil
}

// APIKey returns the Edge API key.
func (s *Secrets) APIKey() (string, error) {
	if s == nil || s.v == nil || !s.v.IsSet("edgeapi.api_key") {
		return "", &ConfigError{Message: "API Key not found in secrets."}
	}

	apiKey := strings.TrimSpace(s.v.GetString("edgeapi.api_key"))
	if apiKey == "" {
		return "", &ConfigError{Message: "API Key not found in secrets."}
	}

	return apiKey, nil
}

func (s *Secrets) stringSet(key string) ([]string, error) {
	switch raw := s.v.Get(key).(type) {
	case []interface{}:
		values := make([]string, 0, len(raw))
		for _, item := range raw {
			str, ok := item.(string)
			if !ok {
				return nil, &ConfigError{Message: fmt.Sprintf("Malformed '%s' in your secrets file: expected a list of strings.", key)}
			}
			values = append(values, str)
		}
		return values, nil
	case []string:
		return raw, nil
	case string:
		// environment overrides arrive as a space separated list
		return strings.Fields(raw), nil
	default:
		return nil, &ConfigError{Message: fmt.Sprintf("Malformed '%s' in your secrets file: expected a list of strings.", key)}
	}
}
