/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package middleware

import (
	"github.com/nethesis/edge-downloader/configuration"
	"github.com/nethesis/edge-downloader/utils"
)

// Authenticate checks a submitted pair against the credential store. It fails closed
// when the credentials section is missing or malformed.
//
// Username and password are looked up in their lists independently: any allowed
// username succeeds with any allowed password. This mirrors the deployed allow-list
// format and must be revisited before exposing the tool beyond a trusted team.
func Authenticate(secrets *configuration.Secrets, username, password string) (bool, error) {
	usernames, passwords, err := secrets.Credentials()
	if err != nil {
		return false, err
	}

	return utils.Contains(username, usernames) && utils.Contains(password, passwords), nil
}
