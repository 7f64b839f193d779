/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package models

type LoginForm struct {
	Username string `form:"username" json:"username" structs:"username"`
	Password string `form:"password" json:"password" structs:"password"`
}

// UserAuthorizations is the identity carried by the session token.
type UserAuthorizations struct {
	Username  string `json:"username" structs:"username"`
	SessionID string `json:"sid" structs:"sid"`
}
