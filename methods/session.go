/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package methods

import (
	"net/http"

	"github.com/fatih/structs"
	"github.com/gin-gonic/gin"

	"github.com/nethesis/edge-downloader/logs"
	"github.com/nethesis/edge-downloader/models"
	"github.com/nethesis/edge-downloader/store"
)

// Logout ends the current session; the cookie is cleared by the next handler.
func Logout(c *gin.Context) {
	session := currentSession(c)
	store.Sessions.Logout(session.ID)
	logs.Log("[INFO][AUTH] logout user=" + session.Username + " session=" + session.ID)
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, structs.Map(models.StatusOK{
		Code:    200,
		Message: "healthy",
		Data:    nil,
	}))
}
