/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package main

import (
	"io"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/nethesis/edge-downloader/configuration"
	"github.com/nethesis/edge-downloader/logs"
	"github.com/nethesis/edge-downloader/methods"
	"github.com/nethesis/edge-downloader/middleware"
	"github.com/nethesis/edge-downloader/store"
	"github.com/nethesis/edge-downloader/views"
)

func main() {
	// init logger
	logs.Init("edge-downloader")

	// init configuration
	configuration.Init()

	// init store
	store.SessionsInit()

	// create router
	router := createRouter()

	// drop sessions older than the token lifetime
	c := cron.New()
	c.AddFunc("@every 10m", func() {
		store.Sessions.PurgeExpired(configuration.Config.SessionTimeout)
	})
	c.Start()

	// run server
	logs.Log("[INFO][MAIN] listening on " + configuration.Config.ListenAddress)
	if err := router.Run(configuration.Config.ListenAddress); err != nil {
		logs.Log("[ERROR][MAIN] server stopped: " + err.Error())
	}
}

func createRouter() *gin.Engine {
	// disable log to stdout when running in release mode
	if gin.Mode() == gin.ReleaseMode {
		gin.DefaultWriter = io.Discard
	}

	// init routers
	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(
		gin.LoggerWithWriter(gin.DefaultWriter),
		gin.Recovery(),
	)

	// add default compression
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// cors configuration only in debug mode GIN_MODE=debug (default)
	if gin.Mode() == gin.DebugMode {
		corsConf := cors.DefaultConfig()
		corsConf.AllowHeaders = []string{"Content-Type", "Accept"}
		corsConf.AllowAllOrigins = true
		router.Use(cors.New(corsConf))
	}

	// html pages
	router.SetHTMLTemplate(views.Templates())

	authMiddleware := middleware.InstanceJWT()

	// public endpoints
	router.GET("/health", methods.Health)
	router.GET("/login", middleware.LoginPage)
	router.POST("/login", authMiddleware.LoginHandler)

	// session endpoints
	app := router.Group("/")
	app.Use(authMiddleware.MiddlewareFunc())
	{
		app.GET("/", methods.Index)
		app.POST("/fetch", methods.Fetch)
		app.GET("/download", methods.Download)
		app.POST("/logout", methods.Logout, authMiddleware.LogoutHandler)
	}

	return router
}
