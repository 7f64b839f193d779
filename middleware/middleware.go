/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package middleware

import (
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/gin-gonic/gin"

	jwt "github.com/appleboy/gin-jwt/v2"

	"github.com/nethesis/edge-downloader/configuration"
	"github.com/nethesis/edge-downloader/logs"
	"github.com/nethesis/edge-downloader/models"
	"github.com/nethesis/edge-downloader/store"
	"github.com/nethesis/edge-downloader/utils"
)

const incorrectCredentials = "Incorrect username or password"

var jwtMiddleware *jwt.GinJWTMiddleware
var identityKey = "id"
var sessionClaim = "sid"
var outcomeKey = "login_outcome"

func InstanceJWT() *jwt.GinJWTMiddleware {
	if jwtMiddleware == nil {
		jwtMiddleware = InitJWT()
	}
	return jwtMiddleware
}

// ResetJWT drops the cached middleware so the next InstanceJWT call picks up new
// configuration.
func ResetJWT() {
	jwtMiddleware = nil
}

func InitJWT() *jwt.GinJWTMiddleware {
	// define jwt middleware
	authMiddleware, errDefine := jwt.New(&jwt.GinJWTMiddleware{
		Realm:       "edge-downloader",
		Key:         []byte(configuration.Config.Secret),
		Timeout:     configuration.Config.SessionTimeout,
		IdentityKey: identityKey,
		Authenticator: func(c *gin.Context) (interface{}, error) {
			// check login credentials exists
			var loginVals models.LoginForm
			if err := c.ShouldBind(&loginVals); err != nil {
				return nil, jwt.ErrMissingLoginValues
			}

			ok, err := Authenticate(configuration.CredentialStore, loginVals.Username, loginVals.Password)
			if err != nil {
				logs.Log("[ERROR][AUTH] " + err.Error())
				return nil, err
			}
			if !ok {
				logs.Log("[ERROR][AUTH] " + incorrectCredentials + " for user " + loginVals.Username)
				return nil, jwt.ErrFailedAuthentication
			}

			// open a new session and bind it to the token
			session := store.Sessions.Create(loginVals.Username)
			logs.Log("[INFO][AUTH] login-ok user=" + loginVals.Username + " session=" + session.ID)

			return &models.UserAuthorizations{
				Username:  loginVals.Username,
				SessionID: session.ID,
			}, nil
		},
		PayloadFunc: func(data interface{}) jwt.MapClaims {
			if user, ok := data.(*models.UserAuthorizations); ok {
				return jwt.MapClaims{
					identityKey:  user.Username,
					sessionClaim: user.SessionID,
				}
			}
			return jwt.MapClaims{}
		},
		IdentityHandler: func(c *gin.Context) interface{} {
			claims := jwt.ExtractClaims(c)

			username, _ := claims[identityKey].(string)
			sessionID, _ := claims[sessionClaim].(string)

			return &models.UserAuthorizations{
				Username:  username,
				SessionID: sessionID,
			}
		},
		Authorizator: func(data interface{}, c *gin.Context) bool {
			user, ok := data.(*models.UserAuthorizations)
			if !ok || user.SessionID == "" {
				return false
			}

			// the token is only valid while its session is logged in
			session := store.Sessions.Get(user.SessionID)
			if session == nil || !session.Authenticated() {
				return false
			}

			c.Set(store.ContextKey, session)
			return true
		},
		HTTPStatusMessageFunc: func(e error, c *gin.Context) string {
			outcome := loginOutcome(e)
			c.Set(outcomeKey, outcome)
			if len(outcome.Messages) > 0 {
				return outcome.Messages[0]
			}
			return ""
		},
		LoginResponse: func(c *gin.Context, code int, token string, t time.Time) {
			c.Redirect(http.StatusSeeOther, "/")
		},
		LogoutResponse: func(c *gin.Context, code int) {
			c.Redirect(http.StatusSeeOther, "/")
		},
		Unauthorized: func(c *gin.Context, code int, message string) {
			outcome := models.Outcome{}
			if value, exists := c.Get(outcomeKey); exists {
				outcome = value.(models.Outcome)
			}
			RenderLogin(c, code, outcome)
		},
		TokenLookup:    "cookie: jwt",
		CookieName:     "jwt",
		SendCookie:     true,
		CookieHTTPOnly: true,
		SecureCookie:   configuration.Config.SecureCookie,
		CookieSameSite: http.SameSiteLaxMode,
		TimeFunc:       time.Now,
	})

	// check middleware errors
	if errDefine != nil {
		utils.LogError(errors.Wrap(errDefine, "[AUTH] middleware definition error"))
	}

	// init middleware
	errInit := authMiddleware.MiddlewareInit()

	// check error on initialization
	if errInit != nil {
		utils.LogError(errors.Wrap(errInit, "[AUTH] middleware initialization error"))
	}

	// return object
	return authMiddleware
}

// loginOutcome classifies why the login gate refused a request.
func loginOutcome(e error) models.Outcome {
	var cfgErr *configuration.ConfigError
	if errors.As(e, &cfgErr) {
		return models.Outcome{Kind: models.OutcomeConfigError, Messages: []string{cfgErr.Message}}
	}

	switch e {
	case jwt.ErrFailedAuthentication, jwt.ErrMissingLoginValues:
		return models.Outcome{Kind: models.OutcomeAuthError, Messages: []string{incorrectCredentials}}
	}

	// missing, expired or revoked session token: plain login page
	return models.Outcome{}
}

// RenderLogin shows the login form with an optional outcome banner.
func RenderLogin(c *gin.Context, code int, outcome models.Outcome) {
	c.HTML(code, "login.html", gin.H{
		"Title":   "Edge API Data Downloader",
		"Outcome": outcome,
	})
}

// LoginPage renders the empty login form.
func LoginPage(c *gin.Context) {
	RenderLogin(c, http.StatusOK, models.Outcome{})
}
