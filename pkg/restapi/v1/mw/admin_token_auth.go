/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mw

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	bearerScheme = "Bearer "
)

// AdminTokenAuth returns a middleware that authenticates requests using a static bearer token
// from the Authorization header.
func AdminTokenAuth(token string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)

			if token == "" || len(authHeader) < len(bearerScheme) ||
				!strings.EqualFold(authHeader[:len(bearerScheme)], bearerScheme) ||
				subtle.ConstantTimeCompare([]byte(authHeader[len(bearerScheme):]), []byte(token)) != 1 {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")

				return &echo.HTTPError{
					Code:    http.StatusUnauthorized,
					Message: "Unauthorized",
				}
			}

			return next(c)
		}
	}
}
