/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/internal/logfields"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/resterr/rfc6749"
)

const maxSpecLength = 1024

var logger = log.New("logapi")

type Controller struct {
}

type router interface {
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// NewController registers the log level endpoint. The endpoint changes process wide state, callers
// pass the admin authentication middleware.
func NewController(
	router router,
	m ...echo.MiddlewareFunc,
) *Controller {
	c := &Controller{}

	router.POST("/admin/loglevels", c.PostLogLevels, m...)

	return c
}

// PostLogLevels updates log levels from a spec like "INFO:pidissuer=DEBUG".
// (POST /admin/loglevels).
func (c *Controller) PostLogLevels(ctx echo.Context) error {
	req := ctx.Request()

	logLevelBytes, err := io.ReadAll(io.LimitReader(req.Body, maxSpecLength+1))
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}

	if len(logLevelBytes) > maxSpecLength {
		return rfc6749.NewInvalidRequestError(errors.New("log spec too long"))
	}

	logLevels := strings.TrimSpace(string(logLevelBytes))
	if logLevels == "" {
		return rfc6749.NewInvalidRequestError(errors.New("log spec missing"))
	}

	if err = log.SetSpec(logLevels); err != nil {
		return rfc6749.NewInvalidRequestError(fmt.Errorf("failed to set log spec: %w", err))
	}

	logger.Infoc(req.Context(), "log levels modified", logfields.WithUserLogLevel(logLevels))

	return ctx.NoContent(http.StatusOK)
}
