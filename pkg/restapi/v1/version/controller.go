/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package version

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/session"
)

type router interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

type Config struct {
	Version string
	// Variants served by this instance. Defaults to all flow variants.
	Variants []session.FlowVariant
}

type Controller struct {
	version  string
	variants []string
}

type versionResponse struct {
	Version      string   `json:"version"`
	FlowVariants []string `json:"flow_variants"`
}

func NewController(router router, cfg Config) *Controller {
	variants := cfg.Variants
	if len(variants) == 0 {
		variants = session.Variants
	}

	c := &Controller{
		version: cfg.Version,
		variants: lo.Map(variants, func(v session.FlowVariant, _ int) string {
			return string(v)
		}),
	}

	router.GET("/version", c.Version)

	return c
}

func (c *Controller) Version(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, versionResponse{Version: c.version, FlowVariants: c.variants})
}
