/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination controller_mocks_test.go -self_package mocks -package statuslist_test . StatusListService

package statuslist

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/trustbloc/logutil-go/pkg/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/internal/logfields"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/cslmanager"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/doc/statuslist"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/resterr/rfc6749"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/v1/mw"
	apiUtil "github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/v1/util"
)

const (
	idParam    = "id"
	indexParam = "idx"

	contentType = "application/" + statuslist.TokenType
)

var logger = log.New("status-list-rest")

// StatusListService publishes and updates status lists.
type StatusListService interface {
	GetStatusListToken(ctx context.Context, listID string) (string, error)
	UpdateStatus(ctx context.Context, listID string, index int, revoked bool) error
}

type router interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

type Config struct {
	Service    StatusListService
	Tracer     trace.Tracer
	AdminToken string
}

type Controller struct {
	service StatusListService
	tracer  trace.Tracer
}

func NewController(router router, config *Config) *Controller {
	c := &Controller{
		service: config.Service,
		tracer:  config.Tracer,
	}

	router.GET("/"+statuslist.PathSegment+"/:id", c.GetStatusList)
	router.POST("/admin/"+statuslist.PathSegment+"/:id/:idx/revoke", c.Revoke, mw.AdminTokenAuth(config.AdminToken))

	return c
}

// GetStatusList returns the signed status list token.
// (GET /status-lists/{id}).
func (c *Controller) GetStatusList(e echo.Context) error {
	ctx, span := c.tracer.Start(e.Request().Context(), "GetStatusList")
	defer span.End()

	listID := e.Param(idParam)
	span.SetAttributes(attribute.String("list_id", listID))

	token, err := c.service.GetStatusListToken(ctx, listID)

	return apiUtil.WriteRawOutputWithContentType(e)([]byte(token), contentType, mapError(err))
}

// Revoke sets the status bit of a credential.
// (POST /admin/status-lists/{id}/{idx}/revoke).
func (c *Controller) Revoke(e echo.Context) error {
	ctx, span := c.tracer.Start(e.Request().Context(), "Revoke")
	defer span.End()

	listID := e.Param(idParam)

	index, err := strconv.Atoi(e.Param(indexParam))
	if err != nil {
		return rfc6749.NewInvalidRequestError(errors.New("Status list index invalid")) //nolint:stylecheck
	}

	span.SetAttributes(attribute.String("list_id", listID), attribute.Int("index", index))

	if err = c.service.UpdateStatus(ctx, listID, index, true); err != nil {
		return mapError(err)
	}

	logger.Infoc(ctx, "credential revoked", logfields.WithStatusListIndex(index))

	return e.NoContent(http.StatusNoContent)
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, cslmanager.ErrDataNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Status list not found")
	case errors.Is(err, cslmanager.ErrInvalidIndex):
		return rfc6749.NewInvalidRequestError(errors.New("Status list index invalid")) //nolint:stylecheck
	default:
		return err
	}
}
