/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resterr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/trustbloc/logutil-go/pkg/log"
)

var logger = log.New("rest-err")

// ProtocolError is implemented by every RFCError instantiation.
type ProtocolError interface {
	error
	Code() string
	Status() int
	Headers() http.Header
	Description() string
}

// ErrorRecorder counts protocol errors by code.
type ErrorRecorder interface {
	ProtocolError(code string)
}

// NewHTTPErrorHandler returns an echo error handler that writes protocol errors as RFC6749 error responses.
func NewHTTPErrorHandler(recorder ErrorRecorder) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code, headers, message := processError(err)

		if recorder != nil {
			if pe, ok := asProtocolError(err); ok {
				recorder.ProtocolError(pe.Code())
			}
		}

		logger.Infoc(c.Request().Context(), "request failed",
			log.WithURL(c.Request().URL.Path), log.WithHTTPStatus(code), log.WithError(err))

		sendResponse(c, code, headers, message)
	}
}

// HTTPErrorHandler is the error handler without metrics.
func HTTPErrorHandler(err error, c echo.Context) {
	NewHTTPErrorHandler(nil)(err, c)
}

func sendResponse(c echo.Context, code int, headers http.Header, message interface{}) {
	if c.Response().Committed {
		return
	}

	for k, values := range headers {
		for _, v := range values {
			c.Response().Header().Add(k, v)
		}
	}

	var err error

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, message)
	}

	if err != nil {
		logger.Error("write http response", log.WithError(err))
	}
}

func asProtocolError(err error) (ProtocolError, bool) {
	var pe ProtocolError

	if errors.As(err, &pe) {
		return pe, true
	}

	return nil, false
}

func processError(err error) (int, http.Header, interface{}) {
	if pe, ok := asProtocolError(err); ok {
		return pe.Status(), pe.Headers(), map[string]interface{}{
			"error":             pe.Code(),
			"error_description": pe.Description(),
		}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code, message := he.Code, he.Message

		if strMsg, ok := message.(string); ok {
			message = map[string]interface{}{
				"error":             errorCodeForStatus(code),
				"error_description": strMsg,
			}
		}

		return code, nil, message
	}

	return http.StatusInternalServerError, nil, map[string]interface{}{
		"error":             "server_error",
		"error_description": "internal server error",
	}
}

func errorCodeForStatus(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "invalid_token"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusRequestEntityTooLarge, http.StatusBadRequest:
		return "invalid_request"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	default:
		return "server_error"
	}
}
