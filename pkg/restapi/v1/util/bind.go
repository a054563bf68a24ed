/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package util

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	headerCacheControl = "Cache-Control"
	headerPragma       = "Pragma"
)

func WriteOutput(ctx echo.Context) func(output interface{}, err error) error {
	return WriteOutputWithCode(http.StatusOK, ctx)
}

func WriteOutputWithCode(code int, ctx echo.Context) func(output interface{}, err error) error {
	return func(output interface{}, err error) error {
		if err != nil {
			return err
		}

		b, err := json.Marshal(output)
		if err != nil {
			return err
		}

		return ctx.JSONBlob(code, b)
	}
}

func WriteRawOutputWithContentType(ctx echo.Context) func(output []byte, ct string, err error) error {
	return func(output []byte, ct string, err error) error {
		if err != nil {
			return err
		}

		return ctx.Blob(http.StatusOK, ct, output)
	}
}

// NoStore marks the response as not cacheable. Used for responses carrying tokens.
func NoStore(ctx echo.Context) {
	ctx.Response().Header().Set(headerCacheControl, "no-store")
	ctx.Response().Header().Set(headerPragma, "no-cache")
}

// SetHeader sets a response header if the value is not empty.
func SetHeader(ctx echo.Context, key, value string) {
	if value != "" {
		ctx.Response().Header().Set(key, value)
	}
}
