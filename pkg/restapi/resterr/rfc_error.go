/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resterr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// RFCError is a protocol error that is returned to the wallet as {"error", "error_description"}.
// Headers set with WithHeader are written to the response together with the body.
type RFCError[T ~string] struct {
	ErrorCode      T
	ErrorComponent Component
	Operation      string
	IncorrectValue string
	HTTPStatus     int
	Err            error
	headers        http.Header
}

// RFCErrorJSON is a helper struct for JSON encoding/decoding of RFCError.
type RFCErrorJSON[T comparable] struct {
	ErrorCode   T      `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func (e *RFCError[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(&RFCErrorJSON[T]{
		ErrorCode:   e.ErrorCode,
		Description: e.Description(),
	})
}

func (e *RFCError[T]) UnmarshalJSON(b []byte) error {
	var data RFCErrorJSON[T]

	if err := json.Unmarshal(b, &data); err != nil {
		return err
	}

	e.ErrorCode = data.ErrorCode
	e.Err = errors.New(data.Description)

	return nil
}

func (e *RFCError[T]) Error() string {
	var description []string

	if e.ErrorComponent != "" {
		description = append(description, fmt.Sprintf("component: %s", e.ErrorComponent))
	}

	if e.Operation != "" {
		description = append(description, fmt.Sprintf("operation: %s", e.Operation))
	}

	if e.IncorrectValue != "" {
		description = append(description, fmt.Sprintf("incorrect value: %s", e.IncorrectValue))
	}

	if e.HTTPStatus != 0 {
		description = append(description, fmt.Sprintf("http status: %d", e.HTTPStatus))
	}

	return fmt.Sprintf("%s[%s]: %v", e.ErrorCode, strings.Join(description, "; "), e.Err)
}

// Description is the public error_description.
func (e *RFCError[T]) Description() string {
	if e.Err == nil {
		return ""
	}

	return e.Err.Error()
}

func (e *RFCError[T]) WithComponent(component Component) *RFCError[T] {
	e.ErrorComponent = component

	return e
}

func (e *RFCError[T]) WithOperation(operation string) *RFCError[T] {
	e.Operation = operation

	return e
}

func (e *RFCError[T]) WithIncorrectValue(incorrectValue string) *RFCError[T] {
	e.IncorrectValue = incorrectValue

	return e
}

func (e *RFCError[T]) WithHTTPStatusField(httpStatus int) *RFCError[T] {
	e.HTTPStatus = httpStatus

	return e
}

func (e *RFCError[T]) WithErrorPrefix(errPrefix string) *RFCError[T] {
	e.Err = fmt.Errorf("%s: %w", errPrefix, e.Err)

	return e
}

// WithHeader adds a response header, e.g. a fresh DPoP-Nonce.
func (e *RFCError[T]) WithHeader(key, value string) *RFCError[T] {
	if e.headers == nil {
		e.headers = http.Header{}
	}

	e.headers.Set(key, value)

	return e
}

// WithAuthenticateChallenge sets WWW-Authenticate for the given scheme from the error code and description.
// The challenge never carries the nonce itself; a nonce goes to the DPoP-Nonce header only.
func (e *RFCError[T]) WithAuthenticateChallenge(scheme string) *RFCError[T] {
	desc := strings.NewReplacer(`"`, "'", "\r", " ", "\n", " ").Replace(e.Description())

	return e.WithHeader("WWW-Authenticate",
		fmt.Sprintf(`%s error="%s", error_description="%s"`, scheme, e.ErrorCode, desc))
}

func (e *RFCError[T]) Code() string {
	return string(e.ErrorCode)
}

func (e *RFCError[T]) Component() string {
	return string(e.ErrorComponent)
}

func (e *RFCError[T]) Status() int {
	if e.HTTPStatus == 0 {
		return http.StatusBadRequest
	}

	return e.HTTPStatus
}

func (e *RFCError[T]) Headers() http.Header {
	return e.headers
}

func (e *RFCError[T]) Unwrap() error {
	return e.Err
}
