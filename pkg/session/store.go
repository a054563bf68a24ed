/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package session

import (
	"context"
	"errors"
)

// KeyKind names a correlation key a session can be looked up by.
type KeyKind string

const (
	KeyRequestURI         KeyKind = "request_uri"
	KeyIssuerState        KeyKind = "issuer_state"
	KeyAuthorizationCode  KeyKind = "authorization_code"
	KeyAccessToken        KeyKind = "access_token"
	KeyRefreshToken       KeyKind = "refresh_token"
	KeyPIDIssuerSessionID KeyKind = "pid_issuer_session_id"
)

var (
	ErrDataNotFound = errors.New("data not found")
	// ErrSessionExpired is returned when the record still exists but its ttl has passed.
	ErrSessionExpired = errors.New("session is expired")
	// ErrUnexpectedStep is returned by LookupAndConsume when the session expects another request.
	ErrUnexpectedStep = errors.New("unexpected step")
	// ErrConcurrentUpdate is returned by Update when the record was changed by another request.
	ErrConcurrentUpdate = errors.New("concurrent session update")
)

// Store persists sessions and indexes them by their correlation keys.
//
// Every key written by Create or Update is a secondary index to the session record.
// LookupAndConsume removes the index atomically, so of two concurrent calls with the same
// key exactly one succeeds. It also advances the record version, so an Update of a copy read
// before the consumption fails with ErrConcurrentUpdate instead of restoring the consumed key.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Find(ctx context.Context, variant FlowVariant, kind KeyKind, value string) (*Session, error)
	LookupAndConsume(ctx context.Context, variant FlowVariant, kind KeyKind, value string,
		expected Step) (*Session, error)
	Update(ctx context.Context, s *Session) error
	// SetDPoPNonce writes the DPoP nonce of s to the stored record only.
	SetDPoPNonce(ctx context.Context, s *Session) error
	Delete(ctx context.Context, s *Session) error
}
