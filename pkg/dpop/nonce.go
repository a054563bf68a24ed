/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package dpop

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/benbjohnson/clock"
)

const nonceSize = 32

// NonceIssuer creates server nonces with a fixed lifetime.
type NonceIssuer struct {
	clock    clock.Clock
	lifetime time.Duration
}

func NewNonceIssuer(clk clock.Clock, lifetime time.Duration) *NonceIssuer {
	return &NonceIssuer{clock: clk, lifetime: lifetime}
}

// Issue returns a fresh nonce and its expiry.
func (n *NonceIssuer) Issue() NonceState {
	return NonceState{
		Value:     RandomString(nonceSize),
		ExpiresAt: n.clock.Now().UTC().Add(n.lifetime),
	}
}

func (n *NonceIssuer) Lifetime() time.Duration {
	return n.lifetime
}

// RandomString returns size random bytes, base64url encoded.
func RandomString(size int) string {
	b := make([]byte, size)

	if _, err := rand.Read(b); err != nil {
		panic(err)
	}

	return base64.RawURLEncoding.EncodeToString(b)
}
