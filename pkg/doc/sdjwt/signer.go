/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sdjwt

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"github.com/hyperledger/aries-framework-go/component/kmscrypto/doc/jose"
)

const p256CoordinateSize = 32

// es256Signer signs JWS input with a P-256 key and returns the raw r||s signature.
type es256Signer struct {
	key     *ecdsa.PrivateKey
	headers jose.Headers
}

func newES256Signer(key *ecdsa.PrivateKey, headers jose.Headers) *es256Signer {
	return &es256Signer{key: key, headers: headers}
}

func (s *es256Signer) Sign(data []byte) ([]byte, error) {
	digest := sha256.Sum256(data)

	r, sv, err := ecdsa.Sign(rand.Reader, s.key, digest[:])
	if err != nil {
		return nil, fmt.Errorf("es256 sign: %w", err)
	}

	sig := make([]byte, 2*p256CoordinateSize)
	r.FillBytes(sig[:p256CoordinateSize])
	sv.FillBytes(sig[p256CoordinateSize:])

	return sig, nil
}

func (s *es256Signer) Headers() jose.Headers {
	return s.headers
}
