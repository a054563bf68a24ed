/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package sdjwt encodes and verifies selective disclosure JWTs in the combined format for issuance.
package sdjwt

import (
	"crypto"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hyperledger/aries-framework-go/component/models/sdjwt/common"
)

const (
	CombinedFormatSeparator = common.CombinedFormatSeparator

	SDAlgorithmKey = common.SDAlgorithmKey
	SDKey          = common.SDKey
	CNFKey         = common.CNFKey

	// SHA256 is the only digest algorithm issued.
	SHA256 = "sha-256"

	hashAlgorithm = crypto.SHA256
)

// Disclosure is one (salt, name, value) triple.
type Disclosure struct {
	Salt    string
	Name    string
	Value   interface{}
	Encoded string
}

// Digest returns base64url(sha-256(encoded disclosure)).
func (d *Disclosure) Digest() (string, error) {
	return common.GetHash(hashAlgorithm, d.Encoded)
}

// ParseDisclosure decodes an encoded disclosure.
func ParseDisclosure(encoded string) (*Disclosure, error) {
	b, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode disclosure: %w", err)
	}

	var parts []interface{}
	if err = json.Unmarshal(b, &parts); err != nil {
		return nil, fmt.Errorf("unmarshal disclosure: %w", err)
	}

	if len(parts) != 3 { //nolint:gomnd
		return nil, errors.New("disclosure must have salt, name and value")
	}

	salt, ok := parts[0].(string)
	if !ok {
		return nil, errors.New("disclosure salt is not a string")
	}

	name, ok := parts[1].(string)
	if !ok {
		return nil, errors.New("disclosure name is not a string")
	}

	return &Disclosure{Salt: salt, Name: name, Value: parts[2], Encoded: encoded}, nil
}

// CombinedFormatForIssuance holds SD-JWT and disclosures.
type CombinedFormatForIssuance common.CombinedFormatForIssuance

// Serialize assembles <jwt>~<disclosure>~...~. An issuance without key binding ends with the separator.
func (cf *CombinedFormatForIssuance) Serialize() string {
	return (*common.CombinedFormatForIssuance)(cf).Serialize() + CombinedFormatSeparator
}

// ParseCombinedFormatForIssuance splits the combined format. Empty segments are ignored.
func ParseCombinedFormatForIssuance(combined string) *CombinedFormatForIssuance {
	parsed := common.ParseCombinedFormatForIssuance(combined)

	cf := &CombinedFormatForIssuance{SDJWT: parsed.SDJWT}

	for _, d := range parsed.Disclosures {
		if d != "" {
			cf.Disclosures = append(cf.Disclosures, d)
		}
	}

	return cf
}
