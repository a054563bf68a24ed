/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sdjwt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-jose/go-jose/v3"
)

// Verified is a verified SD-JWT with all disclosures applied.
type Verified struct {
	Header jose.Header
	// Claims are the payload claims with every disclosed claim in place of its digest.
	Claims map[string]interface{}
}

// Verify checks the issuer signature and that every disclosure digest occurs exactly once in the payload.
// key is the issuer public key.
func Verify(combined string, key interface{}) (*Verified, error) {
	cf := ParseCombinedFormatForIssuance(combined)

	jws, err := jose.ParseSigned(cf.SDJWT)
	if err != nil {
		return nil, fmt.Errorf("parse sd-jwt: %w", err)
	}

	payload, err := jws.Verify(key)
	if err != nil {
		return nil, fmt.Errorf("verify sd-jwt signature: %w", err)
	}

	claims := map[string]interface{}{}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	if err = dec.Decode(&claims); err != nil {
		return nil, fmt.Errorf("decode sd-jwt payload: %w", err)
	}

	if alg, _ := claims[SDAlgorithmKey].(string); alg != SHA256 {
		return nil, fmt.Errorf("unsupported %s %v", SDAlgorithmKey, claims[SDAlgorithmKey])
	}

	byDigest := map[string]*Disclosure{}

	for _, encoded := range cf.Disclosures {
		d, e := ParseDisclosure(encoded)
		if e != nil {
			return nil, e
		}

		dg, e := d.Digest()
		if e != nil {
			return nil, e
		}

		if _, ok := byDigest[dg]; ok {
			return nil, errors.New("duplicate disclosure")
		}

		byDigest[dg] = d
	}

	if err = apply(claims, byDigest); err != nil {
		return nil, err
	}

	if len(byDigest) > 0 {
		return nil, fmt.Errorf("%d disclosures without digest in sd-jwt", len(byDigest))
	}

	delete(claims, SDAlgorithmKey)

	return &Verified{Header: jws.Signatures[0].Header, Claims: claims}, nil
}

// apply replaces digests by disclosed claims and consumes used disclosures.
func apply(obj map[string]interface{}, byDigest map[string]*Disclosure) error {
	if raw, ok := obj[SDKey]; ok {
		digests, ok := raw.([]interface{})
		if !ok {
			return fmt.Errorf("%s is not an array", SDKey)
		}

		delete(obj, SDKey)

		for _, v := range digests {
			dg, ok := v.(string)
			if !ok {
				return fmt.Errorf("%s entry is not a string", SDKey)
			}

			d, ok := byDigest[dg]
			if !ok {
				// decoy or undisclosed claim
				continue
			}

			if _, exists := obj[d.Name]; exists {
				return fmt.Errorf("disclosed claim %q already present", d.Name)
			}

			obj[d.Name] = d.Value

			delete(byDigest, dg)
		}
	}

	for _, v := range obj {
		if nested, ok := v.(map[string]interface{}); ok {
			if err := apply(nested, byDigest); err != nil {
				return err
			}
		}
	}

	return nil
}
