/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package pidissuer

import (
	"context"
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/go-jose/go-jose/v3"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/internal/logfields"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/session"
)

const (
	hashSize = 32
	// P-256 coordinates are 32 bytes, the raw signature is R || S.
	coordinateSize = 32
)

// PresentationSigning signs the hash of a key binding JWT with the device key the issuer generated
// for the C2 credential. The key can be used once and is removed afterwards.
func (s *Service) PresentationSigning(
	ctx context.Context,
	variant session.FlowVariant,
	req *PresentationSigningRequest,
) (*PresentationSigningResponse, error) {
	if variant != session.VariantC2 {
		return nil, invalidRequest("Presentation signing is only available in flow variant c2")
	}

	sess, _, err := s.authorizeResource(ctx, variant, &req.ResourceRequest, endpointPresentationSigning)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.HashBytes) == "" {
		return nil, invalidRequest("Hash bytes missing")
	}

	hash, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(req.HashBytes, "="))
	if err != nil || len(hash) != hashSize {
		return nil, invalidRequest("Hash bytes invalid")
	}

	deviceKey, err := devicePrivateKey(sess.DeviceKeyPair)
	if err != nil {
		return nil, invalidRequest("Device key not available")
	}

	sess.DeviceKeyPair = nil
	nonce := s.rotateDPoPNonce(sess)

	// The key is removed before signing. Two parallel requests cannot both use it.
	if err = s.store.Update(ctx, sess); err != nil {
		if errors.Is(err, session.ErrConcurrentUpdate) {
			return nil, invalidRequest("Device key not available")
		}

		return nil, fmt.Errorf("update session: %w", err)
	}

	r, sig, err := ecdsa.Sign(rand.Reader, deviceKey, hash)
	if err != nil {
		return nil, fmt.Errorf("sign presentation: %w", err)
	}

	signature := make([]byte, 2*coordinateSize)
	r.FillBytes(signature[:coordinateSize])
	sig.FillBytes(signature[coordinateSize:])

	logger.Debugc(ctx, "presentation signed", logfields.WithSessionID(sess.ID))

	return &PresentationSigningResponse{
		SignatureBytes: base64.RawURLEncoding.EncodeToString(signature),
		DPoPNonce:      nonce,
	}, nil
}

func devicePrivateKey(raw []byte) (*ecdsa.PrivateKey, error) {
	if len(raw) == 0 {
		return nil, errors.New("device key not set")
	}

	key := &jose.JSONWebKey{}
	if err := key.UnmarshalJSON(raw); err != nil {
		return nil, err
	}

	priv, ok := key.Key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, errors.New("device key is not an ecdsa private key")
	}

	return priv, nil
}
