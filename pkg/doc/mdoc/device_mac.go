/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mdoc

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/hkdf"
)

const (
	emacKeyInfo   = "EMacKey"
	emacKeyLength = 32

	// coseAlgHMAC256 is HMAC 256/256 as registered in RFC 8152.
	coseAlgHMAC256 = 5
	coseLabelAlg   = 1

	sessionTranscriptSize = 3
)

var (
	ErrSessionTranscriptSize    = errors.New("sessionTranscript has invalid size")
	ErrSessionTranscriptContent = errors.New("sessionTranscript has invalid content")
)

var cborNull = []byte{0xf6}

// ParseSessionTranscript checks that raw is a CBOR encoded SessionTranscript of an authenticated channel
// request. DeviceEngagementBytes and EReaderKeyBytes must be null, the handover must be present.
func ParseSessionTranscript(raw []byte) ([]byte, error) {
	var parts []cbor.RawMessage
	if err := cbor.Unmarshal(raw, &parts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSessionTranscriptContent, err)
	}

	if len(parts) != sessionTranscriptSize {
		return nil, ErrSessionTranscriptSize
	}

	if !bytes.Equal(parts[0], cborNull) || !bytes.Equal(parts[1], cborNull) || bytes.Equal(parts[2], cborNull) {
		return nil, ErrSessionTranscriptContent
	}

	return raw, nil
}

// DeriveEMacKey derives the device MAC key from an ECDH agreement between priv and pub.
// The salt is SHA-256 over the Tag24 wrapped session transcript.
func DeriveEMacKey(priv *ecdsa.PrivateKey, pub *ecdsa.PublicKey, sessionTranscript []byte) ([]byte, error) {
	ecdhPriv, err := priv.ECDH()
	if err != nil {
		return nil, fmt.Errorf("convert private key: %w", err)
	}

	ecdhPub, err := pub.ECDH()
	if err != nil {
		return nil, fmt.Errorf("convert public key: %w", err)
	}

	shared, err := ecdhPriv.ECDH(ecdhPub)
	if err != nil {
		return nil, fmt.Errorf("key agreement: %w", err)
	}

	transcriptBytes, err := cbor.Marshal(cbor.Tag{Number: tagEncodedCBOR, Content: sessionTranscript})
	if err != nil {
		return nil, fmt.Errorf("marshal session transcript bytes: %w", err)
	}

	salt := sha256.Sum256(transcriptBytes)

	key := make([]byte, emacKeyLength)
	if _, err = io.ReadFull(hkdf.New(sha256.New, shared, salt[:], []byte(emacKeyInfo)), key); err != nil {
		return nil, fmt.Errorf("derive emac key: %w", err)
	}

	return key, nil
}

// DeviceAuthenticationBytes returns Tag24(DeviceAuthentication) for the given document.
func DeviceAuthenticationBytes(sessionTranscript []byte, docType DocType, nameSpaces cbor.Tag) ([]byte, error) {
	da, err := cbor.Marshal([]interface{}{
		"DeviceAuthentication",
		cbor.RawMessage(sessionTranscript),
		docType,
		nameSpaces,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal device authentication: %w", err)
	}

	b, err := cbor.Marshal(cbor.Tag{Number: tagEncodedCBOR, Content: da})
	if err != nil {
		return nil, fmt.Errorf("marshal device authentication bytes: %w", err)
	}

	return b, nil
}

// NewDeviceMac builds a COSE_Mac0 with a detached payload over deviceAuthentication.
func NewDeviceMac(key, deviceAuthentication []byte) (*Mac0, error) {
	protected, err := cbor.Marshal(map[int]int{coseLabelAlg: coseAlgHMAC256})
	if err != nil {
		return nil, fmt.Errorf("marshal protected header: %w", err)
	}

	tag, err := macTag(key, protected, deviceAuthentication)
	if err != nil {
		return nil, err
	}

	return &Mac0{
		Protected:   protected,
		Unprotected: map[int]interface{}{},
		Tag:         tag,
	}, nil
}

// Verify checks the tag against the detached deviceAuthentication payload.
func (m *Mac0) Verify(key, deviceAuthentication []byte) error {
	var protected map[int]int
	if err := cbor.Unmarshal(m.Protected, &protected); err != nil {
		return fmt.Errorf("unmarshal protected header: %w", err)
	}

	if protected[coseLabelAlg] != coseAlgHMAC256 {
		return fmt.Errorf("unexpected mac algorithm %d", protected[coseLabelAlg])
	}

	expected, err := macTag(key, m.Protected, deviceAuthentication)
	if err != nil {
		return err
	}

	if !hmac.Equal(expected, m.Tag) {
		return errors.New("device mac does not match")
	}

	return nil
}

func macTag(key, protected, payload []byte) ([]byte, error) {
	toBeMaced, err := cbor.Marshal([]interface{}{"MAC0", protected, []byte{}, payload})
	if err != nil {
		return nil, fmt.Errorf("marshal mac structure: %w", err)
	}

	h := hmac.New(sha256.New, key)
	h.Write(toBeMaced)

	return h.Sum(nil), nil
}
