/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package mdoc encodes ISO 18013-5 mobile documents.
package mdoc

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/veraison/go-cose"
)

const (
	// Version of the mobile security object.
	Version = "1.0"
	// DigestAlgorithm used for value digests.
	DigestAlgorithm = "SHA-256"

	tagEncodedCBOR = 24
	tagFullDate    = 1004

	coseKeyTypeEC2 = 2
	coseCurveP256  = 1
)

type DocType string

type NameSpace string

type DigestID uint

type Digest []byte

// Document is the top level structure returned to the wallet in the authenticated channel variants.
type Document struct {
	DocType      DocType       `cbor:"docType"`
	IssuerSigned *IssuerSigned `cbor:"issuerSigned"`
	DeviceSigned *DeviceSigned `cbor:"deviceSigned"`
}

type IssuerSigned struct {
	NameSpaces IssuerNameSpaces           `cbor:"nameSpaces,omitempty"`
	IssuerAuth *cose.UntaggedSign1Message `cbor:"issuerAuth"`
}

// IssuerNameSpaces maps a namespace to its Tag24 wrapped IssuerSignedItem entries.
type IssuerNameSpaces map[NameSpace][]cbor.Tag

type IssuerSignedItem struct {
	DigestID          DigestID    `cbor:"digestID"`
	Random            []byte      `cbor:"random"`
	ElementIdentifier string      `cbor:"elementIdentifier"`
	ElementValue      interface{} `cbor:"elementValue"`
}

type MobileSecurityObject struct {
	Version         string        `cbor:"version"`
	DigestAlgorithm string        `cbor:"digestAlgorithm"`
	ValueDigests    ValueDigests  `cbor:"valueDigests"`
	DeviceKeyInfo   DeviceKeyInfo `cbor:"deviceKeyInfo"`
	DocType         DocType       `cbor:"docType"`
	ValidityInfo    ValidityInfo  `cbor:"validityInfo"`
	Status          *Status       `cbor:"status,omitempty"`
}

type ValueDigests map[NameSpace]map[DigestID]Digest

type DeviceKeyInfo struct {
	DeviceKey         *COSEKey           `cbor:"deviceKey"`
	KeyAuthorizations *KeyAuthorizations `cbor:"keyAuthorizations,omitempty"`
}

type KeyAuthorizations struct {
	NameSpaces []NameSpace `cbor:"nameSpaces,omitempty"`
}

// COSEKey is an EC2 public key as defined in RFC 8152.
type COSEKey struct {
	Kty int    `cbor:"1,keyasint"`
	Crv int    `cbor:"-1,keyasint"`
	X   []byte `cbor:"-2,keyasint"`
	Y   []byte `cbor:"-3,keyasint"`
}

type ValidityInfo struct {
	Signed     time.Time `cbor:"signed"`
	ValidFrom  time.Time `cbor:"validFrom"`
	ValidUntil time.Time `cbor:"validUntil"`
}

type Status struct {
	StatusList StatusListRef `cbor:"status_list"`
}

type StatusListRef struct {
	Index int    `cbor:"idx"`
	URI   string `cbor:"uri"`
}

type DeviceSigned struct {
	// NameSpaces is the Tag24 wrapped DeviceNameSpaces.
	NameSpaces cbor.Tag    `cbor:"nameSpaces"`
	DeviceAuth *DeviceAuth `cbor:"deviceAuth"`
}

type DeviceNameSpaces map[NameSpace]map[string]interface{}

type DeviceAuth struct {
	DeviceMac *Mac0 `cbor:"deviceMac,omitempty"`
}

// Mac0 is an untagged COSE_Mac0 structure.
type Mac0 struct {
	_           struct{} `cbor:",toarray"`
	Protected   []byte
	Unprotected map[int]interface{}
	Payload     []byte
	Tag         []byte
}

// FullDate wraps a calendar date as CBOR full-date (RFC 8943).
func FullDate(t time.Time) cbor.Tag {
	return cbor.Tag{Number: tagFullDate, Content: t.Format(time.DateOnly)}
}

// NewCOSEKey converts a P-256 public key into its COSE representation.
func NewCOSEKey(pub *ecdsa.PublicKey) (*COSEKey, error) {
	if pub == nil || pub.Curve != elliptic.P256() {
		return nil, errors.New("only P-256 device keys are supported")
	}

	return &COSEKey{
		Kty: coseKeyTypeEC2,
		Crv: coseCurveP256,
		X:   pub.X.FillBytes(make([]byte, 32)),
		Y:   pub.Y.FillBytes(make([]byte, 32)),
	}, nil
}

// PublicKey converts the COSE key back into an ecdsa public key.
func (k *COSEKey) PublicKey() (*ecdsa.PublicKey, error) {
	if k.Kty != coseKeyTypeEC2 || k.Crv != coseCurveP256 {
		return nil, fmt.Errorf("unsupported cose key: kty=%d crv=%d", k.Kty, k.Crv)
	}

	return &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(k.X),
		Y:     new(big.Int).SetBytes(k.Y),
	}, nil
}

// MobileSecurityObject decodes the MSO carried in the issuerAuth payload.
func (s *IssuerSigned) MobileSecurityObject() (*MobileSecurityObject, error) {
	if s.IssuerAuth == nil || s.IssuerAuth.Payload == nil {
		return nil, errors.New("missing issuerAuth payload")
	}

	content, err := unwrapEncoded(s.IssuerAuth.Payload)
	if err != nil {
		return nil, fmt.Errorf("mso: %w", err)
	}

	var mso MobileSecurityObject
	if err = cbor.Unmarshal(content, &mso); err != nil {
		return nil, fmt.Errorf("unmarshal mso: %w", err)
	}

	return &mso, nil
}

// Items decodes the IssuerSignedItems of the given namespace together with their digests.
func (s *IssuerSigned) Items(ns NameSpace) ([]IssuerSignedItem, []Digest, error) {
	tagged, ok := s.NameSpaces[ns]
	if !ok {
		return nil, nil, fmt.Errorf("namespace %s not found", ns)
	}

	items := make([]IssuerSignedItem, 0, len(tagged))
	digests := make([]Digest, 0, len(tagged))

	for _, t := range tagged {
		raw, ok := t.Content.([]byte)
		if !ok || t.Number != tagEncodedCBOR {
			return nil, nil, errors.New("issuer signed item is not encoded cbor")
		}

		var item IssuerSignedItem
		if err := cbor.Unmarshal(raw, &item); err != nil {
			return nil, nil, fmt.Errorf("unmarshal issuer signed item: %w", err)
		}

		d, err := digestItem(raw)
		if err != nil {
			return nil, nil, err
		}

		items = append(items, item)
		digests = append(digests, d)
	}

	return items, digests, nil
}

// DeviceNameSpaces decodes the device signed data elements.
func (d *DeviceSigned) DeviceNameSpaces() (DeviceNameSpaces, error) {
	raw, ok := d.NameSpaces.Content.([]byte)
	if !ok || d.NameSpaces.Number != tagEncodedCBOR {
		return nil, errors.New("device namespaces are not encoded cbor")
	}

	var ns DeviceNameSpaces
	if err := cbor.Unmarshal(raw, &ns); err != nil {
		return nil, fmt.Errorf("unmarshal device namespaces: %w", err)
	}

	return ns, nil
}

func unwrapEncoded(data []byte) ([]byte, error) {
	var tag cbor.Tag
	if err := cbor.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("unmarshal tag: %w", err)
	}

	content, ok := tag.Content.([]byte)
	if !ok || tag.Number != tagEncodedCBOR {
		return nil, fmt.Errorf("unexpected tag %d", tag.Number)
	}

	return content, nil
}
