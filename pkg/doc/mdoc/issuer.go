/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mdoc

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/veraison/go-cose"
)

const randomLength = 16

// Element is a single data element of a namespace.
type Element struct {
	Identifier string
	Value      interface{}
}

// Request describes the document to be issued.
type Request struct {
	DocType   DocType
	NameSpace NameSpace
	Elements  []Element
	// DeviceKey is bound into the MSO. Ignored for the authenticated channel.
	DeviceKey    *ecdsa.PublicKey
	ValidityInfo ValidityInfo
	Status       *StatusListRef
}

// AuthenticatedChannel carries the verifier context used to compute the deviceMac.
type AuthenticatedChannel struct {
	// SessionTranscript is the CBOR encoded SessionTranscript.
	SessionTranscript []byte
	VerifierKey       *ecdsa.PublicKey
}

type Config struct {
	SigningKey       *ecdsa.PrivateKey
	CertificateChain []*x509.Certificate
}

// Issuer signs mobile security objects with the document signer key.
type Issuer struct {
	key      *ecdsa.PrivateKey
	signer   cose.Signer
	x5chain  interface{}
	encMode  cbor.EncMode
	randRead func([]byte) (int, error)
}

func NewIssuer(cfg *Config) (*Issuer, error) {
	if cfg.SigningKey == nil {
		return nil, errors.New("signing key is required")
	}

	if len(cfg.CertificateChain) == 0 {
		return nil, errors.New("certificate chain is required")
	}

	signer, err := cose.NewSigner(cose.AlgorithmES256, cfg.SigningKey)
	if err != nil {
		return nil, fmt.Errorf("create cose signer: %w", err)
	}

	em, err := newEncMode()
	if err != nil {
		return nil, err
	}

	var x5chain interface{}

	if len(cfg.CertificateChain) == 1 {
		x5chain = cfg.CertificateChain[0].Raw
	} else {
		chain := make([][]byte, 0, len(cfg.CertificateChain))
		for _, c := range cfg.CertificateChain {
			chain = append(chain, c.Raw)
		}

		x5chain = chain
	}

	return &Issuer{
		key:      cfg.SigningKey,
		signer:   signer,
		x5chain:  x5chain,
		encMode:  em,
		randRead: rand.Read,
	}, nil
}

func newEncMode() (cbor.EncMode, error) {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339
	opts.TimeTag = cbor.EncTagRequired

	em, err := opts.EncMode()
	if err != nil {
		return nil, fmt.Errorf("create cbor enc mode: %w", err)
	}

	return em, nil
}

// IssueIssuerSigned returns the CBOR encoded IssuerSigned structure bound to req.DeviceKey.
func (i *Issuer) IssueIssuerSigned(req *Request) ([]byte, error) {
	if req.DeviceKey == nil {
		return nil, errors.New("device key is required")
	}

	deviceKey, err := NewCOSEKey(req.DeviceKey)
	if err != nil {
		return nil, err
	}

	nameSpaces, digests, err := i.issuerNameSpaces(req.NameSpace, req.Elements)
	if err != nil {
		return nil, err
	}

	issuerAuth, err := i.issuerAuth(&MobileSecurityObject{
		Version:         Version,
		DigestAlgorithm: DigestAlgorithm,
		ValueDigests:    ValueDigests{req.NameSpace: digests},
		DeviceKeyInfo:   DeviceKeyInfo{DeviceKey: deviceKey},
		DocType:         req.DocType,
		ValidityInfo:    normalizeValidity(req.ValidityInfo),
		Status:          statusOf(req.Status),
	})
	if err != nil {
		return nil, err
	}

	return i.encMode.Marshal(&IssuerSigned{
		NameSpaces: IssuerNameSpaces{req.NameSpace: nameSpaces},
		IssuerAuth: issuerAuth,
	})
}

// IssueAuthenticatedChannel returns the CBOR encoded Document where the data elements are device signed
// and authenticated with a deviceMac keyed for the verifier. The same elements are issuer signed
// so that every value digest of the MSO matches an item.
func (i *Issuer) IssueAuthenticatedChannel(req *Request, channel *AuthenticatedChannel) ([]byte, error) {
	if channel == nil || channel.VerifierKey == nil || len(channel.SessionTranscript) == 0 {
		return nil, errors.New("authenticated channel context is required")
	}

	deviceKey, err := NewCOSEKey(&i.key.PublicKey)
	if err != nil {
		return nil, err
	}

	nameSpaces, digests, err := i.issuerNameSpaces(req.NameSpace, req.Elements)
	if err != nil {
		return nil, err
	}

	issuerAuth, err := i.issuerAuth(&MobileSecurityObject{
		Version:         Version,
		DigestAlgorithm: DigestAlgorithm,
		ValueDigests:    ValueDigests{req.NameSpace: digests},
		DeviceKeyInfo: DeviceKeyInfo{
			DeviceKey:         deviceKey,
			KeyAuthorizations: &KeyAuthorizations{NameSpaces: []NameSpace{NameSpace(req.DocType)}},
		},
		DocType:      req.DocType,
		ValidityInfo: normalizeValidity(req.ValidityInfo),
		Status:       statusOf(req.Status),
	})
	if err != nil {
		return nil, err
	}

	dns := DeviceNameSpaces{req.NameSpace: {}}
	for _, e := range req.Elements {
		dns[req.NameSpace][e.Identifier] = e.Value
	}

	dnsBytes, err := i.encMode.Marshal(dns)
	if err != nil {
		return nil, fmt.Errorf("marshal device namespaces: %w", err)
	}

	deviceNameSpaces := cbor.Tag{Number: tagEncodedCBOR, Content: dnsBytes}

	emacKey, err := DeriveEMacKey(i.key, channel.VerifierKey, channel.SessionTranscript)
	if err != nil {
		return nil, err
	}

	authBytes, err := DeviceAuthenticationBytes(channel.SessionTranscript, req.DocType, deviceNameSpaces)
	if err != nil {
		return nil, err
	}

	mac, err := NewDeviceMac(emacKey, authBytes)
	if err != nil {
		return nil, err
	}

	return i.encMode.Marshal(&Document{
		DocType:      req.DocType,
		IssuerSigned: &IssuerSigned{
			NameSpaces: IssuerNameSpaces{req.NameSpace: nameSpaces},
			IssuerAuth: issuerAuth,
		},
		DeviceSigned: &DeviceSigned{
			NameSpaces: deviceNameSpaces,
			DeviceAuth: &DeviceAuth{DeviceMac: mac},
		},
	})
}

func (i *Issuer) issuerNameSpaces(
	ns NameSpace,
	elements []Element,
) ([]cbor.Tag, map[DigestID]Digest, error) {
	items := make([]cbor.Tag, 0, len(elements))
	digests := make(map[DigestID]Digest, len(elements))

	for idx, e := range elements {
		random := make([]byte, randomLength)
		if _, err := i.randRead(random); err != nil {
			return nil, nil, fmt.Errorf("generate random: %w", err)
		}

		id := DigestID(idx)

		raw, err := i.encMode.Marshal(&IssuerSignedItem{
			DigestID:          id,
			Random:            random,
			ElementIdentifier: e.Identifier,
			ElementValue:      e.Value,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("marshal element %s/%s: %w", ns, e.Identifier, err)
		}

		d, err := digestItem(raw)
		if err != nil {
			return nil, nil, err
		}

		items = append(items, cbor.Tag{Number: tagEncodedCBOR, Content: raw})
		digests[id] = d
	}

	return items, digests, nil
}

func (i *Issuer) issuerAuth(mso *MobileSecurityObject) (*cose.UntaggedSign1Message, error) {
	msoBytes, err := i.encMode.Marshal(mso)
	if err != nil {
		return nil, fmt.Errorf("marshal mso: %w", err)
	}

	payload, err := i.encMode.Marshal(cbor.Tag{Number: tagEncodedCBOR, Content: msoBytes})
	if err != nil {
		return nil, fmt.Errorf("marshal mso bytes: %w", err)
	}

	msg := &cose.UntaggedSign1Message{
		Headers: cose.Headers{
			Protected: cose.ProtectedHeader{
				cose.HeaderLabelAlgorithm: cose.AlgorithmES256,
			},
			Unprotected: cose.UnprotectedHeader{
				cose.HeaderLabelX5Chain: i.x5chain,
			},
		},
		Payload: payload,
	}

	if err = msg.Sign(rand.Reader, nil, i.signer); err != nil {
		return nil, fmt.Errorf("sign mso: %w", err)
	}

	return msg, nil
}

func digestItem(raw []byte) (Digest, error) {
	tagged, err := cbor.Marshal(cbor.Tag{Number: tagEncodedCBOR, Content: raw})
	if err != nil {
		return nil, fmt.Errorf("marshal issuer signed item bytes: %w", err)
	}

	sum := sha256.Sum256(tagged)

	return sum[:], nil
}

func normalizeValidity(v ValidityInfo) ValidityInfo {
	return ValidityInfo{
		Signed:     v.Signed.UTC().Truncate(time.Second),
		ValidFrom:  v.ValidFrom.UTC().Truncate(time.Second),
		ValidUntil: v.ValidUntil.UTC().Truncate(time.Second),
	}
}

func statusOf(ref *StatusListRef) *Status {
	if ref == nil {
		return nil
	}

	return &Status{StatusList: *ref}
}
