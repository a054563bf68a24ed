/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sdjwt

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	gojose "github.com/go-jose/go-jose/v3"
	"github.com/go-jose/go-jose/v3/jwt"
	"github.com/hyperledger/aries-framework-go/component/kmscrypto/doc/jose"
	"github.com/hyperledger/aries-framework-go/component/kmscrypto/doc/jose/jwk"
	afgjwt "github.com/hyperledger/aries-framework-go/component/models/jwt"
	"github.com/hyperledger/aries-framework-go/component/models/sdjwt/issuer"
)

type claimKind int

const (
	kindPlain claimKind = iota
	kindSelective
	kindStructured
)

type claim struct {
	kind   claimKind
	name   string
	value  interface{}
	nested *Claims
}

// Claims is an ordered set of plain, selectively disclosable and structured claims.
type Claims struct {
	entries []claim
}

func NewClaims() *Claims {
	return &Claims{}
}

// Plain adds a claim that is always visible.
func (c *Claims) Plain(name string, value interface{}) *Claims {
	c.entries = append(c.entries, claim{kind: kindPlain, name: name, value: value})

	return c
}

// SD adds a claim that is replaced by a digest and disclosed separately.
func (c *Claims) SD(name string, value interface{}) *Claims {
	c.entries = append(c.entries, claim{kind: kindSelective, name: name, value: value})

	return c
}

// Structured adds an always visible object whose members are encoded by nested.
func (c *Claims) Structured(name string, nested *Claims) *Claims {
	c.entries = append(c.entries, claim{kind: kindStructured, name: name, nested: nested})

	return c
}

// Empty reports whether no claim was added.
func (c *Claims) Empty() bool {
	return len(c.entries) == 0
}

// flatten returns the claims as a map together with the dotted paths of the plain claims.
func (c *Claims) flatten(prefix string, plain []string) (map[string]interface{}, []string) {
	out := make(map[string]interface{}, len(c.entries))

	for _, e := range c.entries {
		path := e.name
		if prefix != "" {
			path = prefix + "." + e.name
		}

		switch e.kind {
		case kindPlain:
			out[e.name] = e.value
			plain = append(plain, path)
		case kindSelective:
			out[e.name] = e.value
		case kindStructured:
			if e.nested == nil || e.nested.Empty() {
				continue
			}

			var nested map[string]interface{}

			nested, plain = e.nested.flatten(path, plain)
			out[e.name] = nested
		}
	}

	return out, plain
}

// Credential is the content of one SD-JWT VC.
type Credential struct {
	Issuer    string
	IssuedAt  time.Time
	Expiry    time.Time
	HolderKey *gojose.JSONWebKey
	// Registered are further top level claims that are always visible, e.g. vct and status.
	Registered map[string]interface{}
	Claims     *Claims
}

// Config defines configuration for Issuer.
type Config struct {
	SigningKey *ecdsa.PrivateKey
	KeyID      string
	// CertificateChain is attached as x5c, leaf first.
	CertificateChain []*x509.Certificate
	Type             string
	// DecoyDigests adds random decoy digests to every object with disclosable claims.
	DecoyDigests bool
}

// Issuer signs SD-JWTs with ES256.
type Issuer struct {
	signer       jose.Signer
	decoyDigests bool
}

func NewIssuer(config *Config) (*Issuer, error) {
	if config.SigningKey == nil {
		return nil, errors.New("sd-jwt signing key is required")
	}

	headers := jose.Headers{
		jose.HeaderAlgorithm: string(gojose.ES256),
	}

	if config.KeyID != "" {
		headers[jose.HeaderKeyID] = config.KeyID
	}

	if config.Type != "" {
		headers[jose.HeaderType] = config.Type
	}

	if len(config.CertificateChain) > 0 {
		x5c := make([]string, 0, len(config.CertificateChain))
		for _, cert := range config.CertificateChain {
			x5c = append(x5c, base64.StdEncoding.EncodeToString(cert.Raw))
		}

		headers[jose.HeaderX509CertificateChain] = x5c
	}

	return &Issuer{
		signer:       newES256Signer(config.SigningKey, headers),
		decoyDigests: config.DecoyDigests,
	}, nil
}

// Issue creates the disclosures and digests of c.Claims, adds the registered claims and the holder
// key and returns the signed combined format for issuance.
func (i *Issuer) Issue(c *Credential) (string, error) {
	if c.Claims == nil || c.Claims.Empty() {
		return "", errors.New("sd-jwt without claims")
	}

	claims, plain := c.Claims.flatten("", nil)

	opts := []issuer.NewOpt{
		issuer.WithHashAlgorithm(hashAlgorithm),
		issuer.WithStructuredClaims(true),
		issuer.WithNonSelectivelyDisclosableClaims(plain),
		issuer.WithDecoyDigests(i.decoyDigests),
	}

	if !c.IssuedAt.IsZero() {
		opts = append(opts, issuer.WithIssuedAt(jwt.NewNumericDate(c.IssuedAt)))
	}

	if !c.Expiry.IsZero() {
		opts = append(opts, issuer.WithExpiry(jwt.NewNumericDate(c.Expiry)))
	}

	if c.HolderKey != nil {
		opts = append(opts, issuer.WithHolderPublicKey(&jwk.JWK{JSONWebKey: *c.HolderKey}))
	}

	// The digests are signed together with the registered claims below.
	token, err := issuer.New(c.Issuer, claims, nil, &unsecuredJWTSigner{}, opts...)
	if err != nil {
		return "", fmt.Errorf("create sd-jwt disclosures: %w", err)
	}

	payload := token.SignedJWT.Payload

	for k, v := range c.Registered {
		if _, ok := payload[k]; ok {
			return "", fmt.Errorf("claim %q is set twice", k)
		}

		payload[k] = v
	}

	signed, err := afgjwt.NewSigned(payload, nil, i.signer)
	if err != nil {
		return "", fmt.Errorf("sign sd-jwt: %w", err)
	}

	compact, err := signed.Serialize(false)
	if err != nil {
		return "", fmt.Errorf("serialize sd-jwt: %w", err)
	}

	cf := &CombinedFormatForIssuance{
		SDJWT:       compact,
		Disclosures: token.Disclosures,
	}

	return cf.Serialize(), nil
}

type unsecuredJWTSigner struct{}

func (s unsecuredJWTSigner) Sign(_ []byte) ([]byte, error) {
	return []byte(""), nil
}

func (s unsecuredJWTSigner) Headers() jose.Headers {
	return map[string]interface{}{
		jose.HeaderAlgorithm: afgjwt.AlgorithmNone,
	}
}
