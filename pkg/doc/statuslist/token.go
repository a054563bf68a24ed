/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package statuslist encodes Token Status Lists published as statuslist+jwt.
package statuslist

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-jose/go-jose/v3"
)

const (
	// TokenType is the JOSE typ of a status list token.
	TokenType = "statuslist+jwt"
	// PathSegment precedes the list id in a status list uri.
	PathSegment = "status-lists"

	bitsPerEntry = 1
)

var idPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidID reports whether id has the opaque list identifier shape.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// ListURI builds the public uri of the list with the given id.
func ListURI(baseURL, id string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + PathSegment + "/" + id
}

// IDFromURI extracts the list id from a uri built by ListURI.
func IDFromURI(baseURL, uri string) (string, error) {
	prefix := ListURI(baseURL, "")
	if !strings.HasPrefix(uri, prefix) {
		return "", fmt.Errorf("uri %s is not a status list of %s", uri, baseURL)
	}

	id := strings.TrimPrefix(uri, prefix)
	if !ValidID(id) {
		return "", fmt.Errorf("invalid status list id %q", id)
	}

	return id, nil
}

type TokenConfig struct {
	SigningKey       *ecdsa.PrivateKey
	KeyID            string
	CertificateChain []*x509.Certificate
	// TTL tells relying parties how long they may cache the list.
	TTL      time.Duration
	Validity time.Duration
	Clock    clock.Clock
}

// TokenSigner creates signed status list tokens.
type TokenSigner struct {
	signer   jose.Signer
	ttl      time.Duration
	validity time.Duration
	clock    clock.Clock
}

type statusListClaim struct {
	Bits int    `json:"bits"`
	Lst  string `json:"lst"`
}

type tokenClaims struct {
	Subject    string          `json:"sub"`
	IssuedAt   int64           `json:"iat"`
	Expiry     int64           `json:"exp,omitempty"`
	TTL        int64           `json:"ttl,omitempty"`
	StatusList statusListClaim `json:"status_list"`
}

// Token is a verified status list token.
type Token struct {
	URI       string
	IssuedAt  time.Time
	ExpiresAt time.Time
	TTL       time.Duration
	List      *BitString
}

func NewTokenSigner(cfg *TokenConfig) (*TokenSigner, error) {
	if cfg.SigningKey == nil {
		return nil, errors.New("signing key is required")
	}

	opts := (&jose.SignerOptions{}).WithType(TokenType)

	if len(cfg.CertificateChain) > 0 {
		chain := make([]string, 0, len(cfg.CertificateChain))
		for _, c := range cfg.CertificateChain {
			chain = append(chain, base64.StdEncoding.EncodeToString(c.Raw))
		}

		opts = opts.WithHeader("x5c", chain)
	}

	signer, err := jose.NewSigner(jose.SigningKey{
		Algorithm: jose.ES256,
		Key:       jose.JSONWebKey{Key: cfg.SigningKey, KeyID: cfg.KeyID},
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("create signer: %w", err)
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	return &TokenSigner{
		signer:   signer,
		ttl:      cfg.TTL,
		validity: cfg.Validity,
		clock:    clk,
	}, nil
}

// Sign returns the compact statuslist+jwt for the list published at uri.
func (s *TokenSigner) Sign(uri string, list *BitString) (string, error) {
	lst, err := list.EncodeBits()
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}

	now := s.clock.Now()

	claims := &tokenClaims{
		Subject:    uri,
		IssuedAt:   now.Unix(),
		TTL:        int64(s.ttl / time.Second),
		StatusList: statusListClaim{Bits: bitsPerEntry, Lst: lst},
	}

	if s.validity > 0 {
		claims.Expiry = now.Add(s.validity).Unix()
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshal claims: %w", err)
	}

	jws, err := s.signer.Sign(payload)
	if err != nil {
		return "", fmt.Errorf("sign status list: %w", err)
	}

	return jws.CompactSerialize()
}

// ParseToken verifies a status list token against key.
func ParseToken(token string, key *ecdsa.PublicKey) (*Token, error) {
	jws, err := jose.ParseSigned(token)
	if err != nil {
		return nil, fmt.Errorf("parse status list token: %w", err)
	}

	if len(jws.Signatures) != 1 {
		return nil, errors.New("status list token must have exactly one signature")
	}

	if typ, _ := jws.Signatures[0].Header.ExtraHeaders[jose.HeaderType].(string); typ != TokenType {
		return nil, fmt.Errorf("unexpected token type %q", typ)
	}

	payload, err := jws.Verify(key)
	if err != nil {
		return nil, fmt.Errorf("verify status list token: %w", err)
	}

	var claims tokenClaims
	if err = json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("unmarshal claims: %w", err)
	}

	if claims.StatusList.Bits != bitsPerEntry {
		return nil, fmt.Errorf("unsupported bits %d", claims.StatusList.Bits)
	}

	list, err := DecodeBits(claims.StatusList.Lst)
	if err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}

	t := &Token{
		URI:      claims.Subject,
		IssuedAt: time.Unix(claims.IssuedAt, 0),
		TTL:      time.Duration(claims.TTL) * time.Second,
		List:     list,
	}

	if claims.Expiry > 0 {
		t.ExpiresAt = time.Unix(claims.Expiry, 0)
	}

	return t, nil
}
