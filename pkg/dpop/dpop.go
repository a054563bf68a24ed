/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package dpop validates DPoP proofs (RFC 9449) and issues the server nonces they have to carry.
package dpop

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	dpoperr "github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/resterr/dpop"
)

const (
	// HeaderName is the request header carrying the proof.
	HeaderName = "DPoP"
	// ProofType is the value of the typ JWT header for a DPoP proof.
	ProofType = "dpop+jwt"

	htmKey   = "htm"
	htuKey   = "htu"
	athKey   = "ath"
	nonceKey = "nonce"

	maxJtiLength = 256
)

var supportedAlgorithms = []jwa.SignatureAlgorithm{
	jwa.ES256, jwa.ES384, jwa.ES512, jwa.PS256, jwa.PS384, jwa.PS512, jwa.RS256, jwa.EdDSA,
}

// Proof is a parsed and signature-checked DPoP proof.
type Proof struct {
	Token      jwt.Token
	Key        jwk.Key
	Thumbprint string
}

// Nonce returns the server nonce echoed by the proof.
func (p *Proof) Nonce() string {
	return claimString(p.Token, nonceKey)
}

// PublicKeyJSON returns the proof key as JWK JSON.
func (p *Proof) PublicKeyJSON() (json.RawMessage, error) {
	return json.Marshal(p.Key)
}

// Config holds the freshness windows.
type Config struct {
	Clock clock.Clock
	// ProofValidity bounds how old an iat may be.
	ProofValidity time.Duration
	// ProofTimeTolerance bounds clock skew for iat in the future.
	ProofTimeTolerance time.Duration
}

// Verifier checks DPoP proofs. It holds no state; nonces live on the session.
type Verifier struct {
	clock     clock.Clock
	validity  time.Duration
	tolerance time.Duration
}

func NewVerifier(cfg *Config) *Verifier {
	return &Verifier{
		clock:     cfg.Clock,
		validity:  cfg.ProofValidity,
		tolerance: cfg.ProofTimeTolerance,
	}
}

// Request describes the HTTP request a proof has to match.
type Request struct {
	Header http.Header
	Method string
	// URL is the externally visible URL of the endpoint, without query or fragment.
	URL string
	// AccessToken is set on resource requests; the proof must carry its hash in ath.
	AccessToken string
	// BoundThumbprint is set once tokens are bound to a key.
	BoundThumbprint string
}

// NonceState is the server nonce currently valid for the session.
type NonceState struct {
	Value     string
	ExpiresAt time.Time
}

// ExtractHeader returns the single DPoP proof of a request.
func ExtractHeader(header http.Header) (string, error) {
	values := header.Values(HeaderName)

	switch {
	case len(values) == 0 || strings.TrimSpace(values[0]) == "":
		return "", dpoperr.NewInvalidDPoPProofError(errors.New("DPoP header not present"))
	case len(values) > 1:
		return "", dpoperr.NewInvalidDPoPProofError(errors.New("Multiple dpop headers in request")) //nolint:stylecheck
	case strings.Contains(values[0], ","):
		return "", dpoperr.NewInvalidDPoPProofError(errors.New("Multiple values in dpop header")) //nolint:stylecheck
	}

	return strings.TrimSpace(values[0]), nil
}

// Verify checks structure, signature, method, URL, freshness and key binding of the proof.
// Nonce checks are done separately with CheckNonce.
func (v *Verifier) Verify(req *Request) (*Proof, error) {
	raw, err := ExtractHeader(req.Header)
	if err != nil {
		return nil, err
	}

	proof, err := v.Parse(raw)
	if err != nil {
		return nil, err
	}

	if claimString(proof.Token, htmKey) != req.Method {
		return nil, invalidProof("htm value mismatch")
	}

	if !sameURL(claimString(proof.Token, htuKey), req.URL) {
		return nil, invalidProof("htu value mismatch")
	}

	if err = v.checkIssuedAt(proof.Token.IssuedAt()); err != nil {
		return nil, err
	}

	if req.AccessToken != "" {
		sum := sha256.Sum256([]byte(req.AccessToken))
		if claimString(proof.Token, athKey) != base64.RawURLEncoding.EncodeToString(sum[:]) {
			return nil, invalidProof("ath value mismatch")
		}
	}

	if req.BoundThumbprint != "" && req.BoundThumbprint != proof.Thumbprint {
		return nil, invalidProof("Invalid dpop proof: key does not match access token binding")
	}

	return proof, nil
}

// Parse validates the JOSE structure and the signature under the embedded key.
func (v *Verifier) Parse(raw string) (*Proof, error) {
	msg, err := jws.ParseString(raw)
	if err != nil {
		return nil, invalidProof("dpop proof parsing error")
	}

	if len(msg.Signatures()) != 1 {
		return nil, invalidProof("dpop proof parsing error")
	}

	headers := msg.Signatures()[0].ProtectedHeaders()

	if headers.Type() != ProofType {
		return nil, invalidProof("Invalid dpop proof: invalid typ")
	}

	if !slices.Contains(supportedAlgorithms, headers.Algorithm()) {
		return nil, invalidProof("Invalid dpop proof: invalid alg")
	}

	key := headers.JWK()
	if key == nil || isPrivateKey(key) {
		return nil, invalidProof("Invalid dpop proof: invalid jwk")
	}

	if _, err = jws.Verify([]byte(raw), jws.WithKey(headers.Algorithm(), key)); err != nil {
		return nil, invalidProof("Invalid dpop proof: invalid signature")
	}

	token, err := jwt.ParseString(raw, jwt.WithVerify(false), jwt.WithValidate(false))
	if err != nil {
		return nil, invalidProof("dpop proof parsing error")
	}

	if token.IssuedAt().IsZero() || token.JwtID() == "" || len(token.JwtID()) > maxJtiLength ||
		claimString(token, htmKey) == "" || claimString(token, htuKey) == "" {
		return nil, invalidProof("dpop proof parsing error")
	}

	tp, err := key.Thumbprint(crypto.SHA256)
	if err != nil {
		return nil, invalidProof("Invalid dpop proof: invalid jwk")
	}

	return &Proof{
		Token:      token,
		Key:        key,
		Thumbprint: base64.RawURLEncoding.EncodeToString(tp),
	}, nil
}

// CheckNonce compares the proof nonce with the nonce issued for the session.
func (v *Verifier) CheckNonce(proof *Proof, state NonceState) error {
	nonce := proof.Nonce()

	switch {
	case nonce == "":
		return dpoperr.NewUseDPoPNonceError(errors.New("nonce value missing"))
	case state.Value == "":
		return dpoperr.NewUseDPoPNonceError(errors.New("DPoP nonce is missing"))
	case nonce != state.Value:
		return dpoperr.NewUseDPoPNonceError(errors.New("DPoP nonce is invalid"))
	case !v.clock.Now().Before(state.ExpiresAt):
		return dpoperr.NewInvalidDPoPProofError(errors.New("DPoP nonce is expired"))
	}

	return nil
}

func (v *Verifier) checkIssuedAt(iat time.Time) error {
	now := v.clock.Now()

	if iat.After(now.Add(v.tolerance)) {
		return invalidProof("proof too young")
	}

	if now.Sub(iat) > v.validity+v.tolerance {
		return invalidProof("proof too old")
	}

	return nil
}

func invalidProof(msg string) error {
	return dpoperr.NewInvalidDPoPProofError(errors.New(msg))
}

func claimString(token jwt.Token, key string) string {
	v, ok := token.Get(key)
	if !ok {
		return ""
	}

	s, _ := v.(string)

	return s
}

func sameURL(left, right string) bool {
	l, err := url.Parse(left)
	if err != nil {
		return false
	}

	r, err := url.Parse(right)
	if err != nil {
		return false
	}

	return strings.EqualFold(l.Scheme, r.Scheme) && strings.EqualFold(l.Host, r.Host) &&
		strings.TrimSuffix(l.Path, "/") == strings.TrimSuffix(r.Path, "/")
}

func isPrivateKey(key jwk.Key) bool {
	var rsaPrivateKey rsa.PrivateKey
	if err := key.Raw(&rsaPrivateKey); err == nil {
		return true
	}

	var ecPrivateKey ecdsa.PrivateKey
	if err := key.Raw(&ecPrivateKey); err == nil {
		return true
	}

	var edPrivateKey ed25519.PrivateKey

	return key.Raw(&edPrivateKey) == nil
}
