/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clientregistry

import (
	"github.com/go-jose/go-jose/v3"
	"github.com/ory/fosite"
	"github.com/samber/lo"
)

var _ fosite.Client = (*Client)(nil)

const (
	GrantTypeAuthorizationCode = "authorization_code"
	GrantTypeRefreshToken      = "refresh_token"
	GrantTypeSeedCredential    = "urn:ietf:params:oauth:grant-type:seed_credential"

	ResponseTypeCode = "code"

	// ScopePID is the only scope a wallet can be granted.
	ScopePID = "pid"
)

// Client represents a registered wallet.
type Client struct {
	ID           string   `json:"client_id"`
	Name         string   `json:"client_name,omitempty"`
	RedirectURIs []string `json:"redirect_uris,omitempty"`
	Scopes       []string `json:"scopes,omitempty"`
	// Variants restricts the flow variants the wallet may use. Empty allows all.
	Variants []string `json:"variants,omitempty"`
	// AttestationKey verifies the client attestation JWT signed by the wallet provider.
	AttestationKey *jose.JSONWebKey `json:"attestation_jwk,omitempty"`
}

// GetID returns the client id.
func (c *Client) GetID() string {
	return c.ID
}

// GetHashedSecret returns nil, wallets are public clients.
func (c *Client) GetHashedSecret() []byte {
	return nil
}

// GetRedirectURIs returns the client redirect URIs.
func (c *Client) GetRedirectURIs() []string {
	return c.RedirectURIs
}

// GetGrantTypes returns the client grant types.
func (c *Client) GetGrantTypes() fosite.Arguments {
	return fosite.Arguments{GrantTypeAuthorizationCode, GrantTypeRefreshToken, GrantTypeSeedCredential}
}

// GetResponseTypes returns the client response types.
func (c *Client) GetResponseTypes() fosite.Arguments {
	return fosite.Arguments{ResponseTypeCode}
}

// GetScopes returns the client scopes.
func (c *Client) GetScopes() fosite.Arguments {
	if len(c.Scopes) == 0 {
		return fosite.Arguments{ScopePID}
	}

	return c.Scopes
}

// IsPublic returns true, wallets authenticate with attestations instead of secrets.
func (c *Client) IsPublic() bool {
	return true
}

// GetAudience returns the client audience.
func (c *Client) GetAudience() fosite.Arguments {
	return nil
}

// AllowsVariant reports whether the wallet may use the given flow variant.
func (c *Client) AllowsVariant(variant string) bool {
	return len(c.Variants) == 0 || lo.Contains(c.Variants, variant)
}

// DeniedScopes returns the requested scopes that are not granted to the client.
func (c *Client) DeniedScopes(requested []string) []string {
	return lo.Filter(requested, func(scope string, _ int) bool {
		return !fosite.ExactScopeStrategy(c.GetScopes(), scope)
	})
}
