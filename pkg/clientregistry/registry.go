/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clientregistry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

var ErrClientNotFound = errors.New("client not found")

// Registry holds the wallets allowed to request PIDs.
type Registry struct {
	clients map[string]*Client
}

// New validates the given clients and returns a registry over them.
func New(clients []*Client) (*Registry, error) {
	r := &Registry{clients: make(map[string]*Client, len(clients))}

	for _, c := range clients {
		id, err := uuid.Parse(c.ID)
		if err != nil {
			return nil, fmt.Errorf("client id %q is not a uuid: %w", c.ID, err)
		}

		if c.AttestationKey != nil && !c.AttestationKey.IsPublic() {
			return nil, fmt.Errorf("client %s: attestation key must be public", c.ID)
		}

		// ids are compared case-insensitively
		r.clients[id.String()] = c
	}

	return r, nil
}

// Load reads a JSON array of clients from path.
func Load(path string) (*Registry, error) {
	b, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("read client registry: %w", err)
	}

	var clients []*Client

	if err = json.Unmarshal(b, &clients); err != nil {
		return nil, fmt.Errorf("decode client registry: %w", err)
	}

	return New(clients)
}

// Get returns the client with the given id.
func (r *Registry) Get(clientID string) (*Client, error) {
	id, err := uuid.Parse(strings.TrimSpace(clientID))
	if err != nil {
		return nil, ErrClientNotFound
	}

	c, ok := r.clients[id.String()]
	if !ok {
		return nil, ErrClientNotFound
	}

	return c, nil
}
