/*
Copyright Avast Software. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sessionstore

import (
	"encoding/json"
	"time"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/session"
)

type redisDocument struct {
	ID       string
	ExpireAt time.Time
	Session  *session.Session
}

func (d *redisDocument) MarshalBinary() ([]byte, error) {
	return json.Marshal(d)
}

func (d *redisDocument) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, d)
}
