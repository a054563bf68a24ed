/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package statuslist

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// ErrPositionOutOfRange is returned when an index does not address an entry of the list.
var ErrPositionOutOfRange = errors.New("position is invalid")

// BitString is a one bit per entry status list. Entry 0 is the least significant bit of the first byte.
type BitString struct {
	bits []byte
}

// NewBitString returns a list holding at least length entries, all valid.
func NewBitString(length int) *BitString {
	return &BitString{bits: make([]byte, (length+7)/8)} //nolint:mnd
}

// FromBytes wraps raw list bytes.
func FromBytes(bits []byte) *BitString {
	return &BitString{bits: bits}
}

// DecodeBits reverses EncodeBits.
func DecodeBits(encoded string) (*BitString, error) {
	compressed, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode lst: %w", err)
	}

	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("open lst: %w", err)
	}
	defer r.Close()

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("inflate lst: %w", err)
	}

	return FromBytes(raw), nil
}

// Len returns the number of entries.
func (b *BitString) Len() int {
	return len(b.bits) * 8 //nolint:mnd
}

// Bytes returns the raw list.
func (b *BitString) Bytes() []byte {
	return b.bits
}

func (b *BitString) locate(position int) (int, byte, error) {
	if position < 0 || position >= b.Len() {
		return 0, 0, ErrPositionOutOfRange
	}

	return position / 8, byte(1) << (position % 8), nil //nolint:mnd
}

// Set marks the entry at position as revoked (true) or valid (false).
func (b *BitString) Set(position int, revoked bool) error {
	idx, mask, err := b.locate(position)
	if err != nil {
		return err
	}

	if revoked {
		b.bits[idx] |= mask
	} else {
		b.bits[idx] &^= mask
	}

	return nil
}

// Get reports whether the entry at position is revoked.
func (b *BitString) Get(position int) (bool, error) {
	idx, mask, err := b.locate(position)
	if err != nil {
		return false, err
	}

	return b.bits[idx]&mask != 0, nil
}

// EncodeBits returns base64url(zlib(bits)) as carried in the lst claim.
func (b *BitString) EncodeBits() (string, error) {
	var buf bytes.Buffer

	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return "", err
	}

	if _, err = w.Write(b.bits); err != nil {
		return "", fmt.Errorf("deflate lst: %w", err)
	}

	if err = w.Close(); err != nil {
		return "", fmt.Errorf("deflate lst: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}
