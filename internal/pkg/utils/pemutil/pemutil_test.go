/*
Copyright SecureKey Technologies Inc. All Rights Reserved.
SPDX-License-Identifier: Apache-2.0
*/

package pemutil_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/internal/pkg/utils/pemutil"
)

func TestReadECPrivateKey(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	sec1, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	pkcs8, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	p384, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	require.NoError(t, err)

	p384Bytes, err := x509.MarshalECPrivateKey(p384)
	require.NoError(t, err)

	tests := []struct {
		name    string
		content []byte
		wantErr string
	}{
		{
			name:    "sec1",
			content: pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: sec1}),
		},
		{
			name:    "pkcs8",
			content: pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: pkcs8}),
		},
		{
			name:    "not pem",
			content: []byte("data"),
			wantErr: "failed to decode pem",
		},
		{
			name:    "unexpected block",
			content: pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: sec1}),
			wantErr: "unexpected pem block",
		},
		{
			name:    "invalid key bytes",
			content: pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: []byte("x")}),
			wantErr: "failed to parse private key",
		},
		{
			name:    "wrong curve",
			content: pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: p384Bytes}),
			wantErr: "is not a P-256 key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pemutil.ReadECPrivateKey(writeFile(t, tt.content))

			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				require.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.True(t, key.Equal(got))
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := pemutil.ReadECPrivateKey(filepath.Join(t.TempDir(), "missing.pem"))
		require.ErrorContains(t, err, "failed to read key")
	})
}

func TestReadCertificateChain(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	leaf := selfSigned(t, key, "leaf")
	ca := selfSigned(t, key, "ca")

	t.Run("leaf first", func(t *testing.T) {
		content := append(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: leaf}),
			pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: ca})...)

		chain, err := pemutil.ReadCertificateChain(writeFile(t, content))
		require.NoError(t, err)
		require.Len(t, chain, 2)
		require.Equal(t, "leaf", chain[0].Subject.CommonName)
		require.Equal(t, "ca", chain[1].Subject.CommonName)
	})

	t.Run("no certificate", func(t *testing.T) {
		_, err := pemutil.ReadCertificateChain(writeFile(t, []byte("data")))
		require.ErrorContains(t, err, "failed to decode pem")
	})

	t.Run("invalid certificate", func(t *testing.T) {
		content := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: []byte("x")})

		_, err := pemutil.ReadCertificateChain(writeFile(t, content))
		require.ErrorContains(t, err, "failed to parse cert")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := pemutil.ReadCertificateChain(filepath.Join(t.TempDir(), "missing.pem"))
		require.ErrorContains(t, err, "failed to read cert")
	})
}

func TestReadPublicJWK(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	t.Run("public key", func(t *testing.T) {
		jwk, err := pemutil.ReadPublicJWK(writeFile(t, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})))
		require.NoError(t, err)
		require.True(t, jwk.IsPublic())
		require.Equal(t, "ES256", jwk.Algorithm)
		require.True(t, key.PublicKey.Equal(jwk.Key))
	})

	t.Run("certificate", func(t *testing.T) {
		cert := selfSigned(t, key, "attestation")

		jwk, err := pemutil.ReadPublicJWK(writeFile(t, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert})))
		require.NoError(t, err)
		require.True(t, key.PublicKey.Equal(jwk.Key))
	})

	t.Run("private key block", func(t *testing.T) {
		_, err := pemutil.ReadPublicJWK(writeFile(t, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: pubDER})))
		require.ErrorContains(t, err, "unexpected pem block")
	})
}

func selfSigned(t *testing.T, key *ecdsa.PrivateKey, cn string) []byte {
	t.Helper()

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: cn},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	return der
}

func writeFile(t *testing.T, content []byte) string {
	t.Helper()

	file := filepath.Join(t.TempDir(), "file.pem")
	require.NoError(t, os.WriteFile(file, content, 0o600))

	return file
}
