/*
Copyright SecureKey Technologies Inc. All Rights Reserved.
SPDX-License-Identifier: Apache-2.0
*/

package pemutil

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/go-jose/go-jose/v3"
)

const (
	blockCertificate  = "CERTIFICATE"
	blockECPrivateKey = "EC PRIVATE KEY"
	blockPrivateKey   = "PRIVATE KEY"
	blockPublicKey    = "PUBLIC KEY"
)

// ReadECPrivateKey reads a P-256 private key in SEC 1 or PKCS #8 form.
func ReadECPrivateKey(file string) (*ecdsa.PrivateKey, error) {
	block, err := readBlock(file)
	if err != nil {
		return nil, err
	}

	var key interface{}

	switch block.Type {
	case blockECPrivateKey:
		key, err = x509.ParseECPrivateKey(block.Bytes)
	case blockPrivateKey:
		key, err = x509.ParsePKCS8PrivateKey(block.Bytes)
	default:
		return nil, fmt.Errorf("unexpected pem block %q in %s", block.Type, file)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	ecKey, ok := key.(*ecdsa.PrivateKey)
	if !ok || ecKey.Curve != elliptic.P256() {
		return nil, fmt.Errorf("private key in %s is not a P-256 key", file)
	}

	return ecKey, nil
}

// ReadCertificateChain reads all certificates of file, leaf first.
func ReadCertificateChain(file string) ([]*x509.Certificate, error) {
	bytes, err := os.ReadFile(path.Clean(file))
	if err != nil {
		return nil, fmt.Errorf("failed to read cert: %w", err)
	}

	var chain []*x509.Certificate

	for {
		var block *pem.Block

		block, bytes = pem.Decode(bytes)
		if block == nil {
			break
		}

		if block.Type != blockCertificate {
			continue
		}

		cert, errParse := x509.ParseCertificate(block.Bytes)
		if errParse != nil {
			return nil, fmt.Errorf("failed to parse cert: %w", errParse)
		}

		chain = append(chain, cert)
	}

	if len(chain) == 0 {
		return nil, errors.New("failed to decode pem")
	}

	return chain, nil
}

// ReadPublicJWK reads an EC public key from a PUBLIC KEY or CERTIFICATE block.
func ReadPublicJWK(file string) (*jose.JSONWebKey, error) {
	block, err := readBlock(file)
	if err != nil {
		return nil, err
	}

	var pub interface{}

	switch block.Type {
	case blockPublicKey:
		pub, err = x509.ParsePKIXPublicKey(block.Bytes)
	case blockCertificate:
		var cert *x509.Certificate

		cert, err = x509.ParseCertificate(block.Bytes)
		if err == nil {
			pub = cert.PublicKey
		}
	default:
		return nil, fmt.Errorf("unexpected pem block %q in %s", block.Type, file)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	ecPub, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key in %s is not an EC key", file)
	}

	return &jose.JSONWebKey{Key: ecPub, Algorithm: string(jose.ES256)}, nil
}

func readBlock(file string) (*pem.Block, error) {
	bytes, err := os.ReadFile(path.Clean(file))
	if err != nil {
		return nil, fmt.Errorf("failed to read key: %w", err)
	}

	block, _ := pem.Decode(bytes)
	if block == nil {
		return nil, errors.New("failed to decode pem")
	}

	return block, nil
}
