/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"context"
	"crypto/ecdsa"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-jose/go-jose/v3"
	tlsutils "github.com/trustbloc/cmdutil-go/pkg/utils/tls"
	"github.com/trustbloc/logutil-go/pkg/log"
	"go.opentelemetry.io/otel"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/internal/pkg/utils/pemutil"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/clientregistry"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/doc/mdoc"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/doc/sdjwt"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/doc/statuslist"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/service/issuecredential"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/service/proof"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/session"
	mempinretrystore "github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/storage/memory/pinretrystore"
	memsessionstore "github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/storage/memory/sessionstore"
	memstatusliststore "github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/storage/memory/statusliststore"
	redisclient "github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/storage/redis"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/storage/redis/pinretrystore"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/storage/redis/sessionstore"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/storage/redis/statusliststore"
)

const (
	memoryStoreSize = 100000

	redisConnectRetries    = 5
	redisConnectRetryDelay = 500 * time.Millisecond

	statusListTokenTTL = time.Hour
	statusListValidity = 24 * time.Hour
)

type pinRetryStore interface {
	Create(ctx context.Context, id string, ttl time.Duration) error
	Get(ctx context.Context, id string) (int, error)
	Increment(ctx context.Context, id string) (int, error)
}

type statusListStore interface {
	LatestListID(ctx context.Context) (string, error)
	TakeIndex(ctx context.Context, listID string) (int, error)
	CreateList(ctx context.Context, previousListID, listID string, size int, freeIndices []int) (bool, error)
	SetStatus(ctx context.Context, listID string, index int, revoked bool) error
	Get(ctx context.Context, listID string) ([]byte, error)
}

type stores struct {
	session    session.Store
	pinRetry   pinRetryStore
	statusList statusListStore
}

// Configuration holds the key material, registries and stores the services are built from.
type Configuration struct {
	RootCAs *x509.CertPool

	issuerKey        *ecdsa.PrivateKey
	issuerKeyID      string
	attestationKey   *jose.JSONWebKey
	clientRegistry   *clientregistry.Registry
	sdjwtIssuer      *sdjwt.Issuer
	mdocIssuer       *mdoc.Issuer
	statusListSigner *statuslist.TokenSigner
	stores           *stores
	redisClient      *redisclient.Client
}

func prepareConfiguration(params *startupParameters, clk clock.Clock) (*Configuration, error) {
	rootCAs, err := tlsutils.GetCertPool(params.tlsParameters.systemCertPool, params.tlsParameters.caCerts)
	if err != nil {
		return nil, err
	}

	conf := &Configuration{RootCAs: rootCAs}

	if err = conf.loadKeys(params.keyParameters, clk); err != nil {
		return nil, err
	}

	conf.clientRegistry, err = clientregistry.Load(params.keyParameters.clientRegistryPath)
	if err != nil {
		return nil, err
	}

	if err = conf.createStores(params, clk); err != nil {
		return nil, err
	}

	return conf, nil
}

func (c *Configuration) loadKeys(params *keyParameters, clk clock.Clock) error {
	key, err := pemutil.ReadECPrivateKey(params.issuerKeyPath)
	if err != nil {
		return fmt.Errorf("load issuer key: %w", err)
	}

	chain, err := pemutil.ReadCertificateChain(params.issuerCertChainPath)
	if err != nil {
		return fmt.Errorf("load issuer certificate chain: %w", err)
	}

	if !key.PublicKey.Equal(chain[0].PublicKey) {
		return errors.New("issuer certificate does not match the issuer key")
	}

	keyID := params.issuerKeyID
	if keyID == "" {
		keyID, err = proof.Thumbprint(&jose.JSONWebKey{Key: &key.PublicKey})
		if err != nil {
			return fmt.Errorf("issuer key thumbprint: %w", err)
		}
	}

	if params.attestationKeyPath != "" {
		c.attestationKey, err = pemutil.ReadPublicJWK(params.attestationKeyPath)
		if err != nil {
			return fmt.Errorf("load attestation key: %w", err)
		}
	}

	c.issuerKey = key
	c.issuerKeyID = keyID

	c.sdjwtIssuer, err = sdjwt.NewIssuer(&sdjwt.Config{
		SigningKey:       key,
		KeyID:            keyID,
		CertificateChain: chain,
		Type:             issuecredential.FormatSDJWT,
		DecoyDigests:     true,
	})
	if err != nil {
		return fmt.Errorf("create sd-jwt issuer: %w", err)
	}

	c.mdocIssuer, err = mdoc.NewIssuer(&mdoc.Config{
		SigningKey:       key,
		CertificateChain: chain,
	})
	if err != nil {
		return fmt.Errorf("create mdoc issuer: %w", err)
	}

	c.statusListSigner, err = statuslist.NewTokenSigner(&statuslist.TokenConfig{
		SigningKey:       key,
		KeyID:            keyID,
		CertificateChain: chain,
		TTL:              statusListTokenTTL,
		Validity:         statusListValidity,
		Clock:            clk,
	})
	if err != nil {
		return fmt.Errorf("create status list signer: %w", err)
	}

	return nil
}

func (c *Configuration) createStores(params *startupParameters, clk clock.Clock) error {
	if params.storeType != storeTypeRedis {
		logger.Warn("Using in-memory storage, state is lost on restart and not shared between instances")

		c.stores = &stores{
			session:    memsessionstore.New(memoryStoreSize, params.lifetimes.identification, clk),
			pinRetry:   mempinretrystore.New(memoryStoreSize, clk),
			statusList: memstatusliststore.New(),
		}

		return nil
	}

	rp := params.redisParameters

	opts := []redisclient.ClientOpt{
		redisclient.WithMasterName(rp.masterName),
		redisclient.WithPassword(rp.password),
		redisclient.WithTraceProvider(otel.GetTracerProvider()),
		redisclient.WithConnectRetries(redisConnectRetries, redisConnectRetryDelay),
	}

	if !rp.disableTLS {
		opts = append(opts, redisclient.WithTLSConfig(&tls.Config{
			RootCAs:    c.RootCAs,
			MinVersion: tls.VersionTLS12,
		}))
	}

	client, err := redisclient.New(rp.addrs, opts...)
	if err != nil {
		return err
	}

	c.redisClient = client
	c.stores = &stores{
		session:    sessionstore.New(client, params.lifetimes.identification, clk),
		pinRetry:   pinretrystore.New(client),
		statusList: statusliststore.New(client),
	}

	return nil
}

// httpTransport returns a transport trusting the configured CAs.
func (c *Configuration) httpTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert
	t.TLSClientConfig = &tls.Config{
		RootCAs:    c.RootCAs,
		MinVersion: tls.VersionTLS12,
	}

	return t
}

func (c *Configuration) close() {
	if c.redisClient == nil {
		return
	}

	if err := c.redisClient.Close(); err != nil {
		logger.Warn("Failed to close redis client", log.WithError(err))
	}
}
