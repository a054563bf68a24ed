/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"github.com/trustbloc/logutil-go/pkg/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/cmd/common"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/cslmanager"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/dpop"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/identification"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/identification/broker"
	mockidentification "github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/identification/mock"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/observability/health"
	redischeck "github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/observability/health/redis"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/observability/metrics"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/observability/metrics/noop"
	metricsprovider "github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/observability/metrics/prometheus"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/observability/tracing"
	issuecredentialtracing "github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/observability/tracing/wrappers/issuecredential"
	pidissuertracing "github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/observability/tracing/wrappers/pidissuer"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/resterr"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/v1/logapi"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/v1/mw"
	pidissuerrest "github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/v1/pidissuer"
	statuslistrest "github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/v1/statuslist"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/v1/version"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/service/clientattestation"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/service/issuecredential"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/service/pidissuer"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/service/pinretry"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/service/proof"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/service/seedcredential"
)

var logger = log.New("pid-rest")

const (
	healthCheckEndpoint = "/healthcheck"
	bodyLimit           = "1M"
	shutdownTimeout     = 10 * time.Second

	brokerMaxRetries   = 3
	brokerInitialDelay = 200 * time.Millisecond
)

type server interface {
	ListenAndServe() error
	ListenAndServeTLS(certFile, keyFile string) error
}

type startOpts struct {
	server  server
	version string
	clock   clock.Clock
}

// StartOpts configures the start command.
type StartOpts func(opts *startOpts)

// WithHTTPServer sets the server the handler is served with. Used by tests.
func WithHTTPServer(srv server) StartOpts {
	return func(opts *startOpts) {
		opts.server = srv
	}
}

// WithVersion sets the version reported by the version endpoint.
func WithVersion(version string) StartOpts {
	return func(opts *startOpts) {
		opts.version = version
	}
}

// WithClock replaces the clock of every freshness check.
func WithClock(clk clock.Clock) StartOpts {
	return func(opts *startOpts) {
		opts.clock = clk
	}
}

// GetStartCmd returns the Cobra start command.
func GetStartCmd(opts ...StartOpts) *cobra.Command {
	startCmd := createStartCmd(opts...)

	createFlags(startCmd)

	return startCmd
}

func createStartCmd(opts ...StartOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start pid-rest",
		Long:  "Start the PID issuer REST API",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := getStartupParameters(cmd)
			if err != nil {
				return fmt.Errorf("failed to get startup parameters: %w", err)
			}

			o := &startOpts{clock: clock.New()}

			for _, opt := range opts {
				opt(o)
			}

			return startServer(params, o)
		},
	}
}

// nolint: funlen
func startServer(params *startupParameters, opts *startOpts) error {
	common.SetDefaultLogLevel(logger, params.logLevel)

	shutdownTracer, tracer, err := tracing.Initialize(params.tracingParams.exporter, params.tracingParams.serviceName)
	if err != nil {
		return fmt.Errorf("initialize tracing: %w", err)
	}

	defer shutdownTracer()

	m := noop.GetMetrics()

	if params.metricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle(metricsprovider.Path, metricsprovider.NewHandler())

		provider := metricsprovider.NewPrometheusProvider(&http.Server{ //nolint:gosec
			Addr:    params.metricsAddress,
			Handler: mux,
		})

		if err = provider.Create(); err != nil {
			return fmt.Errorf("create metrics provider: %w", err)
		}

		defer func() {
			if destroyErr := provider.Destroy(); destroyErr != nil {
				logger.Warn("Failed to stop metrics server", log.WithError(destroyErr))
			}
		}()

		m = provider.Metrics()
	}

	conf, err := prepareConfiguration(params, opts.clock)
	if err != nil {
		return err
	}

	defer conf.close()

	e, err := buildEchoHandler(conf, params, opts, tracer, m)
	if err != nil {
		return err
	}

	srv := opts.server
	if srv == nil {
		srv = &http.Server{ //nolint:gosec
			Addr:    params.hostURL,
			Handler: e,
		}
	}

	logger.Info("Starting pid-rest server", log.WithURL(params.hostURL))

	return serve(srv, params.tlsParameters)
}

func serve(srv server, tlsParams *tlsParameters) error {
	errCh := make(chan error, 1)

	go func() {
		if tlsParams.serveCertPath != "" && tlsParams.serveKeyPath != "" {
			errCh <- srv.ListenAndServeTLS(tlsParams.serveCertPath, tlsParams.serveKeyPath)

			return
		}

		errCh <- srv.ListenAndServe()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server closed unexpectedly: %w", err)
		}

		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down pid-rest server")

	if s, ok := srv.(interface{ Shutdown(ctx context.Context) error }); ok {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return s.Shutdown(shutdownCtx)
	}

	return nil
}

// nolint: funlen
func buildEchoHandler(
	conf *Configuration,
	params *startupParameters,
	opts *startOpts,
	tracer trace.Tracer,
	m metrics.Metrics,
) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = resterr.NewHTTPErrorHandler(m)

	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit(bodyLimit))
	e.Use(otelecho.Middleware(params.tracingParams.serviceName))

	ready := newReadinessController(e)

	idp, err := createIdentificationProvider(params.identification, conf)
	if err != nil {
		return nil, err
	}

	l := params.lifetimes

	statusManager, err := cslmanager.New(&cslmanager.Config{
		Store:       conf.stores.statusList,
		TokenSigner: conf.statusListSigner,
		ListSize:    params.statusListSize,
		ExternalURL: params.hostURLExternal,
	})
	if err != nil {
		return nil, fmt.Errorf("create status list manager: %w", err)
	}

	credentialService := issuecredentialtracing.Wrap(issuecredential.New(&issuecredential.Config{
		StatusManager: statusManager,
		SDJWTIssuer:   conf.sdjwtIssuer,
		MdocIssuer:    conf.mdocIssuer,
		VCT:           params.hostURLExternal + issuecredential.VCTPath,
		Validity:      l.credentialValidity,
		Clock:         opts.clock,
		Metrics:       m,
	}), tracer)

	seedService, err := seedcredential.NewService(&seedcredential.Config{
		SigningKey:      conf.issuerKey,
		SigningKeyID:    conf.issuerKeyID,
		EncryptionKey:   params.keyParameters.seedEncryptionKey,
		EncryptionKeyID: params.keyParameters.seedEncryptionKeyID,
		Validity:        l.seedValidity,
		Clock:           opts.clock,
	})
	if err != nil {
		return nil, fmt.Errorf("create seed credential service: %w", err)
	}

	issuerService := pidissuertracing.Wrap(pidissuer.NewService(&pidissuer.Config{
		BaseURL:        params.hostURLExternal,
		SessionStore:   conf.stores.session,
		ClientRegistry: conf.clientRegistry,
		ClientAttestation: clientattestation.NewService(&clientattestation.Config{
			ClientRegistry:        conf.clientRegistry,
			DefaultAttestationKey: conf.attestationKey,
			Clock:                 opts.clock,
			ProofValidity:         l.proofValidity,
			ProofTimeTolerance:    l.proofTimeTolerance,
		}),
		AttestationRequired: params.attestationRequired,
		Identification:      idp,
		DPoPVerifier: dpop.NewVerifier(&dpop.Config{
			Clock:              opts.clock,
			ProofValidity:      l.proofValidity,
			ProofTimeTolerance: l.proofTimeTolerance,
		}),
		ProofService: proof.NewService(&proof.Config{
			Clock:              opts.clock,
			ProofValidity:      l.proofValidity,
			ProofTimeTolerance: l.proofTimeTolerance,
		}),
		CredentialService:     credentialService,
		SeedCredentialService: seedService,
		PinRetryService: pinretry.NewService(&pinretry.Config{
			Store:      conf.stores.pinRetry,
			MaxRetries: params.maxPinRetries,
			Validity:   l.pinRetryValidity,
		}),
		VCT:       params.hostURLExternal + issuecredential.VCTPath,
		BatchSize: params.batchSize,
		Lifetimes: pidissuer.Lifetimes{
			RequestURI:        l.requestURI,
			Identification:    l.identification,
			AuthorizationCode: l.authorizationCode,
			AccessToken:       l.accessToken,
			CNonce:            l.cNonce,
			DPoPNonce:         l.dpopNonce,
			SessionID:         l.sessionID,
		},
		Clock:   opts.clock,
		Metrics: m,
	}), tracer)

	pidissuerrest.NewController(e, &pidissuerrest.Config{
		Service: issuerService,
		Tracer:  tracer,
	})

	statuslistrest.NewController(e, &statuslistrest.Config{
		Service:    statusManager,
		Tracer:     tracer,
		AdminToken: params.adminToken,
	})

	version.NewController(e, version.Config{Version: opts.version})

	logapi.NewController(e, mw.AdminTokenAuth(params.adminToken))

	var checks []health.Check

	if conf.redisClient != nil {
		checks = append(checks, health.Check{Name: storeTypeRedis, Check: redischeck.New(conf.redisClient.API())})
	}

	e.GET(healthCheckEndpoint, echo.WrapHandler(health.NewHandler(checks...)))

	ready.Ready(true)

	return e, nil
}

func createIdentificationProvider(params *identificationParameters, conf *Configuration) (identification.Provider, error) {
	if params.provider != identificationBroker {
		logger.Warn("Using the mock identification provider, every user is identified with test data")

		return mockidentification.New(), nil
	}

	p, err := broker.New(&broker.Config{
		BaseURL: params.brokerURL,
		HTTPClient: &http.Client{
			Transport: otelhttp.NewTransport(conf.httpTransport()),
		},
		MaxRetries:   brokerMaxRetries,
		InitialDelay: brokerInitialDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("create broker identification provider: %w", err)
	}

	return p, nil
}
