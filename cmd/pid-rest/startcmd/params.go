/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	cmdutils "github.com/trustbloc/cmdutil-go/pkg/utils/cmd"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/cmd/common"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/observability/tracing"
)

const (
	commonEnvVarUsageText = "Alternatively, this can be set with the following environment variable: "

	hostURLFlagName      = "host-url"
	hostURLFlagShorthand = "u"
	hostURLFlagUsage     = "URL to run the pid-rest instance on. Format: HostName:Port."
	hostURLEnvKey        = "PID_ISSUER_HOST_URL"

	hostURLExternalFlagName      = "host-url-external"
	hostURLExternalFlagShorthand = "x"
	hostURLExternalEnvKey        = "PID_ISSUER_HOST_URL_EXTERNAL"
	hostURLExternalFlagUsage     = "Base URL of the issuer as seen by wallets. The credential issuer of a flow " +
		"variant is <base URL>/<variant>. Format: https://<HOST>:<PORT>. " + commonEnvVarUsageText +
		hostURLExternalEnvKey

	tlsSystemCertPoolFlagName  = "tls-systemcertpool"
	tlsSystemCertPoolFlagUsage = "Use system certificate pool." +
		" Possible values [true] [false]. Defaults to false if not set. " + commonEnvVarUsageText + tlsSystemCertPoolEnvKey
	tlsSystemCertPoolEnvKey = "PID_ISSUER_TLS_SYSTEMCERTPOOL"

	tlsCACertsFlagName  = "tls-cacerts"
	tlsCACertsFlagUsage = "Comma-Separated list of ca certs path." + commonEnvVarUsageText + tlsCACertsEnvKey
	tlsCACertsEnvKey    = "PID_ISSUER_TLS_CACERTS"

	tlsCertificateFlagName  = "tls-certificate"
	tlsCertificateFlagUsage = "TLS certificate for pid-rest server. " + commonEnvVarUsageText + tlsCertificateEnvKey
	tlsCertificateEnvKey    = "PID_ISSUER_TLS_CERTIFICATE"

	tlsKeyFlagName  = "tls-key"
	tlsKeyFlagUsage = "TLS key for pid-rest server. " + commonEnvVarUsageText + tlsKeyEnvKey
	tlsKeyEnvKey    = "PID_ISSUER_TLS_KEY"

	adminTokenFlagName  = "admin-api-token"
	adminTokenEnvKey    = "PID_ISSUER_ADMIN_API_TOKEN" //nolint: gosec
	adminTokenFlagUsage = "Bearer token protecting the admin endpoints (log levels, status list revocation). " +
		"Admin endpoints reject every request if not set. " + commonEnvVarUsageText + adminTokenEnvKey

	metricsAddressFlagName  = "metrics-address"
	metricsAddressEnvKey    = "PID_ISSUER_METRICS_ADDRESS"
	metricsAddressFlagUsage = "Address the prometheus metrics endpoint listens on. Format: HostName:Port. " +
		"Metrics are not served if not set. " + commonEnvVarUsageText + metricsAddressEnvKey

	tracingExporterFlagName  = "tracing-exporter"
	tracingExporterEnvKey    = "PID_ISSUER_TRACING_EXPORTER"
	tracingExporterFlagUsage = "Span exporter of the tracing provider. Supported: STDOUT. Tracing is disabled " +
		"if not set. " + commonEnvVarUsageText + tracingExporterEnvKey

	tracingServiceNameFlagName  = "tracing-service-name"
	tracingServiceNameEnvKey    = "PID_ISSUER_TRACING_SERVICE_NAME"
	tracingServiceNameFlagUsage = "Service name reported with every span. Defaults to pid-issuer. " +
		commonEnvVarUsageText + tracingServiceNameEnvKey
)

// storage params
const (
	storeTypeFlagName      = "store-type"
	storeTypeFlagShorthand = "t"
	storeTypeEnvKey        = "PID_ISSUER_STORE_TYPE"
	storeTypeFlagUsage     = "Storage of sessions, PIN retry counters and status lists. Supported options: " +
		"memory, redis. Defaults to memory. " + commonEnvVarUsageText + storeTypeEnvKey

	redisURLFlagName  = "redis-url"
	redisURLEnvKey    = "PID_ISSUER_REDIS_URL"
	redisURLFlagUsage = "Redis address. Repeat the flag for a cluster. " + commonEnvVarUsageText + redisURLEnvKey

	redisMasterNameFlagName  = "redis-master-name"
	redisMasterNameEnvKey    = "PID_ISSUER_REDIS_MASTER_NAME"
	redisMasterNameFlagUsage = "Sentinel master name. " + commonEnvVarUsageText + redisMasterNameEnvKey

	redisPasswordFlagName  = "redis-password"
	redisPasswordEnvKey    = "PID_ISSUER_REDIS_PASSWORD" //nolint: gosec
	redisPasswordFlagUsage = "Redis password. " + commonEnvVarUsageText + redisPasswordEnvKey

	redisDisableTLSFlagName  = "redis-disable-tls"
	redisDisableTLSEnvKey    = "PID_ISSUER_REDIS_DISABLE_TLS"
	redisDisableTLSFlagUsage = "Connect to redis without TLS. Defaults to false. " +
		commonEnvVarUsageText + redisDisableTLSEnvKey

	storeTypeMemory = "memory"
	storeTypeRedis  = "redis"
)

// key material params
const (
	issuerKeyFlagName  = "issuer-key-path"
	issuerKeyEnvKey    = "PID_ISSUER_KEY_PATH"
	issuerKeyFlagUsage = "Path to the PEM encoded P-256 key signing credentials, seed credentials and status " +
		"lists. " + commonEnvVarUsageText + issuerKeyEnvKey

	issuerKeyIDFlagName  = "issuer-key-id"
	issuerKeyIDEnvKey    = "PID_ISSUER_KEY_ID"
	issuerKeyIDFlagUsage = "kid of the issuer key. " + commonEnvVarUsageText + issuerKeyIDEnvKey

	issuerCertChainFlagName  = "issuer-cert-chain-path"
	issuerCertChainEnvKey    = "PID_ISSUER_CERT_CHAIN_PATH"
	issuerCertChainFlagUsage = "Path to the PEM encoded certificate chain of the issuer key, leaf first. " +
		commonEnvVarUsageText + issuerCertChainEnvKey

	seedEncryptionKeyFlagName  = "seed-encryption-key"
	seedEncryptionKeyEnvKey    = "PID_ISSUER_SEED_ENCRYPTION_KEY" //nolint: gosec
	seedEncryptionKeyFlagUsage = "Base64 encoded 32 byte key encrypting the PID data of seed credentials. " +
		commonEnvVarUsageText + seedEncryptionKeyEnvKey

	seedEncryptionKeyIDFlagName  = "seed-encryption-key-id"
	seedEncryptionKeyIDEnvKey    = "PID_ISSUER_SEED_ENCRYPTION_KEY_ID" //nolint: gosec
	seedEncryptionKeyIDFlagUsage = "kid of the seed encryption key. Defaults to seed-enc. " +
		commonEnvVarUsageText + seedEncryptionKeyIDEnvKey

	clientRegistryFlagName  = "client-registry-path"
	clientRegistryEnvKey    = "PID_ISSUER_CLIENT_REGISTRY_PATH"
	clientRegistryFlagUsage = "Path to the JSON file with the registered wallets. " +
		commonEnvVarUsageText + clientRegistryEnvKey

	attestationKeyFlagName  = "attestation-key-path"
	attestationKeyEnvKey    = "PID_ISSUER_ATTESTATION_KEY_PATH"
	attestationKeyFlagUsage = "Path to the PEM encoded public key (or certificate) of the wallet provider verifying " +
		"client attestations of wallets without their own attestation key. " + commonEnvVarUsageText +
		attestationKeyEnvKey

	attestationRequiredFlagName  = "client-attestation-required"
	attestationRequiredEnvKey    = "PID_ISSUER_CLIENT_ATTESTATION_REQUIRED"
	attestationRequiredFlagUsage = "Require a client attestation at the pushed authorization request. " +
		"Defaults to true. " + commonEnvVarUsageText + attestationRequiredEnvKey

	defaultSeedEncryptionKeyID = "seed-enc"
	seedEncryptionKeySize      = 32
)

// identification params
const (
	identificationProviderFlagName  = "identification-provider"
	identificationProviderEnvKey    = "PID_ISSUER_IDENTIFICATION_PROVIDER"
	identificationProviderFlagUsage = "Identity proofing of users. Supported options: mock, broker. " +
		"Defaults to mock. " + commonEnvVarUsageText + identificationProviderEnvKey

	brokerURLFlagName  = "broker-url"
	brokerURLEnvKey    = "PID_ISSUER_BROKER_URL"
	brokerURLFlagUsage = "Base URL of the eID broker. Required for the broker identification provider. " +
		commonEnvVarUsageText + brokerURLEnvKey

	identificationMock   = "mock"
	identificationBroker = "broker"
)

// issuance params
const (
	statusListSizeFlagName  = "status-list-size"
	statusListSizeEnvKey    = "PID_ISSUER_STATUS_LIST_SIZE"
	statusListSizeFlagUsage = "Number of entries per status list. Defaults to 131072. " +
		commonEnvVarUsageText + statusListSizeEnvKey

	maxPinRetriesFlagName  = "max-pin-retries"
	maxPinRetriesEnvKey    = "PID_ISSUER_MAX_PIN_RETRIES"
	maxPinRetriesFlagUsage = "Failed PIN attempts before a seed credential is locked. Defaults to 3. " +
		commonEnvVarUsageText + maxPinRetriesEnvKey

	batchSizeFlagName  = "batch-size"
	batchSizeEnvKey    = "PID_ISSUER_BATCH_SIZE"
	batchSizeFlagUsage = "Maximum number of proofs in a batch credential request. Defaults to 42. " +
		commonEnvVarUsageText + batchSizeEnvKey

	defaultStatusListSize = 131072
	defaultMaxPinRetries  = 3
	defaultBatchSize      = 42
)

// lifetime params
const (
	requestURILifetimeFlagName  = "request-uri-lifetime"
	requestURILifetimeEnvKey    = "PID_ISSUER_REQUEST_URI_LIFETIME"
	requestURILifetimeFlagUsage = "Lifetime of the request_uri. Defaults to 60s. " +
		commonEnvVarUsageText + requestURILifetimeEnvKey

	identificationLifetimeFlagName  = "identification-lifetime"
	identificationLifetimeEnvKey    = "PID_ISSUER_IDENTIFICATION_LIFETIME"
	identificationLifetimeFlagUsage = "Time a user has to complete the identification. Defaults to 15m. " +
		commonEnvVarUsageText + identificationLifetimeEnvKey

	authorizationCodeLifetimeFlagName  = "authorization-code-lifetime"
	authorizationCodeLifetimeEnvKey    = "PID_ISSUER_AUTHORIZATION_CODE_LIFETIME"
	authorizationCodeLifetimeFlagUsage = "Lifetime of the authorization code. Defaults to 60s. " +
		commonEnvVarUsageText + authorizationCodeLifetimeEnvKey

	accessTokenLifetimeFlagName  = "access-token-lifetime"
	accessTokenLifetimeEnvKey    = "PID_ISSUER_ACCESS_TOKEN_LIFETIME" //nolint: gosec
	accessTokenLifetimeFlagUsage = "Lifetime of the access token. Defaults to 60s. " +
		commonEnvVarUsageText + accessTokenLifetimeEnvKey

	cNonceLifetimeFlagName  = "c-nonce-lifetime"
	cNonceLifetimeEnvKey    = "PID_ISSUER_C_NONCE_LIFETIME"
	cNonceLifetimeFlagUsage = "Lifetime of the c_nonce. Defaults to 60s. " +
		commonEnvVarUsageText + cNonceLifetimeEnvKey

	dpopNonceLifetimeFlagName  = "dpop-nonce-lifetime"
	dpopNonceLifetimeEnvKey    = "PID_ISSUER_DPOP_NONCE_LIFETIME"
	dpopNonceLifetimeFlagUsage = "Lifetime of the DPoP nonce. Defaults to 60s. " +
		commonEnvVarUsageText + dpopNonceLifetimeEnvKey

	sessionIDLifetimeFlagName  = "session-id-lifetime"
	sessionIDLifetimeEnvKey    = "PID_ISSUER_SESSION_ID_LIFETIME"
	sessionIDLifetimeFlagUsage = "Lifetime of the pid_issuer_session_id created for seed credential grants. " +
		"Defaults to 60s. " + commonEnvVarUsageText + sessionIDLifetimeEnvKey

	proofValidityFlagName  = "proof-validity"
	proofValidityEnvKey    = "PID_ISSUER_PROOF_VALIDITY"
	proofValidityFlagUsage = "Maximum age of DPoP proofs, key proofs and client attestations. Defaults to 60s. " +
		commonEnvVarUsageText + proofValidityEnvKey

	proofTimeToleranceFlagName  = "proof-time-tolerance"
	proofTimeToleranceEnvKey    = "PID_ISSUER_PROOF_TIME_TOLERANCE"
	proofTimeToleranceFlagUsage = "Accepted clock skew for proofs issued in the future. Defaults to 5s. " +
		commonEnvVarUsageText + proofTimeToleranceEnvKey

	seedValidityFlagName  = "seed-validity"
	seedValidityEnvKey    = "PID_ISSUER_SEED_VALIDITY"
	seedValidityFlagUsage = "Validity of seed credentials. Defaults to 8760h. " +
		commonEnvVarUsageText + seedValidityEnvKey

	credentialValidityFlagName  = "credential-validity"
	credentialValidityEnvKey    = "PID_ISSUER_CREDENTIAL_VALIDITY"
	credentialValidityFlagUsage = "Validity of issued credentials. Defaults to 336h. " +
		commonEnvVarUsageText + credentialValidityEnvKey

	pinRetryValidityFlagName  = "pin-retry-validity"
	pinRetryValidityEnvKey    = "PID_ISSUER_PIN_RETRY_VALIDITY"
	pinRetryValidityFlagUsage = "Retention of PIN retry counters. Defaults to 8760h. " +
		commonEnvVarUsageText + pinRetryValidityEnvKey

	defaultRequestURILifetime        = 60 * time.Second
	defaultIdentificationLifetime    = 15 * time.Minute
	defaultAuthorizationCodeLifetime = 60 * time.Second
	defaultAccessTokenLifetime       = 60 * time.Second
	defaultCNonceLifetime            = 60 * time.Second
	defaultDPoPNonceLifetime         = 60 * time.Second
	defaultSessionIDLifetime         = 60 * time.Second
	defaultProofValidity             = 60 * time.Second
	defaultProofTimeTolerance        = 5 * time.Second
	defaultSeedValidity              = 8760 * time.Hour
	defaultCredentialValidity        = 336 * time.Hour
	defaultPinRetryValidity          = 8760 * time.Hour
)

const defaultTracingServiceName = "pid-issuer"

type startupParameters struct {
	hostURL             string
	hostURLExternal     string
	logLevel            string
	adminToken          string
	metricsAddress      string
	storeType           string
	attestationRequired bool
	statusListSize      int
	maxPinRetries       int
	batchSize           int
	tlsParameters       *tlsParameters
	redisParameters     *redisParameters
	keyParameters       *keyParameters
	identification      *identificationParameters
	lifetimes           *lifetimeParameters
	tracingParams       *tracingParams
}

type tlsParameters struct {
	systemCertPool bool
	caCerts        []string
	serveCertPath  string
	serveKeyPath   string
}

type redisParameters struct {
	addrs      []string
	masterName string
	password   string
	disableTLS bool
}

type keyParameters struct {
	issuerKeyPath       string
	issuerKeyID         string
	issuerCertChainPath string
	seedEncryptionKey   []byte
	seedEncryptionKeyID string
	clientRegistryPath  string
	attestationKeyPath  string
}

type identificationParameters struct {
	provider  string
	brokerURL string
}

type lifetimeParameters struct {
	requestURI         time.Duration
	identification     time.Duration
	authorizationCode  time.Duration
	accessToken        time.Duration
	cNonce             time.Duration
	dpopNonce          time.Duration
	sessionID          time.Duration
	proofValidity      time.Duration
	proofTimeTolerance time.Duration
	seedValidity       time.Duration
	credentialValidity time.Duration
	pinRetryValidity   time.Duration
}

type tracingParams struct {
	exporter    tracing.SpanExporterType
	serviceName string
}

// nolint: gocyclo,funlen
func getStartupParameters(cmd *cobra.Command) (*startupParameters, error) {
	hostURL, err := cmdutils.GetUserSetVarFromString(cmd, hostURLFlagName, hostURLEnvKey, false)
	if err != nil {
		return nil, err
	}

	hostURLExternal, err := cmdutils.GetUserSetVarFromString(cmd, hostURLExternalFlagName,
		hostURLExternalEnvKey, false)
	if err != nil {
		return nil, err
	}

	loggingLevel := cmdutils.GetUserSetOptionalVarFromString(cmd, common.LogLevelFlagName, common.LogLevelEnvKey)

	adminToken := cmdutils.GetUserSetOptionalVarFromString(cmd, adminTokenFlagName, adminTokenEnvKey)

	metricsAddress := cmdutils.GetUserSetOptionalVarFromString(cmd, metricsAddressFlagName, metricsAddressEnvKey)

	tlsParams, err := getTLS(cmd)
	if err != nil {
		return nil, err
	}

	storeType, redisParams, err := getStorageParameters(cmd)
	if err != nil {
		return nil, err
	}

	keyParams, err := getKeyParameters(cmd)
	if err != nil {
		return nil, err
	}

	attestationRequired, err := getBool(cmd, attestationRequiredFlagName, attestationRequiredEnvKey, true)
	if err != nil {
		return nil, err
	}

	identificationParams, err := getIdentificationParameters(cmd)
	if err != nil {
		return nil, err
	}

	statusListSize, err := getInt(cmd, statusListSizeFlagName, statusListSizeEnvKey, defaultStatusListSize)
	if err != nil {
		return nil, err
	}

	maxPinRetries, err := getInt(cmd, maxPinRetriesFlagName, maxPinRetriesEnvKey, defaultMaxPinRetries)
	if err != nil {
		return nil, err
	}

	batchSize, err := getInt(cmd, batchSizeFlagName, batchSizeEnvKey, defaultBatchSize)
	if err != nil {
		return nil, err
	}

	lifetimes, err := getLifetimes(cmd)
	if err != nil {
		return nil, err
	}

	tracingParameters, err := getTracingParams(cmd)
	if err != nil {
		return nil, err
	}

	return &startupParameters{
		hostURL:             hostURL,
		hostURLExternal:     hostURLExternal,
		logLevel:            loggingLevel,
		adminToken:          adminToken,
		metricsAddress:      metricsAddress,
		storeType:           storeType,
		attestationRequired: attestationRequired,
		statusListSize:      statusListSize,
		maxPinRetries:       maxPinRetries,
		batchSize:           batchSize,
		tlsParameters:       tlsParams,
		redisParameters:     redisParams,
		keyParameters:       keyParams,
		identification:      identificationParams,
		lifetimes:           lifetimes,
		tracingParams:       tracingParameters,
	}, nil
}

func getTLS(cmd *cobra.Command) (*tlsParameters, error) {
	tlsSystemCertPool, err := getBool(cmd, tlsSystemCertPoolFlagName, tlsSystemCertPoolEnvKey, false)
	if err != nil {
		return nil, err
	}

	tlsCACerts := cmdutils.GetUserSetOptionalVarFromArrayString(cmd, tlsCACertsFlagName, tlsCACertsEnvKey)

	tlsServeCertPath := cmdutils.GetUserSetOptionalVarFromString(cmd, tlsCertificateFlagName, tlsCertificateEnvKey)

	tlsServeKeyPath := cmdutils.GetUserSetOptionalVarFromString(cmd, tlsKeyFlagName, tlsKeyEnvKey)

	return &tlsParameters{
		systemCertPool: tlsSystemCertPool,
		caCerts:        tlsCACerts,
		serveCertPath:  tlsServeCertPath,
		serveKeyPath:   tlsServeKeyPath,
	}, nil
}

func getStorageParameters(cmd *cobra.Command) (string, *redisParameters, error) {
	storeType := cmdutils.GetUserSetOptionalVarFromString(cmd, storeTypeFlagName, storeTypeEnvKey)

	switch storeType {
	case "", storeTypeMemory:
		return storeTypeMemory, nil, nil
	case storeTypeRedis:
	default:
		return "", nil, fmt.Errorf("unsupported store type: %s", storeType)
	}

	addrs, err := cmdutils.GetUserSetVarFromArrayString(cmd, redisURLFlagName, redisURLEnvKey, false)
	if err != nil {
		return "", nil, err
	}

	disableTLS, err := getBool(cmd, redisDisableTLSFlagName, redisDisableTLSEnvKey, false)
	if err != nil {
		return "", nil, err
	}

	return storeTypeRedis, &redisParameters{
		addrs:      addrs,
		masterName: cmdutils.GetUserSetOptionalVarFromString(cmd, redisMasterNameFlagName, redisMasterNameEnvKey),
		password:   cmdutils.GetUserSetOptionalVarFromString(cmd, redisPasswordFlagName, redisPasswordEnvKey),
		disableTLS: disableTLS,
	}, nil
}

func getKeyParameters(cmd *cobra.Command) (*keyParameters, error) {
	issuerKeyPath, err := cmdutils.GetUserSetVarFromString(cmd, issuerKeyFlagName, issuerKeyEnvKey, false)
	if err != nil {
		return nil, err
	}

	issuerCertChainPath, err := cmdutils.GetUserSetVarFromString(cmd, issuerCertChainFlagName,
		issuerCertChainEnvKey, false)
	if err != nil {
		return nil, err
	}

	encodedSeedKey, err := cmdutils.GetUserSetVarFromString(cmd, seedEncryptionKeyFlagName,
		seedEncryptionKeyEnvKey, false)
	if err != nil {
		return nil, err
	}

	seedKey, err := base64.StdEncoding.DecodeString(encodedSeedKey)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", seedEncryptionKeyFlagName, err)
	}

	if len(seedKey) != seedEncryptionKeySize {
		return nil, fmt.Errorf("invalid %s: expected %d bytes, got %d",
			seedEncryptionKeyFlagName, seedEncryptionKeySize, len(seedKey))
	}

	seedKeyID := cmdutils.GetUserSetOptionalVarFromString(cmd, seedEncryptionKeyIDFlagName, seedEncryptionKeyIDEnvKey)
	if seedKeyID == "" {
		seedKeyID = defaultSeedEncryptionKeyID
	}

	clientRegistryPath, err := cmdutils.GetUserSetVarFromString(cmd, clientRegistryFlagName,
		clientRegistryEnvKey, false)
	if err != nil {
		return nil, err
	}

	return &keyParameters{
		issuerKeyPath:       issuerKeyPath,
		issuerKeyID:         cmdutils.GetUserSetOptionalVarFromString(cmd, issuerKeyIDFlagName, issuerKeyIDEnvKey),
		issuerCertChainPath: issuerCertChainPath,
		seedEncryptionKey:   seedKey,
		seedEncryptionKeyID: seedKeyID,
		clientRegistryPath:  clientRegistryPath,
		attestationKeyPath:  cmdutils.GetUserSetOptionalVarFromString(cmd, attestationKeyFlagName, attestationKeyEnvKey),
	}, nil
}

func getIdentificationParameters(cmd *cobra.Command) (*identificationParameters, error) {
	provider := cmdutils.GetUserSetOptionalVarFromString(cmd, identificationProviderFlagName,
		identificationProviderEnvKey)

	switch provider {
	case "", identificationMock:
		return &identificationParameters{provider: identificationMock}, nil
	case identificationBroker:
		brokerURL, err := cmdutils.GetUserSetVarFromString(cmd, brokerURLFlagName, brokerURLEnvKey, false)
		if err != nil {
			return nil, err
		}

		return &identificationParameters{provider: identificationBroker, brokerURL: brokerURL}, nil
	default:
		return nil, fmt.Errorf("unsupported identification provider: %s", provider)
	}
}

func getLifetimes(cmd *cobra.Command) (*lifetimeParameters, error) {
	l := &lifetimeParameters{}

	for _, d := range []struct {
		dst      *time.Duration
		flagName string
		envKey   string
		def      time.Duration
	}{
		{&l.requestURI, requestURILifetimeFlagName, requestURILifetimeEnvKey, defaultRequestURILifetime},
		{&l.identification, identificationLifetimeFlagName, identificationLifetimeEnvKey,
			defaultIdentificationLifetime},
		{&l.authorizationCode, authorizationCodeLifetimeFlagName, authorizationCodeLifetimeEnvKey,
			defaultAuthorizationCodeLifetime},
		{&l.accessToken, accessTokenLifetimeFlagName, accessTokenLifetimeEnvKey, defaultAccessTokenLifetime},
		{&l.cNonce, cNonceLifetimeFlagName, cNonceLifetimeEnvKey, defaultCNonceLifetime},
		{&l.dpopNonce, dpopNonceLifetimeFlagName, dpopNonceLifetimeEnvKey, defaultDPoPNonceLifetime},
		{&l.sessionID, sessionIDLifetimeFlagName, sessionIDLifetimeEnvKey, defaultSessionIDLifetime},
		{&l.proofValidity, proofValidityFlagName, proofValidityEnvKey, defaultProofValidity},
		{&l.proofTimeTolerance, proofTimeToleranceFlagName, proofTimeToleranceEnvKey, defaultProofTimeTolerance},
		{&l.seedValidity, seedValidityFlagName, seedValidityEnvKey, defaultSeedValidity},
		{&l.credentialValidity, credentialValidityFlagName, credentialValidityEnvKey, defaultCredentialValidity},
		{&l.pinRetryValidity, pinRetryValidityFlagName, pinRetryValidityEnvKey, defaultPinRetryValidity},
	} {
		v, err := getDuration(cmd, d.flagName, d.envKey, d.def)
		if err != nil {
			return nil, err
		}

		if v <= 0 {
			return nil, fmt.Errorf("%s must be positive", d.flagName)
		}

		*d.dst = v
	}

	return l, nil
}

func getTracingParams(cmd *cobra.Command) (*tracingParams, error) {
	serviceName := cmdutils.GetOptionalString(cmd, tracingServiceNameFlagName, tracingServiceNameEnvKey)
	if serviceName == "" {
		serviceName = defaultTracingServiceName
	}

	exporter := cmdutils.GetOptionalString(cmd, tracingExporterFlagName, tracingExporterEnvKey)
	if !tracing.IsExportedSupported(exporter) {
		return nil, fmt.Errorf("unsupported tracing exporter: %s", exporter)
	}

	return &tracingParams{
		exporter:    exporter,
		serviceName: serviceName,
	}, nil
}

func getDuration(cmd *cobra.Command, flagName, envKey string,
	defaultDuration time.Duration) (time.Duration, error) {
	timeoutStr, err := cmdutils.GetUserSetVarFromString(cmd, flagName, envKey, true)
	if err != nil {
		return -1, err
	}

	if timeoutStr == "" {
		return defaultDuration, nil
	}

	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return -1, fmt.Errorf("invalid value [%s]: %w", timeoutStr, err)
	}

	return timeout, nil
}

func getInt(cmd *cobra.Command, flagName, envKey string, defaultValue int) (int, error) {
	str, err := cmdutils.GetUserSetVarFromString(cmd, flagName, envKey, true)
	if err != nil {
		return -1, err
	}

	if str == "" {
		return defaultValue, nil
	}

	v, err := strconv.Atoi(str)
	if err != nil {
		return -1, fmt.Errorf("invalid value [%s]: %w", str, err)
	}

	if v <= 0 {
		return -1, fmt.Errorf("%s must be positive", flagName)
	}

	return v, nil
}

func getBool(cmd *cobra.Command, flagName, envKey string, defaultValue bool) (bool, error) {
	str := cmdutils.GetUserSetOptionalVarFromString(cmd, flagName, envKey)
	if str == "" {
		return defaultValue, nil
	}

	return strconv.ParseBool(str)
}

func createFlags(startCmd *cobra.Command) {
	startCmd.Flags().StringP(hostURLFlagName, hostURLFlagShorthand, "", hostURLFlagUsage)
	startCmd.Flags().StringP(hostURLExternalFlagName, hostURLExternalFlagShorthand, "", hostURLExternalFlagUsage)
	startCmd.Flags().StringP(common.LogLevelFlagName, common.LogLevelFlagShorthand, "",
		common.LogLevelPrefixFlagUsage)
	startCmd.Flags().String(tlsSystemCertPoolFlagName, "", tlsSystemCertPoolFlagUsage)
	startCmd.Flags().StringArray(tlsCACertsFlagName, []string{}, tlsCACertsFlagUsage)
	startCmd.Flags().String(tlsCertificateFlagName, "", tlsCertificateFlagUsage)
	startCmd.Flags().String(tlsKeyFlagName, "", tlsKeyFlagUsage)
	startCmd.Flags().String(adminTokenFlagName, "", adminTokenFlagUsage)
	startCmd.Flags().String(metricsAddressFlagName, "", metricsAddressFlagUsage)
	startCmd.Flags().String(tracingExporterFlagName, "", tracingExporterFlagUsage)
	startCmd.Flags().String(tracingServiceNameFlagName, "", tracingServiceNameFlagUsage)

	startCmd.Flags().StringP(storeTypeFlagName, storeTypeFlagShorthand, "", storeTypeFlagUsage)
	startCmd.Flags().StringArray(redisURLFlagName, []string{}, redisURLFlagUsage)
	startCmd.Flags().String(redisMasterNameFlagName, "", redisMasterNameFlagUsage)
	startCmd.Flags().String(redisPasswordFlagName, "", redisPasswordFlagUsage)
	startCmd.Flags().String(redisDisableTLSFlagName, "", redisDisableTLSFlagUsage)

	startCmd.Flags().String(issuerKeyFlagName, "", issuerKeyFlagUsage)
	startCmd.Flags().String(issuerKeyIDFlagName, "", issuerKeyIDFlagUsage)
	startCmd.Flags().String(issuerCertChainFlagName, "", issuerCertChainFlagUsage)
	startCmd.Flags().String(seedEncryptionKeyFlagName, "", seedEncryptionKeyFlagUsage)
	startCmd.Flags().String(seedEncryptionKeyIDFlagName, "", seedEncryptionKeyIDFlagUsage)
	startCmd.Flags().String(clientRegistryFlagName, "", clientRegistryFlagUsage)
	startCmd.Flags().String(attestationKeyFlagName, "", attestationKeyFlagUsage)
	startCmd.Flags().String(attestationRequiredFlagName, "", attestationRequiredFlagUsage)

	startCmd.Flags().String(identificationProviderFlagName, "", identificationProviderFlagUsage)
	startCmd.Flags().String(brokerURLFlagName, "", brokerURLFlagUsage)

	startCmd.Flags().String(statusListSizeFlagName, "", statusListSizeFlagUsage)
	startCmd.Flags().String(maxPinRetriesFlagName, "", maxPinRetriesFlagUsage)
	startCmd.Flags().String(batchSizeFlagName, "", batchSizeFlagUsage)

	startCmd.Flags().String(requestURILifetimeFlagName, "", requestURILifetimeFlagUsage)
	startCmd.Flags().String(identificationLifetimeFlagName, "", identificationLifetimeFlagUsage)
	startCmd.Flags().String(authorizationCodeLifetimeFlagName, "", authorizationCodeLifetimeFlagUsage)
	startCmd.Flags().String(accessTokenLifetimeFlagName, "", accessTokenLifetimeFlagUsage)
	startCmd.Flags().String(cNonceLifetimeFlagName, "", cNonceLifetimeFlagUsage)
	startCmd.Flags().String(dpopNonceLifetimeFlagName, "", dpopNonceLifetimeFlagUsage)
	startCmd.Flags().String(sessionIDLifetimeFlagName, "", sessionIDLifetimeFlagUsage)
	startCmd.Flags().String(proofValidityFlagName, "", proofValidityFlagUsage)
	startCmd.Flags().String(proofTimeToleranceFlagName, "", proofTimeToleranceFlagUsage)
	startCmd.Flags().String(seedValidityFlagName, "", seedValidityFlagUsage)
	startCmd.Flags().String(credentialValidityFlagName, "", credentialValidityFlagUsage)
	startCmd.Flags().String(pinRetryValidityFlagName, "", pinRetryValidityFlagUsage)
}
