/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resterr

type Component string

//nolint:gosec
const (
	ParComponent                 Component = "pid.par"
	AuthorizeComponent           Component = "pid.authorize"
	FinishAuthorizationComponent Component = "pid.finish-authorization"
	TokenComponent               Component = "pid.token"
	CredentialComponent          Component = "pid.credential"
	PresentationSigningComponent Component = "pid.presentation-signing"
	SeedSessionComponent         Component = "pid.b1-session"

	DPoPComponent              Component = "dpop-verifier"
	ProofComponent             Component = "credential-proof-verifier"
	ClientAttestationComponent Component = "client-attestation-verifier"
	SeedBindingComponent       Component = "seed-binding"
	SessionStoreComponent      Component = "session-store"
	StatusListComponent        Component = "status-list"
	IssuanceComponent          Component = "issuance-engine"
	RedisComponent             Component = "redis-service"
)
