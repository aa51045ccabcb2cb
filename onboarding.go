/*
Copyright 2025 Identio Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package onboarding is a client SDK driving two multi-step identity
// onboarding workflows against a remote verification backend: activating a
// cryptographic credential from weak user identifiers plus an OTP, and the
// follow-up identity verification (consent, document scan, presence check,
// OTP) that upgrades the credential to fully trusted.
//
// The credential crypto, request signing/encryption and platform secure
// storage are external collaborators consumed through interfaces; this
// package owns the flow state machines, the process identifier lifecycle and
// the document scan tracker.
package onboarding

import (
	"context"

	"github.com/pkg/errors"

	"github.com/identio/onboarding-go/backend"
	"github.com/identio/onboarding-go/config"
	"github.com/identio/onboarding-go/internal/request"
	"github.com/identio/onboarding-go/internal/storage"
)

// CreateActivationRequest is the payload handed to the credential SDK when
// exchanging a verified OTP for an issued credential.
type CreateActivationRequest struct {
	ProcessID       string `json:"processId"`
	OTP             string `json:"otp"`
	CredentialsType string `json:"credentialsType"`
	ActivationName  string `json:"-"`
}

// credentialsTypeOnboarding is the fixed credentials type this SDK issues.
const credentialsTypeOnboarding = "ONBOARDING"

// CredentialService is the contract for the underlying credential/activation
// SDK, consumed as an opaque collaborator. Implementations that reject an OTP
// should surface the remaining-attempts count through a *sdkerror.Error so
// the activation flow can decide whether a retry is still possible.
type CredentialService interface {
	// InstanceID identifies the credential instance; local persisted state is
	// keyed by it.
	InstanceID() string
	// CanStartActivation reports whether the credential is in a state that
	// permits starting (or finishing) an activation.
	CanStartActivation() bool
	// HasValidActivation reports whether the credential is currently active.
	HasValidActivation() bool
	// CreateActivation performs the credential issuance call.
	CreateActivation(ctx context.Context, req CreateActivationRequest) error
	// FetchActivationStatus refreshes the credential state from its backend.
	FetchActivationStatus(ctx context.Context) error
}

// StatusObserver is notified when a verification failure reveals that the
// credential is no longer active. Host applications typically react by
// leaving the verification UI entirely.
type StatusObserver interface {
	OnActivationNotActive()
}

type noopObserver struct{}

func (noopObserver) OnActivationNotActive() {}

// Authority applies per-request signing and encryption. The concrete schemes
// live in the external credential/transport layer; each backend endpoint names
// the tier it needs and the authority does the rest.
type Authority = request.Authority

// AuthTier names the authentication/encryption treatment an endpoint requires.
type AuthTier = request.AuthTier

// Auth tiers the backend endpoints request from the Authority.
const (
	TierAppScopeEncrypted           = request.TierAppScopeEncrypted
	TierTokenSigned                 = request.TierTokenSigned
	TierPossessionSigned            = request.TierPossessionSigned
	TierPossessionSignedEncrypted   = request.TierPossessionSignedEncrypted
	TierTokenSignedActivationScoped = request.TierTokenSignedActivationScoped
	TierActivationScopeEncrypted    = request.TierActivationScopeEncrypted
)

// SecretStore is the host-provided secure storage (keychain-like) holding the
// SDK's two persisted values.
type SecretStore = storage.SecretStore

// NewFileStore returns a SecretStore that seals its contents into an encrypted
// file, for hosts without a platform keychain.
func NewFileStore(path string, key [32]byte) SecretStore {
	return storage.NewFileStore(path, key)
}

// NewMemoryStore returns a non-persisting SecretStore. State is lost on
// restart; intended for tests and programmatic hosts.
func NewMemoryStore() SecretStore {
	return storage.NewMemoryStore()
}

// Deps are the collaborators a Service needs. Credential is required; Store
// defaults to in-memory, Authority and Observer to no-ops.
type Deps struct {
	Credential CredentialService
	Store      SecretStore
	Authority  Authority
	Observer   StatusObserver
}

// Service bundles the two flows for one credential instance.
type Service struct {
	activation   *ActivationService
	verification *VerificationService
}

// NewService wires both flows from the loaded configuration.
func NewService(deps Deps) (*Service, error) {
	cfg, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	if deps.Credential == nil {
		return nil, errors.New("credential service is required")
	}
	if deps.Store == nil {
		deps.Store = storage.NewMemoryStore()
	}
	if deps.Observer == nil {
		deps.Observer = noopObserver{}
	}

	api := backend.NewClient(cfg, deps.Authority)
	instanceID := deps.Credential.InstanceID()

	activation := newActivationService(
		api,
		deps.Credential,
		storage.NewProcessIDStore(deps.Store, instanceID),
	)
	verification := newVerificationService(
		api,
		deps.Credential,
		storage.NewScanCacheStore(deps.Store, instanceID),
		deps.Observer,
	)

	return &Service{activation: activation, verification: verification}, nil
}

// Activation returns the credential activation flow.
func (s *Service) Activation() *ActivationService {
	return s.activation
}

// Verification returns the identity verification flow.
func (s *Service) Verification() *VerificationService {
	return s.verification
}

// Close releases the activation flow's request queue.
func (s *Service) Close() {
	s.activation.Close()
}
