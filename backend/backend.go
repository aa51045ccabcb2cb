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

// Package backend is the typed client for the onboarding and identity
// verification REST surface. Every method is one backend call; auth tiers and
// encryption envelopes are applied by the request layer's Authority.
package backend

import (
	"context"
	"net/http"

	"github.com/identio/onboarding-go/config"
	"github.com/identio/onboarding-go/internal/request"
	"github.com/identio/onboarding-go/model"
)

var (
	epOnboardingStart     = request.Endpoint{Method: http.MethodPost, Path: "/api/onboarding/start", Tier: request.TierAppScopeEncrypted}
	epOnboardingCleanup   = request.Endpoint{Method: http.MethodPost, Path: "/api/onboarding/cleanup", Tier: request.TierAppScopeEncrypted}
	epOnboardingStatus    = request.Endpoint{Method: http.MethodPost, Path: "/api/onboarding/status", Tier: request.TierAppScopeEncrypted}
	epOnboardingOTPResend = request.Endpoint{Method: http.MethodPost, Path: "/api/onboarding/otp/resend", Tier: request.TierAppScopeEncrypted}

	epIdentityStatus    = request.Endpoint{Method: http.MethodPost, Path: "/api/identity/status", Tier: request.TierTokenSigned}
	epIdentityInit      = request.Endpoint{Method: http.MethodPost, Path: "/api/identity/init", Tier: request.TierPossessionSigned}
	epIdentityCleanup   = request.Endpoint{Method: http.MethodPost, Path: "/api/identity/cleanup", Tier: request.TierPossessionSigned}
	epConsentText       = request.Endpoint{Method: http.MethodPost, Path: "/api/identity/consent/text", Tier: request.TierTokenSigned}
	epConsentApprove    = request.Endpoint{Method: http.MethodPost, Path: "/api/identity/consent/approve", Tier: request.TierPossessionSigned}
	epDocumentInitSDK   = request.Endpoint{Method: http.MethodPost, Path: "/api/identity/document/init-sdk", Tier: request.TierPossessionSignedEncrypted}
	epDocumentSubmit    = request.Endpoint{Method: http.MethodPost, Path: "/api/identity/document/submit", Tier: request.TierTokenSignedActivationScoped}
	epDocumentStatus    = request.Endpoint{Method: http.MethodPost, Path: "/api/identity/document/status", Tier: request.TierTokenSigned}
	epPresenceCheckInit = request.Endpoint{Method: http.MethodPost, Path: "/api/identity/presence-check/init", Tier: request.TierPossessionSignedEncrypted}
	epPresenceCheckSub  = request.Endpoint{Method: http.MethodPost, Path: "/api/identity/presence-check/submit", Tier: request.TierPossessionSigned}
	epOTPResend         = request.Endpoint{Method: http.MethodPost, Path: "/api/identity/otp/resend", Tier: request.TierPossessionSigned}
	epOTPVerify         = request.Endpoint{Method: http.MethodPost, Path: "/api/identity/otp/verify", Tier: request.TierActivationScopeEncrypted}
)

type Client struct {
	rc       *request.Client
	submitEP request.Endpoint
}

// NewClient builds the backend client. The document submit endpoint gets the
// configured extended timeout because it uploads bundled images.
func NewClient(cfg *config.Configuration, authority request.Authority) *Client {
	submit := epDocumentSubmit
	submit.Timeout = cfg.DocumentSubmitTimeout()
	return &Client{
		rc:       request.NewClient(cfg, authority),
		submitEP: submit,
	}
}

func (c *Client) OnboardingStart(ctx context.Context, credentials model.StartCredentials) (*OnboardingStartResponse, error) {
	var resp OnboardingStartResponse
	if err := c.rc.Call(ctx, epOnboardingStart, &OnboardingStartRequest{Identification: credentials}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) OnboardingStatus(ctx context.Context, processID string) (*OnboardingStatusResponse, error) {
	var resp OnboardingStatusResponse
	if err := c.rc.Call(ctx, epOnboardingStatus, &OnboardingStatusRequest{ProcessID: processID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) OnboardingCleanup(ctx context.Context, processID string) error {
	return c.rc.Call(ctx, epOnboardingCleanup, &OnboardingCleanupRequest{ProcessID: processID}, nil)
}

func (c *Client) OnboardingOTPResend(ctx context.Context, processID string) error {
	return c.rc.Call(ctx, epOnboardingOTPResend, &OnboardingOTPResendRequest{ProcessID: processID}, nil)
}

func (c *Client) IdentityStatus(ctx context.Context) (*IdentityStatusResponse, error) {
	var resp IdentityStatusResponse
	if err := c.rc.Call(ctx, epIdentityStatus, struct{}{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) IdentityInit(ctx context.Context, processID string) error {
	return c.rc.Call(ctx, epIdentityInit, &IdentityInitRequest{ProcessID: processID}, nil)
}

func (c *Client) IdentityCleanup(ctx context.Context, processID string) error {
	return c.rc.Call(ctx, epIdentityCleanup, &IdentityCleanupRequest{ProcessID: processID}, nil)
}

func (c *Client) ConsentText(ctx context.Context, processID string) (string, error) {
	var resp ConsentTextResponse
	if err := c.rc.Call(ctx, epConsentText, &ConsentTextRequest{ProcessID: processID}, &resp); err != nil {
		return "", err
	}
	return resp.ConsentText, nil
}

func (c *Client) ConsentApprove(ctx context.Context, processID string, approved bool) error {
	return c.rc.Call(ctx, epConsentApprove, &ConsentApproveRequest{ProcessID: processID, Approved: approved}, nil)
}

func (c *Client) DocumentInitSDK(ctx context.Context, processID string, attributes map[string]string) (*DocumentInitSDKResponse, error) {
	var resp DocumentInitSDKResponse
	req := &DocumentInitSDKRequest{ProcessID: processID, Attributes: attributes}
	if err := c.rc.Call(ctx, epDocumentInitSDK, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DocumentSubmit(ctx context.Context, req *DocumentSubmitRequest) error {
	return c.rc.Call(ctx, c.submitEP, req, nil)
}

func (c *Client) DocumentStatus(ctx context.Context, processID string) (*DocumentStatusResponse, error) {
	var resp DocumentStatusResponse
	if err := c.rc.Call(ctx, epDocumentStatus, &DocumentStatusRequest{ProcessID: processID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) PresenceCheckInit(ctx context.Context, processID string) (*PresenceCheckInitResponse, error) {
	var resp PresenceCheckInitResponse
	if err := c.rc.Call(ctx, epPresenceCheckInit, &PresenceCheckInitRequest{ProcessID: processID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) PresenceCheckSubmit(ctx context.Context, processID string) error {
	return c.rc.Call(ctx, epPresenceCheckSub, &PresenceCheckSubmitRequest{ProcessID: processID}, nil)
}

func (c *Client) VerifyOTP(ctx context.Context, processID, otp string) (*OTPVerifyResponse, error) {
	var resp OTPVerifyResponse
	if err := c.rc.Call(ctx, epOTPVerify, &OTPVerifyRequest{ProcessID: processID, OTPCode: otp}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) VerificationOTPResend(ctx context.Context, processID string) error {
	return c.rc.Call(ctx, epOTPResend, &OTPResendRequest{ProcessID: processID}, nil)
}
