package backend

import (
	"github.com/identio/onboarding-go/model"
)

// Onboarding (activation) calls.

type OnboardingStartRequest struct {
	Identification model.StartCredentials `json:"identification"`
}

type OnboardingStartResponse struct {
	ProcessID string                 `json:"processId"`
	Status    model.ActivationStatus `json:"onboardingStatus"`
}

type OnboardingStatusRequest struct {
	ProcessID string `json:"processId"`
}

type OnboardingStatusResponse struct {
	ProcessID string                 `json:"processId"`
	Status    model.ActivationStatus `json:"onboardingStatus"`
}

type OnboardingCleanupRequest struct {
	ProcessID string `json:"processId"`
}

type OnboardingOTPResendRequest struct {
	ProcessID string `json:"processId"`
}

// Identity verification calls.

type IdentityStatusResponse struct {
	ProcessID string               `json:"processId"`
	Phase     *model.Phase         `json:"identityVerificationPhase"`
	Status    model.IdentityStatus `json:"identityVerificationStatus"`
}

type IdentityInitRequest struct {
	ProcessID string `json:"processId"`
}

type IdentityCleanupRequest struct {
	ProcessID string `json:"processId"`
}

type ConsentTextRequest struct {
	ProcessID string `json:"processId"`
}

type ConsentTextResponse struct {
	ConsentText string `json:"consentText"`
}

type ConsentApproveRequest struct {
	ProcessID string `json:"processId"`
	Approved  bool   `json:"approved"`
}

type DocumentInitSDKRequest struct {
	ProcessID  string            `json:"processId"`
	Attributes map[string]string `json:"attributes"`
}

type DocumentInitSDKResponse struct {
	Attributes map[string]string `json:"attributes"`
}

// DocumentMetadata describes one file inside the submitted bundle.
type DocumentMetadata struct {
	Filename           string             `json:"filename"`
	Type               model.DocumentType `json:"type"`
	Side               model.DocumentSide `json:"side"`
	OriginalDocumentID string             `json:"originalDocumentId,omitempty"`
}

type DocumentSubmitRequest struct {
	ProcessID string `json:"processId"`
	// Data is the base64 encoded bundle of all files.
	Data      string             `json:"data"`
	Resubmit  bool               `json:"resubmit"`
	Documents []DocumentMetadata `json:"documents"`
}

type DocumentStatusRequest struct {
	ProcessID string `json:"processId"`
}

type DocumentStatusResponse struct {
	Status    model.IdentityStatus   `json:"status"`
	Documents []model.ServerDocument `json:"documents"`
}

type PresenceCheckInitRequest struct {
	ProcessID string `json:"processId"`
}

type PresenceCheckInitResponse struct {
	// SessionAttributes bootstrap the third-party presence check SDK; the
	// contents are opaque to this SDK.
	SessionAttributes map[string]interface{} `json:"sessionAttributes"`
}

type PresenceCheckSubmitRequest struct {
	ProcessID string `json:"processId"`
}

type OTPVerifyRequest struct {
	ProcessID string `json:"processId"`
	OTPCode   string `json:"otpCode"`
}

type OTPVerifyResponse struct {
	Verified          bool `json:"verified"`
	Expired           bool `json:"expired"`
	RemainingAttempts *int `json:"remainingAttempts,omitempty"`
}

type OTPResendRequest struct {
	ProcessID string `json:"processId"`
}
