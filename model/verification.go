package model

// Phase is the backend's coarse progress axis for an identity verification.
// It is absent (nil) before the verification has been initialized and on an
// early hard failure.
type Phase string

const (
	PhaseDocumentUpload            Phase = "DOCUMENT_UPLOAD"
	PhaseDocumentVerification      Phase = "DOCUMENT_VERIFICATION"
	PhaseDocumentVerificationFinal Phase = "DOCUMENT_VERIFICATION_FINAL"
	PhaseClientEvaluation          Phase = "CLIENT_EVALUATION"
	PhasePresenceCheck             Phase = "PRESENCE_CHECK"
	PhaseOTP                       Phase = "OTP_VERIFICATION"
	PhaseCompleted                 Phase = "COMPLETED"
)

// IdentityStatus is the backend's fine progress axis, always paired with a Phase.
type IdentityStatus string

const (
	IdentityStatusNotInitialized      IdentityStatus = "NOT_INITIALIZED"
	IdentityStatusInProgress          IdentityStatus = "IN_PROGRESS"
	IdentityStatusVerificationPending IdentityStatus = "VERIFICATION_PENDING"
	IdentityStatusAccepted            IdentityStatus = "ACCEPTED"
	IdentityStatusRejected            IdentityStatus = "REJECTED"
	IdentityStatusFailed              IdentityStatus = "FAILED"
)

// StageKind is the closed set of internal verification stages a (phase, status)
// pair folds into.
type StageKind string

const (
	StageIntro         StageKind = "intro"
	StageDocumentScan  StageKind = "document_scan"
	StageStatusCheck   StageKind = "status_check"
	StagePresenceCheck StageKind = "presence_check"
	StageOtp           StageKind = "otp"
	StageFailed        StageKind = "failed"
	StageRejected      StageKind = "rejected"
	StageSuccess       StageKind = "success"
)

// StatusCheckReason qualifies StageStatusCheck and the Processing UI state with
// what the backend is currently busy with.
type StatusCheckReason string

const (
	ReasonDocumentVerification       StatusCheckReason = "document_verification"
	ReasonDocumentAccepted           StatusCheckReason = "document_accepted"
	ReasonDocumentsCrossVerification StatusCheckReason = "documents_cross_verification"
	ReasonClientVerification         StatusCheckReason = "client_verification"
	ReasonClientAccepted             StatusCheckReason = "client_accepted"
	ReasonVerifyingPresence          StatusCheckReason = "verifying_presence"
	ReasonOther                      StatusCheckReason = "other"
)

// Stage is the translator output: a stage kind plus, for status checks, the
// reason the client should keep polling.
type Stage struct {
	Kind        StageKind         `json:"kind"`
	CheckReason StatusCheckReason `json:"check_reason,omitempty"`
}

// StateStatus enumerates the UI-facing verification states. Terminal states are
// StateSuccess and StateEndstate; StateFailed permits restart or cancel.
type StateStatus string

const (
	StateIntro                 StateStatus = "intro"
	StateConsent               StateStatus = "consent"
	StateDocumentsToScanSelect StateStatus = "documents_to_scan_select"
	StateScanDocument          StateStatus = "scan_document"
	StateProcessing            StateStatus = "processing"
	StatePresenceCheck         StateStatus = "presence_check"
	StateOtp                   StateStatus = "otp"
	StateFailed                StateStatus = "failed"
	StateEndstate              StateStatus = "endstate"
	StateSuccess               StateStatus = "success"
)

// EndstateReason explains why the verification reached a terminal endstate.
type EndstateReason string

const (
	EndstateRejected     EndstateReason = "rejected"
	EndstateCancelled    EndstateReason = "cancelled"
	EndstateLimitReached EndstateReason = "limit_reached"
	EndstateOther        EndstateReason = "other"
)

// State is the UI-facing verification state. Status selects which payload
// fields are meaningful; every SDK call that advances the flow returns the
// next State, and the state's documentation names the single legal next call.
type State struct {
	Status StateStatus `json:"status"`

	// ConsentText is set for StateConsent.
	ConsentText string `json:"consent_text,omitempty"`
	// ScanProcess is set for StateScanDocument.
	ScanProcess *ScanProcess `json:"scan_process,omitempty"`
	// RemainingOtpAttempts is set for StateOtp when the backend reported it.
	RemainingOtpAttempts *int `json:"remaining_otp_attempts,omitempty"`
	// ProcessingReason is set for StateProcessing.
	ProcessingReason StatusCheckReason `json:"processing_reason,omitempty"`
	// EndstateReason is set for StateEndstate.
	EndstateReason EndstateReason `json:"endstate_reason,omitempty"`
}

// Terminal reports whether the state ends the verification flow.
func (s State) Terminal() bool {
	return s.Status == StateSuccess || s.Status == StateEndstate
}

func IntroState() State {
	return State{Status: StateIntro}
}

func ConsentState(text string) State {
	return State{Status: StateConsent, ConsentText: text}
}

func DocumentsToScanSelectState() State {
	return State{Status: StateDocumentsToScanSelect}
}

func ScanDocumentState(process *ScanProcess) State {
	return State{Status: StateScanDocument, ScanProcess: process}
}

func ProcessingState(reason StatusCheckReason) State {
	return State{Status: StateProcessing, ProcessingReason: reason}
}

func PresenceCheckState() State {
	return State{Status: StatePresenceCheck}
}

func OtpState(remainingAttempts *int) State {
	return State{Status: StateOtp, RemainingOtpAttempts: remainingAttempts}
}

func FailedState() State {
	return State{Status: StateFailed}
}

func EndstateState(reason EndstateReason) State {
	return State{Status: StateEndstate, EndstateReason: reason}
}

func SuccessState() State {
	return State{Status: StateSuccess}
}
