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

package onboarding

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/identio/onboarding-go/backend"
	"github.com/identio/onboarding-go/internal/sdkerror"
	"github.com/identio/onboarding-go/internal/storage"
	"github.com/identio/onboarding-go/model"
)

// sdkInitTokenAttribute carries the scan-SDK challenge to the backend.
const sdkInitTokenAttribute = "sdk-init-token"

// VerificationService drives the identity verification flow: consent,
// document scan and upload, presence check and the final OTP. Each call
// returns the next UI-facing state; the caller must only invoke the method
// that state designates as next.
//
// The flow holds the latest raw identity status in memory as the source of
// truth for the process identifier, so the operations need no shared persisted
// state and are not globally serialized. The document scan selection is
// persisted compactly and re-hydrated from the backend after a restart.
type VerificationService struct {
	api        *backend.Client
	credential CredentialService
	scanCache  *storage.ScanCacheStore
	observer   StatusObserver

	mu         sync.Mutex
	lastStatus *backend.IdentityStatusResponse
	process    *model.ScanProcess
}

func newVerificationService(api *backend.Client, credential CredentialService, scanCache *storage.ScanCacheStore, observer StatusObserver) *VerificationService {
	return &VerificationService{
		api:        api,
		credential: credential,
		scanCache:  scanCache,
		observer:   observer,
	}
}

// Status fetches the backend identity status and folds it into the UI state.
// On transition into a terminal-ish backend status the persisted scan process
// is purged as stale. The returned raw response becomes the process identifier
// source of truth for all subsequent calls.
func (s *VerificationService) Status(ctx context.Context) (model.State, error) {
	resp, err := s.api.IdentityStatus(ctx)
	if err != nil {
		return model.State{}, s.recover(ctx, err)
	}

	s.mu.Lock()
	s.lastStatus = resp
	s.mu.Unlock()

	switch resp.Status {
	case model.IdentityStatusFailed, model.IdentityStatusRejected,
		model.IdentityStatusNotInitialized, model.IdentityStatusAccepted:
		s.purgeScanProcess()
	}

	stage, err := TranslateStatus(resp.Phase, resp.Status)
	if err != nil {
		return model.State{}, err
	}

	switch stage.Kind {
	case model.StageIntro:
		return model.IntroState(), nil
	case model.StageDocumentScan:
		return s.reconcileDocuments(ctx, resp.ProcessID)
	case model.StageStatusCheck:
		return model.ProcessingState(stage.CheckReason), nil
	case model.StagePresenceCheck:
		return model.PresenceCheckState(), nil
	case model.StageOtp:
		return model.OtpState(nil), nil
	case model.StageFailed:
		return model.FailedState(), nil
	case model.StageRejected:
		return model.EndstateState(model.EndstateRejected), nil
	case model.StageSuccess:
		return model.SuccessState(), nil
	}
	return model.State{}, sdkerror.New(sdkerror.ErrContractViolation,
		fmt.Sprintf("unhandled stage %s", stage.Kind))
}

// reconcileDocuments folds the backend's per-document list against the locally
// tracked scan process to decide between re-showing the scan UI, reporting
// processing, or asking for document type selection.
func (s *VerificationService) reconcileDocuments(ctx context.Context, processID string) (model.State, error) {
	resp, err := s.api.DocumentStatus(ctx, processID)
	if err != nil {
		return model.State{}, s.recover(ctx, err)
	}

	process := s.currentProcess()
	if process == nil {
		if len(resp.Documents) == 0 {
			return model.DocumentsToScanSelectState(), nil
		}
		// Uploads exist but the local selection is gone; there is no way to
		// continue the scan session consistently.
		logrus.Warn("backend reports documents but no scan process is cached")
		return model.FailedState(), nil
	}

	if len(resp.Documents) == 0 {
		// Nothing uploaded yet for this session.
		return model.ScanDocumentState(process), nil
	}

	process.Feed(resp.Documents)

	anyRejected := false
	anyWaiting := false
	for _, doc := range resp.Documents {
		switch {
		case doc.Rejected():
			anyRejected = true
		case doc.Waiting():
			anyWaiting = true
		}
	}

	switch {
	case anyRejected:
		return model.ScanDocumentState(process), nil
	case anyWaiting:
		return model.ProcessingState(model.ReasonDocumentVerification), nil
	default:
		// Every upload passed, but the selection may still have types with
		// nothing uploaded; those keep the scan UI alive.
		if process.AllAccepted() {
			return model.ProcessingState(model.ReasonDocumentAccepted), nil
		}
		return model.ScanDocumentState(process), nil
	}
}

// ConsentGet fetches the consent text the user has to approve before the
// verification can be initialized.
func (s *VerificationService) ConsentGet(ctx context.Context) (model.State, error) {
	processID, err := s.processID()
	if err != nil {
		return model.State{}, err
	}
	text, err := s.api.ConsentText(ctx, processID)
	if err != nil {
		return model.State{}, s.recover(ctx, err)
	}
	return model.ConsentState(text), nil
}

// ConsentApprove submits the user's consent decision. Approval immediately
// also initializes the verification; consent approval and initialization are
// one user-visible step.
func (s *VerificationService) ConsentApprove(ctx context.Context, approved bool) (model.State, error) {
	processID, err := s.processID()
	if err != nil {
		return model.State{}, err
	}
	if err := s.api.ConsentApprove(ctx, processID, approved); err != nil {
		return model.State{}, s.recover(ctx, err)
	}
	if !approved {
		return model.IntroState(), nil
	}
	if err := s.api.IdentityInit(ctx, processID); err != nil {
		return model.State{}, s.recover(ctx, err)
	}
	return model.DocumentsToScanSelectState(), nil
}

// DocumentsInitSDK exchanges the scan SDK's challenge for its bootstrap
// attributes. Pure passthrough; the contents are opaque to this SDK.
func (s *VerificationService) DocumentsInitSDK(ctx context.Context, challenge string) (map[string]string, error) {
	processID, err := s.processID()
	if err != nil {
		return nil, err
	}
	resp, err := s.api.DocumentInitSDK(ctx, processID, map[string]string{
		sdkInitTokenAttribute: challenge,
	})
	if err != nil {
		return nil, s.recover(ctx, err)
	}
	return resp.Attributes, nil
}

// DocumentsSetSelectedTypes creates and persists a fresh scan process for
// exactly the given type list. No backend call is made.
func (s *VerificationService) DocumentsSetSelectedTypes(types []model.DocumentType) (model.State, error) {
	if len(types) == 0 {
		return model.State{}, sdkerror.New(sdkerror.ErrInvalidInput, "no document types selected")
	}
	seen := make(map[model.DocumentType]bool)
	for _, t := range types {
		if !t.Known() {
			return model.State{}, sdkerror.New(sdkerror.ErrInvalidInput,
				fmt.Sprintf("unknown document type %q", t))
		}
		if seen[t] {
			return model.State{}, sdkerror.New(sdkerror.ErrInvalidInput,
				fmt.Sprintf("document type %q selected twice", t))
		}
		seen[t] = true
	}

	process := model.NewScanProcess(types)
	if err := s.scanCache.Set(process.DataForCache()); err != nil {
		return model.State{}, err
	}
	s.mu.Lock()
	s.process = process
	s.mu.Unlock()
	return model.ScanDocumentState(process), nil
}

// DocumentsSubmit bundles the captured files and posts them for verification.
// Files replacing a rejected upload carry the prior server-assigned document
// id forward so the backend overwrites instead of appending. progress, when
// non-nil, is reported per bundled file.
func (s *VerificationService) DocumentsSubmit(ctx context.Context, files []model.DocumentFile, progress func(done, total int)) (model.State, error) {
	processID, err := s.processID()
	if err != nil {
		return model.State{}, err
	}

	s.carryForwardDocumentIDs(files)

	bundle, err := buildDocumentBundle(files, progress)
	if err != nil {
		return model.State{}, err
	}

	err = s.api.DocumentSubmit(ctx, &backend.DocumentSubmitRequest{
		ProcessID: processID,
		Data:      bundle.Data,
		Resubmit:  bundle.Resubmit,
		Documents: bundle.Documents,
	})
	if err != nil {
		return model.State{}, s.recover(ctx, err)
	}
	return model.ProcessingState(model.ReasonDocumentVerification), nil
}

// carryForwardDocumentIDs fills in the server-assigned id recorded for each
// file's (type, side) pair, when the caller did not set one.
func (s *VerificationService) carryForwardDocumentIDs(files []model.DocumentFile) {
	process := s.currentProcess()
	if process == nil {
		return
	}
	for i := range files {
		if files[i].OriginalDocumentID != "" {
			continue
		}
		for _, doc := range process.Documents {
			if doc.Type == files[i].Type {
				files[i].OriginalDocumentID = doc.ServerIDFor(files[i].Side)
				break
			}
		}
	}
}

// PresenceCheckInit starts the liveness check and returns the opaque session
// attributes that bootstrap the presence-check SDK.
func (s *VerificationService) PresenceCheckInit(ctx context.Context) (map[string]interface{}, error) {
	processID, err := s.processID()
	if err != nil {
		return nil, err
	}
	resp, err := s.api.PresenceCheckInit(ctx, processID)
	if err != nil {
		return nil, s.recover(ctx, err)
	}
	return resp.SessionAttributes, nil
}

// PresenceCheckSubmit reports that the presence check finished on the device.
// The local stage does not change; the backend takes over verification.
func (s *VerificationService) PresenceCheckSubmit(ctx context.Context) (model.State, error) {
	processID, err := s.processID()
	if err != nil {
		return model.State{}, err
	}
	if err := s.api.PresenceCheckSubmit(ctx, processID); err != nil {
		return model.State{}, s.recover(ctx, err)
	}
	return model.ProcessingState(model.ReasonVerifyingPresence), nil
}

// RestartVerification resets the verification on the backend and returns the
// flow to the intro state. The onboarding process itself stays alive.
func (s *VerificationService) RestartVerification(ctx context.Context) (model.State, error) {
	processID, err := s.processID()
	if err != nil {
		return model.State{}, err
	}
	if err := s.api.IdentityCleanup(ctx, processID); err != nil {
		return model.State{}, s.recover(ctx, err)
	}
	s.purgeScanProcess()
	return model.IntroState(), nil
}

// CancelWholeProcess cancels the entire onboarding process. Terminal; the
// caller has to start over from activation.
func (s *VerificationService) CancelWholeProcess(ctx context.Context) (model.State, error) {
	processID, err := s.processID()
	if err != nil {
		return model.State{}, err
	}
	if err := s.api.OnboardingCleanup(ctx, processID); err != nil {
		return model.State{}, s.recover(ctx, err)
	}
	s.purgeScanProcess()
	return model.EndstateState(model.EndstateCancelled), nil
}

// VerifyOTP submits the final verification OTP. A verified code moves the
// backend on and the flow reports processing; a rejected code with remaining
// attempts and no expiry re-presents the OTP screen, anything else fails with
// OTP_FAILED.
func (s *VerificationService) VerifyOTP(ctx context.Context, otp string) (model.State, error) {
	processID, err := s.processID()
	if err != nil {
		return model.State{}, err
	}
	resp, err := s.api.VerifyOTP(ctx, processID, otp)
	if err != nil {
		return model.State{}, s.recover(ctx, err)
	}
	if resp.Verified {
		return model.ProcessingState(model.ReasonOther), nil
	}
	if !resp.Expired && resp.RemainingAttempts != nil && *resp.RemainingAttempts > 0 {
		return model.OtpState(resp.RemainingAttempts), nil
	}
	otpErr := sdkerror.New(sdkerror.ErrOTPFailed, "verification OTP rejected")
	otpErr.RemainingAttempts = resp.RemainingAttempts
	return model.State{}, otpErr
}

// ResendOTP asks the backend to send a fresh verification OTP.
func (s *VerificationService) ResendOTP(ctx context.Context) error {
	processID, err := s.processID()
	if err != nil {
		return err
	}
	if err := s.api.VerificationOTPResend(ctx, processID); err != nil {
		return s.recover(ctx, err)
	}
	return nil
}

// processID returns the identifier from the last fetched identity status. A
// successful Status call must precede every other operation.
func (s *VerificationService) processID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastStatus == nil || s.lastStatus.ProcessID == "" {
		return "", sdkerror.New(sdkerror.ErrMissingStatus, "identity status has not been fetched yet")
	}
	return s.lastStatus.ProcessID, nil
}

// currentProcess returns the in-memory scan process, restoring it from the
// persisted cache after a restart. Malformed cache content is a cache miss.
func (s *VerificationService) currentProcess() *model.ScanProcess {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.process != nil {
		return s.process
	}
	data, ok, err := s.scanCache.Get()
	if err != nil {
		logrus.Warnf("reading scan process cache: %v", err)
		return nil
	}
	if !ok {
		return nil
	}
	process, ok := model.RestoreScanProcess(data)
	if !ok {
		logrus.Warnf("discarding malformed scan process cache %q", data)
		return nil
	}
	s.process = process
	return process
}

func (s *VerificationService) purgeScanProcess() {
	s.mu.Lock()
	s.process = nil
	s.mu.Unlock()
	if err := s.scanCache.Clear(); err != nil {
		logrus.Warnf("clearing scan process cache: %v", err)
	}
}

// recover applies the cross-cutting failure policy: a rate-limited response
// maps straight to an endstate, and any non-connectivity failure triggers a
// credential status re-check. A credential that is no longer active notifies
// the observer and reclassifies the error as ACTIVATION_NOT_ACTIVE.
func (s *VerificationService) recover(ctx context.Context, err error) error {
	if e := sdkerror.Of(err); e != nil && e.Code == sdkerror.ErrRateLimited {
		state := model.EndstateState(model.EndstateLimitReached)
		e.State = &state
		return e
	}
	if sdkerror.IsConnectivity(err) {
		return err
	}
	if fetchErr := s.credential.FetchActivationStatus(ctx); fetchErr != nil {
		logrus.Warnf("re-checking credential status: %v", fetchErr)
		return err
	}
	if !s.credential.HasValidActivation() {
		s.observer.OnActivationNotActive()
		return sdkerror.Wrap(sdkerror.ErrActivationNotActive, err, "credential is no longer active")
	}
	return err
}
