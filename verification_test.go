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
	"encoding/json"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wacul/ptr"

	"github.com/identio/onboarding-go/backend"
	"github.com/identio/onboarding-go/config"
	"github.com/identio/onboarding-go/internal/sdkerror"
	"github.com/identio/onboarding-go/internal/storage"
	"github.com/identio/onboarding-go/model"
)

type verificationFixture struct {
	credential *fakeCredential
	observer   *recordingObserver
	store      *storage.MemoryStore
	flow       *VerificationService
}

func newVerificationFixture(t *testing.T) *verificationFixture {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	credential := newFakeCredential()
	observer := &recordingObserver{}
	store := storage.NewMemoryStore()
	config.MockConfig(&config.Configuration{BaseURL: testBaseURL})

	svc, err := NewService(Deps{Credential: credential, Store: store, Observer: observer})
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	return &verificationFixture{
		credential: credential,
		observer:   observer,
		store:      store,
		flow:       svc.Verification(),
	}
}

func (f *verificationFixture) stubIdentityStatus(phase, status string) {
	phaseJSON := "null"
	if phase != "" {
		phaseJSON = `"` + phase + `"`
	}
	httpmock.RegisterResponder("POST", testBaseURL+"/api/identity/status",
		httpmock.NewStringResponder(200,
			`{"processId":"p1","identityVerificationPhase":`+phaseJSON+`,"identityVerificationStatus":"`+status+`"}`))
}

func (f *verificationFixture) stubDocumentStatus(docs string) {
	httpmock.RegisterResponder("POST", testBaseURL+"/api/identity/document/status",
		httpmock.NewStringResponder(200, `{"status":"IN_PROGRESS","documents":`+docs+`}`))
}

func (f *verificationFixture) cachedScanProcess(t *testing.T) (string, bool) {
	t.Helper()
	v, ok, err := f.store.Get("scanProcessCache_instance-1")
	require.NoError(t, err)
	return v, ok
}

func TestVerificationRequiresStatusFirst(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()

	_, err := f.flow.ConsentGet(ctx)
	assert.Equal(t, sdkerror.ErrMissingStatus, sdkerror.CodeOf(err))
	_, err = f.flow.VerifyOTP(ctx, "1111")
	assert.Equal(t, sdkerror.ErrMissingStatus, sdkerror.CodeOf(err))
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}

func TestVerificationStatusIntro(t *testing.T) {
	f := newVerificationFixture(t)
	f.stubIdentityStatus("", "NOT_INITIALIZED")

	state, err := f.flow.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.StateIntro, state.Status)
	assert.False(t, state.Terminal())
}

func TestVerificationConsentFlow(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	f.stubIdentityStatus("", "NOT_INITIALIZED")
	_, err := f.flow.Status(ctx)
	require.NoError(t, err)

	httpmock.RegisterResponder("POST", testBaseURL+"/api/identity/consent/text",
		httpmock.NewStringResponder(200, `{"consentText":"please agree"}`))
	state, err := f.flow.ConsentGet(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StateConsent, state.Status)
	assert.Equal(t, "please agree", state.ConsentText)

	approveCalls := 0
	initCalls := 0
	httpmock.RegisterResponder("POST", testBaseURL+"/api/identity/consent/approve",
		func(req *http.Request) (*http.Response, error) {
			approveCalls++
			var body backend.ConsentApproveRequest
			require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
			assert.Equal(t, "p1", body.ProcessID)
			assert.True(t, body.Approved)
			return httpmock.NewStringResponse(200, `{}`), nil
		})
	httpmock.RegisterResponder("POST", testBaseURL+"/api/identity/init",
		func(req *http.Request) (*http.Response, error) {
			initCalls++
			return httpmock.NewStringResponse(200, `{}`), nil
		})

	state, err = f.flow.ConsentApprove(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, model.StateDocumentsToScanSelect, state.Status)
	// Approval and initialization are one user-visible step.
	assert.Equal(t, 1, approveCalls)
	assert.Equal(t, 1, initCalls)
}

func TestVerificationConsentDeclined(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	f.stubIdentityStatus("", "NOT_INITIALIZED")
	_, err := f.flow.Status(ctx)
	require.NoError(t, err)

	httpmock.RegisterResponder("POST", testBaseURL+"/api/identity/consent/approve",
		httpmock.NewStringResponder(200, `{}`))

	state, err := f.flow.ConsentApprove(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, model.StateIntro, state.Status)
	// Declining never initializes the verification.
	info := httpmock.GetCallCountInfo()
	assert.Zero(t, info["POST "+testBaseURL+"/api/identity/init"])
}

func TestVerificationSelectTypesPersistsProcess(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	f.stubIdentityStatus("DOCUMENT_UPLOAD", "IN_PROGRESS")
	f.stubDocumentStatus(`[]`)
	_, err := f.flow.Status(ctx)
	require.NoError(t, err)

	state, err := f.flow.DocumentsSetSelectedTypes([]model.DocumentType{model.DocumentTypeIDCard, model.DocumentTypePassport})
	require.NoError(t, err)
	assert.Equal(t, model.StateScanDocument, state.Status)
	require.NotNil(t, state.ScanProcess)
	assert.Equal(t, model.DocumentTypeIDCard, state.ScanProcess.NextDocumentToScan().Type)

	cached, ok := f.cachedScanProcess(t)
	assert.True(t, ok)
	assert.Equal(t, "v1:ID_CARD,PASSPORT", cached)

	_, err = f.flow.DocumentsSetSelectedTypes(nil)
	assert.Equal(t, sdkerror.ErrInvalidInput, sdkerror.CodeOf(err))
	_, err = f.flow.DocumentsSetSelectedTypes([]model.DocumentType{model.DocumentTypeIDCard, model.DocumentTypeIDCard})
	assert.Equal(t, sdkerror.ErrInvalidInput, sdkerror.CodeOf(err))
}

func TestVerificationScanReconciliation(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	f.stubIdentityStatus("DOCUMENT_UPLOAD", "IN_PROGRESS")
	f.stubDocumentStatus(`[]`)
	_, err := f.flow.Status(ctx)
	require.NoError(t, err)
	_, err = f.flow.DocumentsSetSelectedTypes([]model.DocumentType{model.DocumentTypeIDCard, model.DocumentTypePassport})
	require.NoError(t, err)

	// idCard front rejected, everything else accepted: back to the scan UI
	// with the idCard first in line.
	f.stubDocumentStatus(`[
		{"id":"d1","type":"ID_CARD","side":"FRONT","status":"REJECTED","errors":["blurry"]},
		{"id":"d2","type":"ID_CARD","side":"BACK","status":"ACCEPTED"},
		{"id":"d3","type":"PASSPORT","side":"FRONT","status":"ACCEPTED"}
	]`)
	state, err := f.flow.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StateScanDocument, state.Status)
	require.NotNil(t, state.ScanProcess)
	next := state.ScanProcess.NextDocumentToScan()
	require.NotNil(t, next)
	assert.Equal(t, model.DocumentTypeIDCard, next.Type)

	// Calling again with the unchanged backend response is idempotent.
	again, err := f.flow.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, state.Status, again.Status)
	assert.Equal(t, model.DocumentTypeIDCard, again.ScanProcess.NextDocumentToScan().Type)
	cached, _ := f.cachedScanProcess(t)
	assert.Equal(t, "v1:ID_CARD,PASSPORT", cached)
}

func TestVerificationScanStatesWithoutLocalProcess(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	f.stubIdentityStatus("DOCUMENT_UPLOAD", "IN_PROGRESS")

	// No cache, nothing uploaded: pick document types.
	f.stubDocumentStatus(`[]`)
	state, err := f.flow.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StateDocumentsToScanSelect, state.Status)

	// No cache but uploads exist: the local session is unrecoverable.
	f.stubDocumentStatus(`[{"id":"d1","type":"ID_CARD","side":"FRONT","status":"ACCEPTED"}]`)
	state, err = f.flow.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StateFailed, state.Status)
}

// An empty backend document list while a local selection exists re-presents
// the scan UI. Earlier revisions treated this as a failure; the scan-needed
// reading matches nothing having been uploaded yet for this session.
func TestVerificationScanEmptyBackendListWithProcess(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	f.stubIdentityStatus("DOCUMENT_UPLOAD", "IN_PROGRESS")
	f.stubDocumentStatus(`[]`)
	_, err := f.flow.Status(ctx)
	require.NoError(t, err)
	_, err = f.flow.DocumentsSetSelectedTypes([]model.DocumentType{model.DocumentTypePassport})
	require.NoError(t, err)

	state, err := f.flow.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StateScanDocument, state.Status)
	assert.Equal(t, model.DocumentTypePassport, state.ScanProcess.NextDocumentToScan().Type)
}

func TestVerificationScanProcessingStates(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	f.stubIdentityStatus("DOCUMENT_UPLOAD", "IN_PROGRESS")
	f.stubDocumentStatus(`[]`)
	_, err := f.flow.Status(ctx)
	require.NoError(t, err)
	_, err = f.flow.DocumentsSetSelectedTypes([]model.DocumentType{model.DocumentTypePassport})
	require.NoError(t, err)

	// Mid-pipeline documents report verification in progress.
	f.stubDocumentStatus(`[{"id":"d1","type":"PASSPORT","side":"FRONT","status":"VERIFICATION_PENDING"}]`)
	state, err := f.flow.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StateProcessing, state.Status)
	assert.Equal(t, model.ReasonDocumentVerification, state.ProcessingReason)

	// Any mid-pipeline sub-state keeps reporting processing.
	f.stubDocumentStatus(`[{"id":"d1","type":"PASSPORT","side":"FRONT","status":"UPLOAD_IN_PROGRESS"}]`)
	state, err = f.flow.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StateProcessing, state.Status)
	assert.Equal(t, model.ReasonDocumentVerification, state.ProcessingReason)

	// Everything accepted moves on to processing the acceptance.
	f.stubDocumentStatus(`[{"id":"d1","type":"PASSPORT","side":"FRONT","status":"ACCEPTED"}]`)
	state, err = f.flow.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StateProcessing, state.Status)
	assert.Equal(t, model.ReasonDocumentAccepted, state.ProcessingReason)
}

func TestVerificationScanPartialUploadKeepsScanUI(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	f.stubIdentityStatus("DOCUMENT_UPLOAD", "IN_PROGRESS")
	f.stubDocumentStatus(`[]`)
	_, err := f.flow.Status(ctx)
	require.NoError(t, err)
	_, err = f.flow.DocumentsSetSelectedTypes([]model.DocumentType{model.DocumentTypePassport, model.DocumentTypeDriversLicense})
	require.NoError(t, err)

	// The passport passed but the license was never uploaded: keep scanning.
	f.stubDocumentStatus(`[{"id":"d1","type":"PASSPORT","side":"FRONT","status":"ACCEPTED"}]`)
	state, err := f.flow.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StateScanDocument, state.Status)
	assert.Equal(t, model.DocumentTypeDriversLicense, state.ScanProcess.NextDocumentToScan().Type)
}

func TestVerificationTerminalStatusPurgesScanCache(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	f.stubIdentityStatus("DOCUMENT_UPLOAD", "IN_PROGRESS")
	f.stubDocumentStatus(`[]`)
	_, err := f.flow.Status(ctx)
	require.NoError(t, err)
	_, err = f.flow.DocumentsSetSelectedTypes([]model.DocumentType{model.DocumentTypeIDCard})
	require.NoError(t, err)
	_, ok := f.cachedScanProcess(t)
	require.True(t, ok)

	f.stubIdentityStatus("", "FAILED")
	state, err := f.flow.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StateFailed, state.Status)

	_, ok = f.cachedScanProcess(t)
	assert.False(t, ok)
}

func TestVerificationDocumentsSubmit(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	f.stubIdentityStatus("DOCUMENT_UPLOAD", "IN_PROGRESS")
	f.stubDocumentStatus(`[]`)
	_, err := f.flow.Status(ctx)
	require.NoError(t, err)
	_, err = f.flow.DocumentsSetSelectedTypes([]model.DocumentType{model.DocumentTypeIDCard})
	require.NoError(t, err)

	var submitted backend.DocumentSubmitRequest
	httpmock.RegisterResponder("POST", testBaseURL+"/api/identity/document/submit",
		func(req *http.Request) (*http.Response, error) {
			require.NoError(t, json.NewDecoder(req.Body).Decode(&submitted))
			return httpmock.NewStringResponse(200, `{}`), nil
		})

	var progressCalls int
	state, err := f.flow.DocumentsSubmit(ctx, []model.DocumentFile{
		{Data: []byte("front"), Type: model.DocumentTypeIDCard, Side: model.DocumentSideFront},
		{Data: []byte("back"), Type: model.DocumentTypeIDCard, Side: model.DocumentSideBack},
	}, func(done, total int) {
		progressCalls++
		assert.Equal(t, 2, total)
	})
	require.NoError(t, err)
	assert.Equal(t, model.StateProcessing, state.Status)
	assert.Equal(t, 2, progressCalls)

	assert.Equal(t, "p1", submitted.ProcessID)
	assert.False(t, submitted.Resubmit)
	assert.NotEmpty(t, submitted.Data)
	require.Len(t, submitted.Documents, 2)
	assert.Equal(t, "id_card_front.jpg", submitted.Documents[0].Filename)
	assert.Equal(t, "id_card_back.jpg", submitted.Documents[1].Filename)
}

func TestVerificationDocumentsResubmitCarriesServerIDs(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	f.stubIdentityStatus("DOCUMENT_UPLOAD", "IN_PROGRESS")
	f.stubDocumentStatus(`[]`)
	_, err := f.flow.Status(ctx)
	require.NoError(t, err)
	_, err = f.flow.DocumentsSetSelectedTypes([]model.DocumentType{model.DocumentTypeIDCard})
	require.NoError(t, err)

	// A rejected front exists on the backend; the resubmission must overwrite it.
	f.stubDocumentStatus(`[
		{"id":"d1","type":"ID_CARD","side":"FRONT","status":"REJECTED","errors":["glare"]},
		{"id":"d2","type":"ID_CARD","side":"BACK","status":"ACCEPTED"}
	]`)
	_, err = f.flow.Status(ctx)
	require.NoError(t, err)

	var submitted backend.DocumentSubmitRequest
	httpmock.RegisterResponder("POST", testBaseURL+"/api/identity/document/submit",
		func(req *http.Request) (*http.Response, error) {
			require.NoError(t, json.NewDecoder(req.Body).Decode(&submitted))
			return httpmock.NewStringResponse(200, `{}`), nil
		})

	_, err = f.flow.DocumentsSubmit(ctx, []model.DocumentFile{
		{Data: []byte("front2"), Type: model.DocumentTypeIDCard, Side: model.DocumentSideFront},
	}, nil)
	require.NoError(t, err)

	assert.True(t, submitted.Resubmit)
	require.Len(t, submitted.Documents, 1)
	assert.Equal(t, "d1", submitted.Documents[0].OriginalDocumentID)
}

func TestVerificationPresenceCheck(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	f.stubIdentityStatus("PRESENCE_CHECK", "NOT_INITIALIZED")
	state, err := f.flow.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StatePresenceCheck, state.Status)

	httpmock.RegisterResponder("POST", testBaseURL+"/api/identity/presence-check/init",
		httpmock.NewStringResponder(200, `{"sessionAttributes":{"token":"abc"}}`))
	attrs, err := f.flow.PresenceCheckInit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", attrs["token"])

	httpmock.RegisterResponder("POST", testBaseURL+"/api/identity/presence-check/submit",
		httpmock.NewStringResponder(200, `{}`))
	state, err = f.flow.PresenceCheckSubmit(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StateProcessing, state.Status)
	assert.Equal(t, model.ReasonVerifyingPresence, state.ProcessingReason)
}

func TestVerificationOTPScenario(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	f.stubIdentityStatus("OTP_VERIFICATION", "VERIFICATION_PENDING")

	state, err := f.flow.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StateOtp, state.Status)
	assert.Nil(t, state.RemainingOtpAttempts)

	httpmock.RegisterResponder("POST", testBaseURL+"/api/identity/otp/verify",
		httpmock.NewStringResponder(200, `{"verified":false,"expired":false,"remainingAttempts":2}`))
	state, err = f.flow.VerifyOTP(ctx, "1111")
	require.NoError(t, err)
	assert.Equal(t, model.StateOtp, state.Status)
	assert.Equal(t, ptr.Int(2), state.RemainingOtpAttempts)

	httpmock.RegisterResponder("POST", testBaseURL+"/api/identity/otp/verify",
		httpmock.NewStringResponder(200, `{"verified":true}`))
	state, err = f.flow.VerifyOTP(ctx, "2222")
	require.NoError(t, err)
	assert.Equal(t, model.StateProcessing, state.Status)
	assert.Equal(t, model.ReasonOther, state.ProcessingReason)
}

func TestVerificationOTPFailed(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	f.stubIdentityStatus("OTP_VERIFICATION", "VERIFICATION_PENDING")
	_, err := f.flow.Status(ctx)
	require.NoError(t, err)

	httpmock.RegisterResponder("POST", testBaseURL+"/api/identity/otp/verify",
		httpmock.NewStringResponder(200, `{"verified":false,"expired":true,"remainingAttempts":2}`))
	_, err = f.flow.VerifyOTP(ctx, "1111")
	assert.Equal(t, sdkerror.ErrOTPFailed, sdkerror.CodeOf(err))

	httpmock.RegisterResponder("POST", testBaseURL+"/api/identity/otp/verify",
		httpmock.NewStringResponder(200, `{"verified":false,"expired":false,"remainingAttempts":0}`))
	_, err = f.flow.VerifyOTP(ctx, "1111")
	assert.Equal(t, sdkerror.ErrOTPFailed, sdkerror.CodeOf(err))
}

func TestVerificationRestartAndCancel(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	f.stubIdentityStatus("DOCUMENT_UPLOAD", "IN_PROGRESS")
	f.stubDocumentStatus(`[]`)
	_, err := f.flow.Status(ctx)
	require.NoError(t, err)
	_, err = f.flow.DocumentsSetSelectedTypes([]model.DocumentType{model.DocumentTypeIDCard})
	require.NoError(t, err)

	httpmock.RegisterResponder("POST", testBaseURL+"/api/identity/cleanup",
		httpmock.NewStringResponder(200, `{}`))
	state, err := f.flow.RestartVerification(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StateIntro, state.Status)
	_, ok := f.cachedScanProcess(t)
	assert.False(t, ok)

	httpmock.RegisterResponder("POST", testBaseURL+"/api/onboarding/cleanup",
		httpmock.NewStringResponder(200, `{}`))
	state, err = f.flow.CancelWholeProcess(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StateEndstate, state.Status)
	assert.Equal(t, model.EndstateCancelled, state.EndstateReason)
	assert.True(t, state.Terminal())
}

func TestVerificationTerminalStages(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()

	f.stubIdentityStatus("COMPLETED", "ACCEPTED")
	state, err := f.flow.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StateSuccess, state.Status)
	assert.True(t, state.Terminal())

	f.stubIdentityStatus("COMPLETED", "REJECTED")
	state, err = f.flow.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StateEndstate, state.Status)
	assert.Equal(t, model.EndstateRejected, state.EndstateReason)
}

func TestVerificationContractViolationSurfaces(t *testing.T) {
	f := newVerificationFixture(t)
	f.stubIdentityStatus("OTP_VERIFICATION", "ACCEPTED")

	_, err := f.flow.Status(context.Background())
	assert.Equal(t, sdkerror.ErrContractViolation, sdkerror.CodeOf(err))
}

func TestVerificationRecoversActivationNotActive(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()

	httpmock.RegisterResponder("POST", testBaseURL+"/api/identity/status",
		httpmock.NewStringResponder(500, `{"status":"ERROR","responseObject":{"message":"broken"}}`))
	f.credential.valid = false

	_, err := f.flow.Status(ctx)
	assert.Equal(t, sdkerror.ErrActivationNotActive, sdkerror.CodeOf(err))
	assert.Equal(t, 1, f.observer.count())
}

func TestVerificationRateLimitMapsToEndstate(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()

	httpmock.RegisterResponder("POST", testBaseURL+"/api/identity/status",
		httpmock.NewStringResponder(429, `{}`))

	_, err := f.flow.Status(ctx)
	e := sdkerror.Of(err)
	require.NotNil(t, e)
	assert.Equal(t, sdkerror.ErrRateLimited, e.Code)
	require.NotNil(t, e.State)
	assert.Equal(t, model.StateEndstate, e.State.Status)
	assert.Equal(t, model.EndstateLimitReached, e.State.EndstateReason)
}

func TestVerificationDocumentsInitSDK(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	f.stubIdentityStatus("DOCUMENT_UPLOAD", "IN_PROGRESS")
	f.stubDocumentStatus(`[]`)
	_, err := f.flow.Status(ctx)
	require.NoError(t, err)

	httpmock.RegisterResponder("POST", testBaseURL+"/api/identity/document/init-sdk",
		func(req *http.Request) (*http.Response, error) {
			var body backend.DocumentInitSDKRequest
			require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
			assert.Equal(t, "challenge-1", body.Attributes["sdk-init-token"])
			return httpmock.NewStringResponse(200, `{"attributes":{"sdk-init-token":"token-1"}}`), nil
		})

	attrs, err := f.flow.DocumentsInitSDK(ctx, "challenge-1")
	require.NoError(t, err)
	assert.Equal(t, "token-1", attrs["sdk-init-token"])
}
