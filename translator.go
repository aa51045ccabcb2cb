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
	"fmt"

	"github.com/identio/onboarding-go/internal/sdkerror"
	"github.com/identio/onboarding-go/model"
)

// TranslateStatus folds the backend's (phase, status) pair into the closed set
// of verification stages. The mapping is total over every pair the backend is
// specified to emit; any other pair is a contract violation and is surfaced as
// a sharp CONTRACT_VIOLATION error, never as a guessed default. The phase is
// nil only before initialization and on an early hard failure.
func TranslateStatus(phase *model.Phase, status model.IdentityStatus) (model.Stage, error) {
	if phase == nil {
		switch status {
		case model.IdentityStatusNotInitialized:
			return stage(model.StageIntro), nil
		case model.IdentityStatusFailed:
			return stage(model.StageFailed), nil
		}
		return model.Stage{}, violation(phase, status)
	}

	switch *phase {
	case model.PhaseDocumentUpload:
		switch status {
		case model.IdentityStatusInProgress:
			return stage(model.StageDocumentScan), nil
		case model.IdentityStatusVerificationPending:
			return statusCheck(model.ReasonDocumentVerification), nil
		case model.IdentityStatusFailed:
			return stage(model.StageFailed), nil
		}

	case model.PhaseDocumentVerification:
		switch status {
		case model.IdentityStatusAccepted:
			return statusCheck(model.ReasonDocumentAccepted), nil
		case model.IdentityStatusInProgress:
			return statusCheck(model.ReasonDocumentVerification), nil
		case model.IdentityStatusFailed:
			return stage(model.StageFailed), nil
		case model.IdentityStatusRejected:
			return stage(model.StageRejected), nil
		}

	case model.PhaseDocumentVerificationFinal:
		switch status {
		case model.IdentityStatusAccepted, model.IdentityStatusInProgress:
			return statusCheck(model.ReasonDocumentsCrossVerification), nil
		case model.IdentityStatusFailed:
			return stage(model.StageFailed), nil
		case model.IdentityStatusRejected:
			return stage(model.StageRejected), nil
		}

	case model.PhaseClientEvaluation:
		switch status {
		case model.IdentityStatusInProgress:
			return statusCheck(model.ReasonClientVerification), nil
		case model.IdentityStatusAccepted:
			return statusCheck(model.ReasonClientAccepted), nil
		case model.IdentityStatusRejected:
			return stage(model.StageRejected), nil
		case model.IdentityStatusFailed:
			return stage(model.StageFailed), nil
		}

	case model.PhasePresenceCheck:
		switch status {
		case model.IdentityStatusNotInitialized, model.IdentityStatusInProgress:
			return stage(model.StagePresenceCheck), nil
		case model.IdentityStatusVerificationPending:
			return statusCheck(model.ReasonVerifyingPresence), nil
		case model.IdentityStatusFailed:
			return stage(model.StageFailed), nil
		case model.IdentityStatusRejected:
			return stage(model.StageRejected), nil
		}

	case model.PhaseOTP:
		if status == model.IdentityStatusVerificationPending {
			return stage(model.StageOtp), nil
		}

	case model.PhaseCompleted:
		switch status {
		case model.IdentityStatusAccepted:
			return stage(model.StageSuccess), nil
		case model.IdentityStatusFailed:
			return stage(model.StageFailed), nil
		case model.IdentityStatusRejected:
			return stage(model.StageRejected), nil
		}
	}

	return model.Stage{}, violation(phase, status)
}

func stage(kind model.StageKind) model.Stage {
	return model.Stage{Kind: kind}
}

func statusCheck(reason model.StatusCheckReason) model.Stage {
	return model.Stage{Kind: model.StageStatusCheck, CheckReason: reason}
}

func violation(phase *model.Phase, status model.IdentityStatus) error {
	name := "<nil>"
	if phase != nil {
		name = string(*phase)
	}
	return sdkerror.New(sdkerror.ErrContractViolation,
		fmt.Sprintf("unexpected verification state %s/%s", name, status))
}
