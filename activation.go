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

	"github.com/sirupsen/logrus"

	"github.com/identio/onboarding-go/backend"
	"github.com/identio/onboarding-go/internal/sdkerror"
	"github.com/identio/onboarding-go/internal/serializer"
	"github.com/identio/onboarding-go/internal/storage"
	"github.com/identio/onboarding-go/model"
)

// ActivationService drives the credential activation flow: start an onboarding
// process with weak identifiers, poll its status, answer the out-of-band OTP
// and finish (or cancel) the activation.
//
// Every public operation is funneled through a strictly ordered single
// concurrency queue, so two calls can never overlap and race on the persisted
// process identifier. An operation holds the queue until its network round
// trip and local state mutation both finished.
type ActivationService struct {
	api        *backend.Client
	credential CredentialService
	processIDs *storage.ProcessIDStore
	queue      *serializer.Queue
}

func newActivationService(api *backend.Client, credential CredentialService, processIDs *storage.ProcessIDStore) *ActivationService {
	return &ActivationService{
		api:        api,
		credential: credential,
		processIDs: processIDs,
		queue:      serializer.New(),
	}
}

// Close shuts the request queue down. Subsequent calls fail.
func (s *ActivationService) Close() {
	s.queue.Close()
}

// HasActiveProcess reports whether a process identifier is persisted. The
// stored value, not an in-memory flag, is the canonical signal, so the answer
// survives process restarts.
func (s *ActivationService) HasActiveProcess() (bool, error) {
	_, ok, err := s.processIDs.Get()
	return ok, err
}

// Status queries the backend for the state of the running onboarding process.
// It fails with NOT_RUNNING when no process identifier is stored and with
// CANNOT_ACTIVATE when the credential reports it can no longer start an
// activation; the latter clears the stored identifier because the credential
// state is authoritative.
func (s *ActivationService) Status(ctx context.Context) (model.ActivationStatus, error) {
	var status model.ActivationStatus
	err := s.queue.Run(ctx, func(ctx context.Context) error {
		processID, err := s.requireProcess()
		if err != nil {
			return err
		}
		resp, err := s.api.OnboardingStatus(ctx, processID)
		if err != nil {
			return err
		}
		status = resp.Status
		return nil
	})
	return status, err
}

// Start begins a new onboarding process with the caller-supplied
// identification payload. It fails with IN_PROGRESS when a process identifier
// is already stored; on success the returned identifier is persisted.
func (s *ActivationService) Start(ctx context.Context, credentials model.StartCredentials) error {
	return s.queue.Run(ctx, func(ctx context.Context) error {
		if err := credentials.Validate(); err != nil {
			return sdkerror.Wrap(sdkerror.ErrInvalidInput, err, "invalid start credentials")
		}
		if _, ok, err := s.processIDs.Get(); err != nil {
			return err
		} else if ok {
			return sdkerror.New(sdkerror.ErrInProgress, "an onboarding process is already running")
		}
		if !s.credential.CanStartActivation() {
			return sdkerror.New(sdkerror.ErrCannotActivate, "credential cannot start an activation")
		}
		resp, err := s.api.OnboardingStart(ctx, credentials)
		if err != nil {
			return err
		}
		if err := s.processIDs.Set(resp.ProcessID); err != nil {
			return err
		}
		logrus.Debugf("onboarding process %s started", resp.ProcessID)
		return nil
	})
}

// Cancel terminates the running process on the backend and clears the stored
// identifier. When forceCancel is set the identifier is cleared even if the
// backend call fails, so a stuck process can always be abandoned; otherwise a
// backend failure retains the identifier and is surfaced.
func (s *ActivationService) Cancel(ctx context.Context, forceCancel bool) error {
	return s.queue.Run(ctx, func(ctx context.Context) error {
		processID, ok, err := s.processIDs.Get()
		if err != nil {
			return err
		}
		if !ok {
			return sdkerror.New(sdkerror.ErrNotRunning, "no onboarding process is running")
		}
		if err := s.api.OnboardingCleanup(ctx, processID); err != nil {
			if !forceCancel {
				return err
			}
			logrus.Warnf("onboarding cancel failed, clearing process anyway: %v", err)
		}
		return s.processIDs.Clear()
	})
}

// Activate exchanges the received OTP for an issued credential. On success the
// stored identifier is cleared. On failure the identifier is cleared as well,
// unless the error both permits an OTP retry (remaining attempts > 0) and is
// not a pure connectivity failure; only the "wrong OTP, try again" case keeps
// the process alive.
func (s *ActivationService) Activate(ctx context.Context, otp, activationName string) error {
	return s.queue.Run(ctx, func(ctx context.Context) error {
		processID, err := s.requireProcess()
		if err != nil {
			return err
		}
		err = s.credential.CreateActivation(ctx, CreateActivationRequest{
			ProcessID:       processID,
			OTP:             otp,
			CredentialsType: credentialsTypeOnboarding,
			ActivationName:  activationName,
		})
		if err == nil {
			return s.processIDs.Clear()
		}

		remaining := sdkerror.RemainingAttempts(err)
		retryable := remaining != nil && *remaining > 0 && !sdkerror.IsConnectivity(err)
		if !retryable {
			if clearErr := s.processIDs.Clear(); clearErr != nil {
				logrus.Warnf("clearing process after failed activation: %v", clearErr)
			}
		}
		if e := sdkerror.Of(err); e != nil {
			e.AllowRetry = retryable
			return e
		}
		return err
	})
}

// Clear drops the stored process identifier without any network call. It still
// runs through the queue so it cannot interleave with an in-flight operation.
func (s *ActivationService) Clear(ctx context.Context) error {
	return s.queue.Run(ctx, func(context.Context) error {
		return s.processIDs.Clear()
	})
}

// ResendOTP asks the backend to send a fresh activation OTP. Same guards as
// Status; no local state changes.
func (s *ActivationService) ResendOTP(ctx context.Context) error {
	return s.queue.Run(ctx, func(ctx context.Context) error {
		processID, err := s.requireProcess()
		if err != nil {
			return err
		}
		return s.api.OnboardingOTPResend(ctx, processID)
	})
}

// requireProcess loads the stored identifier and applies the shared guards:
// NOT_RUNNING without one, CANNOT_ACTIVATE (with the identifier cleared) when
// the credential can no longer start an activation.
func (s *ActivationService) requireProcess() (string, error) {
	processID, ok, err := s.processIDs.Get()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", sdkerror.New(sdkerror.ErrNotRunning, "no onboarding process is running")
	}
	if !s.credential.CanStartActivation() {
		if clearErr := s.processIDs.Clear(); clearErr != nil {
			logrus.Warnf("clearing unusable process: %v", clearErr)
		}
		return "", sdkerror.New(sdkerror.ErrCannotActivate, "credential cannot start an activation")
	}
	return processID, nil
}
