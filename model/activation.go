package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ActivationStatus mirrors the backend onboarding status one to one.
type ActivationStatus string

const (
	ActivationStatusActivationInProgress   ActivationStatus = "ACTIVATION_IN_PROGRESS"
	ActivationStatusVerificationInProgress ActivationStatus = "VERIFICATION_IN_PROGRESS"
	ActivationStatusFailed                 ActivationStatus = "FAILED"
	ActivationStatusFinished               ActivationStatus = "FINISHED"
)

// StartCredentials is the caller-supplied identification payload posted when
// starting an activation. The SDK forwards it verbatim; the backend decides
// which weak identifiers it accepts.
type StartCredentials map[string]interface{}

// UserCredentials builds the common userID plus birth date identification shape.
func UserCredentials(userID, birthDate string) StartCredentials {
	return StartCredentials{
		"userID":    userID,
		"birthDate": birthDate,
	}
}

// Validate rejects an empty identification payload before any network call.
func (c StartCredentials) Validate() error {
	return validation.Validate(map[string]interface{}(c),
		validation.Required.Error("identification payload must not be empty"))
}
