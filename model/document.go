package model

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DocumentType identifies a physical document the user can scan. The set of
// required sides is fixed by the type.
type DocumentType string

const (
	DocumentTypeIDCard         DocumentType = "ID_CARD"
	DocumentTypePassport       DocumentType = "PASSPORT"
	DocumentTypeDriversLicense DocumentType = "DRIVERS_LICENSE"
)

// DocumentSide is one face of a physical document.
type DocumentSide string

const (
	DocumentSideFront DocumentSide = "FRONT"
	DocumentSideBack  DocumentSide = "BACK"
)

// Sides returns the sides the backend requires for the type. An ID card needs
// both faces, the other supported documents only the front.
func (t DocumentType) Sides() []DocumentSide {
	if t == DocumentTypeIDCard {
		return []DocumentSide{DocumentSideFront, DocumentSideBack}
	}
	return []DocumentSide{DocumentSideFront}
}

// Known reports whether the type is one this SDK supports.
func (t DocumentType) Known() bool {
	switch t {
	case DocumentTypeIDCard, DocumentTypePassport, DocumentTypeDriversLicense:
		return true
	}
	return false
}

// SideState is the per-side upload/verification state derived from the latest
// backend document list.
type SideState string

const (
	SideStateNotUploaded SideState = "not_uploaded"
	SideStateAccepted    SideState = "accepted"
	SideStateRejected    SideState = "rejected"
)

// ServerDocumentStatus is the backend's per-document processing sub-state.
type ServerDocumentStatus string

const (
	ServerDocumentAccepted               ServerDocumentStatus = "ACCEPTED"
	ServerDocumentUploadInProgress       ServerDocumentStatus = "UPLOAD_IN_PROGRESS"
	ServerDocumentInProgress             ServerDocumentStatus = "IN_PROGRESS"
	ServerDocumentVerificationPending    ServerDocumentStatus = "VERIFICATION_PENDING"
	ServerDocumentVerificationInProgress ServerDocumentStatus = "VERIFICATION_IN_PROGRESS"
	ServerDocumentRejected               ServerDocumentStatus = "REJECTED"
	ServerDocumentFailed                 ServerDocumentStatus = "FAILED"
)

// ServerDocument is one entry of the backend's document status list.
type ServerDocument struct {
	ID     string               `json:"id"`
	Type   DocumentType         `json:"type"`
	Side   DocumentSide         `json:"side"`
	Status ServerDocumentStatus `json:"status"`
	Errors []string             `json:"errors,omitempty"`
}

// Rejected reports whether the document must be re-uploaded.
func (d ServerDocument) Rejected() bool {
	return d.Status == ServerDocumentRejected || d.Status == ServerDocumentFailed || len(d.Errors) > 0
}

// Waiting reports whether the document is still somewhere mid-pipeline.
func (d ServerDocument) Waiting() bool {
	switch d.Status {
	case ServerDocumentUploadInProgress, ServerDocumentInProgress,
		ServerDocumentVerificationPending, ServerDocumentVerificationInProgress:
		return true
	}
	return false
}

// DocumentFile is one image the caller captured for upload. OriginalDocumentID
// carries a previous server-assigned id when the file replaces a rejected
// upload, so the backend overwrites instead of appending.
type DocumentFile struct {
	Data               []byte       `json:"-"`
	Type               DocumentType `json:"type"`
	Side               DocumentSide `json:"side"`
	OriginalDocumentID string       `json:"originalDocumentId,omitempty"`
	// FileExtension defaults to "jpg" when empty.
	FileExtension string `json:"-"`
}

func (f DocumentFile) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Data, validation.Required.Error("file data must not be empty")),
		validation.Field(&f.Type, validation.By(func(interface{}) error {
			if !f.Type.Known() {
				return errors.New("unknown document type")
			}
			return nil
		})),
		validation.Field(&f.Side, validation.By(func(interface{}) error {
			for _, s := range f.Type.Sides() {
				if s == f.Side {
					return nil
				}
			}
			return errors.New("side is not valid for the document type")
		})),
	)
}

// Extension returns the file extension to embed in the bundle filename.
func (f DocumentFile) Extension() string {
	if f.FileExtension == "" {
		return "jpg"
	}
	return f.FileExtension
}
