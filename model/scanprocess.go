package model

import (
	"fmt"
	"strings"
)

// scanCacheVersionV1 tags the persisted scan process form. Unknown versions are
// treated as a cache miss so newer serializations never crash older readers.
const scanCacheVersionV1 = "v1"

// SideUpload is the latest backend result recorded for one uploaded side.
type SideUpload struct {
	DocumentID string       `json:"document_id"`
	Side       DocumentSide `json:"side"`
	Errors     []string     `json:"errors,omitempty"`
}

// State derives the side state from the recorded errors: any error rejects the
// side, otherwise it counts as accepted.
func (u SideUpload) State() SideState {
	if len(u.Errors) > 0 {
		return SideStateRejected
	}
	return SideStateAccepted
}

// ScanDocument tracks the upload state of one selected document type across
// its required sides.
type ScanDocument struct {
	Type    DocumentType `json:"type"`
	Uploads []SideUpload `json:"uploads,omitempty"`
}

// State aggregates the per-side states: rejected wins over accepted, and a
// document with no recorded sides is not uploaded at all.
func (d *ScanDocument) State() SideState {
	if len(d.Uploads) == 0 {
		return SideStateNotUploaded
	}
	for _, u := range d.Uploads {
		if u.State() == SideStateRejected {
			return SideStateRejected
		}
	}
	if len(d.Uploads) < len(d.Type.Sides()) {
		return SideStateNotUploaded
	}
	return SideStateAccepted
}

// ServerIDFor returns the server-assigned document id recorded for a side, or
// empty when the side has not been uploaded. Used to carry the id forward on
// resubmission.
func (d *ScanDocument) ServerIDFor(side DocumentSide) string {
	for _, u := range d.Uploads {
		if u.Side == side {
			return u.DocumentID
		}
	}
	return ""
}

// ScanProcess tracks which document types the user chose to scan and the last
// known backend state of each required side. Only the ordered type list is
// persisted; side ids and error detail are always re-fetched from the backend.
type ScanProcess struct {
	Documents []*ScanDocument `json:"documents"`
}

// NewScanProcess creates a fresh process for exactly the given type list,
// preserving order.
func NewScanProcess(types []DocumentType) *ScanProcess {
	p := &ScanProcess{}
	for _, t := range types {
		p.Documents = append(p.Documents, &ScanDocument{Type: t})
	}
	return p
}

// Types returns the ordered selected type list.
func (p *ScanProcess) Types() []DocumentType {
	types := make([]DocumentType, 0, len(p.Documents))
	for _, d := range p.Documents {
		types = append(types, d.Type)
	}
	return types
}

// Feed replaces the recorded per-side results with the backend's latest
// document list, grouped by document type. Entries for types outside the
// selection are ignored.
func (p *ScanProcess) Feed(docs []ServerDocument) {
	for _, d := range p.Documents {
		d.Uploads = nil
	}
	for _, sd := range docs {
		doc := p.document(sd.Type)
		if doc == nil {
			continue
		}
		doc.Uploads = append(doc.Uploads, SideUpload{
			DocumentID: sd.ID,
			Side:       sd.Side,
			Errors:     sd.Errors,
		})
	}
}

// NextDocumentToScan returns the first document whose aggregate state is not
// accepted, or nil when every selected document is done.
func (p *ScanProcess) NextDocumentToScan() *ScanDocument {
	for _, d := range p.Documents {
		if d.State() != SideStateAccepted {
			return d
		}
	}
	return nil
}

// AllAccepted reports whether every selected document has all required sides
// accepted.
func (p *ScanProcess) AllAccepted() bool {
	return len(p.Documents) > 0 && p.NextDocumentToScan() == nil
}

func (p *ScanProcess) document(t DocumentType) *ScanDocument {
	for _, d := range p.Documents {
		if d.Type == t {
			return d
		}
	}
	return nil
}

// DataForCache serializes the process to its compact persisted form,
// "v1:<comma-separated type codes>".
func (p *ScanProcess) DataForCache() string {
	codes := make([]string, 0, len(p.Documents))
	for _, d := range p.Documents {
		codes = append(codes, string(d.Type))
	}
	return fmt.Sprintf("%s:%s", scanCacheVersionV1, strings.Join(codes, ","))
}

// RestoreScanProcess rebuilds a process from its persisted form. It returns
// ok=false for an unknown version or malformed payload; callers treat that as
// a cache miss, never as an error.
func RestoreScanProcess(data string) (*ScanProcess, bool) {
	version, payload, found := strings.Cut(data, ":")
	if !found || version != scanCacheVersionV1 || payload == "" {
		return nil, false
	}
	var types []DocumentType
	for _, code := range strings.Split(payload, ",") {
		t := DocumentType(strings.TrimSpace(code))
		if !t.Known() {
			return nil, false
		}
		types = append(types, t)
	}
	return NewScanProcess(types), true
}
