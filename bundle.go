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
	"archive/zip"
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/identio/onboarding-go/backend"
	"github.com/identio/onboarding-go/internal/sdkerror"
	"github.com/identio/onboarding-go/model"
)

// documentBundle is the result of packing the captured files for upload.
type documentBundle struct {
	// Data is the base64 encoded zip archive.
	Data string
	// Documents is the per-file metadata, in file order.
	Documents []backend.DocumentMetadata
	// Resubmit is set when any file replaces a previously uploaded document.
	Resubmit bool
}

// buildDocumentBundle zips the files under one session-unique folder. Each
// entry is named <type>_<side>.<ext>, which guarantees one file per
// (type, side) pair; a duplicate pair is a caller error. progress, when
// non-nil, is invoked after each file is added.
func buildDocumentBundle(files []model.DocumentFile, progress func(done, total int)) (*documentBundle, error) {
	if len(files) == 0 {
		return nil, sdkerror.New(sdkerror.ErrInvalidInput, "no document files to submit")
	}

	folder := uuid.NewString()
	var buf bytes.Buffer
	archive := zip.NewWriter(&buf)

	bundle := &documentBundle{}
	seen := make(map[string]bool)

	for i, file := range files {
		if err := file.Validate(); err != nil {
			return nil, sdkerror.Wrap(sdkerror.ErrInvalidInput, err, "invalid document file")
		}
		filename := bundleFilename(file)
		if seen[filename] {
			return nil, sdkerror.New(sdkerror.ErrInvalidInput,
				fmt.Sprintf("duplicate document file for %s/%s", file.Type, file.Side))
		}
		seen[filename] = true

		entry, err := archive.Create(folder + "/" + filename)
		if err != nil {
			return nil, sdkerror.Wrap(sdkerror.ErrBundleFailed, err, "creating bundle entry")
		}
		if _, err := entry.Write(file.Data); err != nil {
			return nil, sdkerror.Wrap(sdkerror.ErrBundleFailed, err, "writing bundle entry")
		}

		bundle.Documents = append(bundle.Documents, backend.DocumentMetadata{
			Filename:           filename,
			Type:               file.Type,
			Side:               file.Side,
			OriginalDocumentID: file.OriginalDocumentID,
		})
		if file.OriginalDocumentID != "" {
			bundle.Resubmit = true
		}
		if progress != nil {
			progress(i+1, len(files))
		}
	}

	if err := archive.Close(); err != nil {
		return nil, sdkerror.Wrap(sdkerror.ErrBundleFailed, errors.WithStack(err), "finalizing bundle")
	}
	bundle.Data = base64.StdEncoding.EncodeToString(buf.Bytes())
	return bundle, nil
}

func bundleFilename(file model.DocumentFile) string {
	return fmt.Sprintf("%s_%s.%s",
		strings.ToLower(string(file.Type)),
		strings.ToLower(string(file.Side)),
		file.Extension())
}
