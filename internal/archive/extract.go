// Copyright 2025 Dimitrij Drus <dadrus@gmx.de>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package archive retrieves gzip compressed tar archives and extracts the JSON document they carry.
package archive

import (
	"archive/tar"
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/permitio/opal-fetcher-ceph/internal/fetcher"
	"github.com/permitio/opal-fetcher-ceph/internal/x/errorchain"
)

const jsonSuffix = ".json"

// ExtractJSON interprets data as gzip compressed tar archive and returns the contents of the first
// regular member, in stored order, whose name ends with .json.
func ExtractJSON(data []byte) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errorchain.NewWithMessage(fetcher.ErrFormat, "archive is not gzip compressed").
			CausedBy(err)
	}

	defer gz.Close()

	tr := tar.NewReader(gz)

	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, errorchain.NewWithMessage(fetcher.ErrFormat,
				"archive has no member with .json suffix")
		}

		if err != nil {
			return nil, errorchain.NewWithMessage(fetcher.ErrFormat, "archive is not a valid tar stream").
				CausedBy(err)
		}

		if !hdr.FileInfo().Mode().IsRegular() || !strings.HasSuffix(hdr.Name, jsonSuffix) {
			continue
		}

		contents, err := io.ReadAll(tr)
		if err != nil {
			return nil, errorchain.NewWithMessagef(fetcher.ErrFormat,
				"failed reading archive member '%s'", hdr.Name).CausedBy(err)
		}

		return contents, nil
	}
}
