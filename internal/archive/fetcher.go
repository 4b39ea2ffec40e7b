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

package archive

import (
	"context"
	"errors"
	"io"
	"net"
	"os"

	"github.com/rs/zerolog"

	"github.com/permitio/opal-fetcher-ceph/internal/endpoint"
	"github.com/permitio/opal-fetcher-ceph/internal/fetcher"
	"github.com/permitio/opal-fetcher-ceph/internal/source"
	"github.com/permitio/opal-fetcher-ceph/internal/x/errorchain"
)

const DefaultMaxArchiveSize int64 = 64 << 20

// Fetcher downloads archives via the source responsible for the URL scheme and extracts
// the contained JSON document.
type Fetcher struct {
	sources  source.Factory
	template endpoint.Endpoint
	maxSize  int64
}

// NewFetcher creates a fetcher. template holds the connection settings used for every URL.
// A non-positive maxSize falls back to DefaultMaxArchiveSize.
func NewFetcher(sources source.Factory, template endpoint.Endpoint, maxSize int64) *Fetcher {
	if maxSize <= 0 {
		maxSize = DefaultMaxArchiveSize
	}

	return &Fetcher{sources: sources, template: template, maxSize: maxSize}
}

func (f *Fetcher) FetchJSON(ctx context.Context, url string) ([]byte, error) {
	ep := f.template
	ep.URL = url

	src, err := f.sources.Create(ep)
	if err != nil {
		return nil, err
	}

	data, err := Download(ctx, src, f.maxSize)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("_source", src.ID()).
		Int("_archive_size", len(data)).
		Msg("Archive downloaded")

	return ExtractJSON(data)
}

// Download reads the whole archive of the given source into memory. The stream opened from
// the source is closed exactly once, regardless of the outcome.
func Download(ctx context.Context, src source.Source, limit int64) ([]byte, error) {
	body, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}

	defer body.Close()

	return ReadAll(body, limit)
}

// ReadAll reads r until EOF. Streams exceeding limit bytes are rejected.
func ReadAll(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		if isTimeout(err) {
			return nil, errorchain.NewWithMessage(fetcher.ErrCommunicationTimeout,
				"reading archive timed out").CausedBy(err)
		}

		return nil, errorchain.NewWithMessage(fetcher.ErrCommunication, "failed reading archive").
			CausedBy(err)
	}

	if int64(len(data)) > limit {
		return nil, errorchain.NewWithMessagef(fetcher.ErrFormat,
			"archive exceeds the maximum size of %d bytes", limit)
	}

	return data, nil
}

func isTimeout(err error) bool {
	var netErr net.Error

	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, os.ErrDeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout())
}
