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

// Package httpsource downloads archives from HTTP(S) servers, like the nginx frontend typically
// placed in front of a Ceph RGW bucket.
package httpsource

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/permitio/opal-fetcher-ceph/internal/endpoint"
	"github.com/permitio/opal-fetcher-ceph/internal/fetcher"
	"github.com/permitio/opal-fetcher-ceph/internal/source"
	"github.com/permitio/opal-fetcher-ceph/internal/x/errorchain"
)

// nolint: gochecknoinits
func init() {
	factory := source.FactoryFunc(NewSource)

	source.Register("http", factory)
	source.Register("https", factory)
}

type httpSource struct {
	ep endpoint.Endpoint
	id string
}

func NewSource(ep endpoint.Endpoint) (source.Source, error) {
	if err := ep.Validate(); err != nil {
		return nil, err
	}

	target, err := url.Parse(ep.URL)
	if err != nil {
		return nil, errorchain.NewWithMessage(fetcher.ErrConfiguration, "failed to parse archive url").
			CausedBy(err)
	}

	return &httpSource{ep: ep, id: target.Redacted()}, nil
}

func (s *httpSource) ID() string { return s.id }

func (s *httpSource) Open(ctx context.Context) (io.ReadCloser, error) {
	logger := zerolog.Ctx(ctx)

	req, err := s.ep.CreateRequest(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.ep.CreateClient(req.URL.Hostname()).Do(req) //nolint:bodyclose
	if err != nil {
		var urlError *url.Error
		if errors.As(err, &urlError) && urlError.Timeout() {
			return nil, errorchain.NewWithMessage(fetcher.ErrCommunicationTimeout,
				"request to archive endpoint timed out").CausedBy(err)
		}

		return nil, errorchain.NewWithMessage(fetcher.ErrCommunication,
			"request to archive endpoint failed").CausedBy(err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		resp.Body.Close()

		return nil, errorchain.NewWithMessagef(fetcher.ErrCommunication,
			"unexpected response code: %v", resp.StatusCode)
	}

	logger.Debug().
		Str("_source", s.id).
		Int64("_content_length", resp.ContentLength).
		Msg("Archive endpoint responded")

	return resp.Body, nil
}
