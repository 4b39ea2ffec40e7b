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

// Package cephfetcher implements the NginxCephFetchProvider. It downloads a gzip compressed tar
// archive, typically served by nginx in front of a Ceph RGW bucket, and hands the first JSON
// document found in it to OPAL.
package cephfetcher

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/permitio/opal-fetcher-ceph/internal/archive"
	"github.com/permitio/opal-fetcher-ceph/internal/fetcher"
	"github.com/permitio/opal-fetcher-ceph/internal/source"
	_ "github.com/permitio/opal-fetcher-ceph/internal/source/blobsource" // s3, gs and azblob urls
	_ "github.com/permitio/opal-fetcher-ceph/internal/source/httpsource" // http and https urls
	"github.com/permitio/opal-fetcher-ceph/internal/x/errorchain"
)

const Name = "NginxCephFetchProvider"

// nolint: gochecknoinits
func init() {
	fetcher.Register(Name, NewProvider)
}

type provider struct {
	url     string
	fetcher *archive.Fetcher
	logger  zerolog.Logger
}

func NewProvider(event fetcher.Event, settings fetcher.Settings, logger zerolog.Logger) (fetcher.Provider, error) {
	conf, err := decodeConfig(event.Config)
	if err != nil {
		return nil, err
	}

	ep, maxSize := conf.ConnectionParams.toEndpoint(settings)

	return &provider{
		url:     event.URL,
		fetcher: archive.NewFetcher(source.DefaultRegistry(), ep, maxSize),
		logger:  logger,
	}, nil
}

func (p *provider) Fetch(ctx context.Context) ([]byte, error) {
	if len(p.url) == 0 {
		p.logger.Warn().
			Msg("incomplete fetcher config: fetcher requires a url to specify from where data to fetch")

		return nil, nil
	}

	p.logger.Debug().Msg("Fetching archive")

	return p.fetcher.FetchJSON(ctx, p.url)
}

func (p *provider) Process(_ context.Context, data []byte) (any, error) {
	var result any

	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errorchain.NewWithMessage(fetcher.ErrParse, "archive member is not a valid json document").
			CausedBy(err)
	}

	return result, nil
}
