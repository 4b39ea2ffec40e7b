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

package cephfetcher

import (
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/permitio/opal-fetcher-ceph/internal/endpoint"
	"github.com/permitio/opal-fetcher-ceph/internal/endpoint/authstrategy"
	"github.com/permitio/opal-fetcher-ceph/internal/fetcher"
	"github.com/permitio/opal-fetcher-ceph/internal/validation"
	"github.com/permitio/opal-fetcher-ceph/internal/x"
	"github.com/permitio/opal-fetcher-ceph/internal/x/errorchain"
)

// Config is the fetcher specific part of a fetch event.
type Config struct {
	Fetcher          string            `mapstructure:"fetcher"`
	ConnectionParams *ConnectionParams `mapstructure:"connection_params"`
}

// ConnectionParams control how the archive is downloaded. Unset values fall back to the
// application wide fetch settings.
type ConnectionParams struct {
	Headers        map[string]string               `mapstructure:"headers"`
	AuthStrategy   endpoint.AuthenticationStrategy `mapstructure:"auth"`
	Timeout        time.Duration                   `mapstructure:"timeout"          validate:"gte=0"`
	Retry          *endpoint.Retry                 `mapstructure:"retry"`
	MaxArchiveSize int64                           `mapstructure:"max_archive_size" validate:"gte=0"`
}

func decodeConfig(rawConfig map[string]any) (Config, error) {
	var conf Config

	if len(rawConfig) == 0 {
		return conf, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			authstrategy.DecodeAuthenticationStrategyHookFunc(),
		),
		Result:      &conf,
		ErrorUnused: true,
	})
	if err != nil {
		return conf, errorchain.NewWithMessage(fetcher.ErrInternal, "failed creating config decoder").
			CausedBy(err)
	}

	if err = dec.Decode(rawConfig); err != nil {
		return conf, errorchain.NewWithMessage(fetcher.ErrConfiguration, "failed decoding fetcher config").
			CausedBy(err)
	}

	if err = validation.ValidateStruct(conf); err != nil {
		return conf, errorchain.NewWithMessage(fetcher.ErrConfiguration, "invalid fetcher config").
			CausedBy(err)
	}

	if len(conf.Fetcher) != 0 && conf.Fetcher != Name {
		return conf, errorchain.NewWithMessagef(fetcher.ErrConfiguration,
			"fetcher config is for '%s', not for '%s'", conf.Fetcher, Name)
	}

	return conf, nil
}

// toEndpoint merges the connection parameters with the defaults from settings.
func (p *ConnectionParams) toEndpoint(settings fetcher.Settings) (endpoint.Endpoint, int64) {
	ep := endpoint.Endpoint{Timeout: settings.Timeout}
	maxSize := settings.MaxArchiveSize

	if settings.Retry != nil {
		ep.Retry = &endpoint.Retry{
			GiveUpAfter: settings.Retry.GiveUpAfter,
			MaxDelay:    settings.Retry.MaxDelay,
			MaxAttempts: settings.Retry.MaxAttempts,
		}
	}

	if p == nil {
		return ep, maxSize
	}

	ep.Headers = p.Headers
	ep.AuthStrategy = p.AuthStrategy

	ep.Timeout = x.IfThenElse(p.Timeout > 0, p.Timeout, ep.Timeout)
	ep.Retry = x.IfThenElse(p.Retry != nil, p.Retry, ep.Retry)

	return ep, x.IfThenElse(p.MaxArchiveSize > 0, p.MaxArchiveSize, maxSize)
}
