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

package config

import (
	"time"

	"github.com/permitio/opal-fetcher-ceph/internal/fetcher"
	"github.com/permitio/opal-fetcher-ceph/internal/validation"
	"github.com/permitio/opal-fetcher-ceph/internal/x/errorchain"
)

type (
	EnvVarPrefix      string
	ConfigurationPath string
)

type Configuration struct {
	Log     LoggingConfig `koanf:"log"`
	Fetch   FetchConfig   `koanf:"fetch"`
	Metrics MetricsConfig `koanf:"metrics"`
}

type FetchConfig struct {
	DefaultTimeout time.Duration `koanf:"default_timeout"  validate:"gte=0"`
	MaxArchiveSize int64         `koanf:"max_archive_size" validate:"gt=0"`
	Retry          RetryConfig   `koanf:"retry"`
}

// RetryConfig enables retries of the network request if GiveUpAfter is set.
type RetryConfig struct {
	GiveUpAfter time.Duration `koanf:"give_up_after" validate:"gte=0"`
	MaxDelay    time.Duration `koanf:"max_delay"     validate:"required_with=GiveUpAfter,gte=0"`
	MaxAttempts int           `koanf:"max_attempts"  validate:"gte=0"`
}

type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

func (c FetchConfig) Settings() fetcher.Settings {
	settings := fetcher.Settings{
		Timeout:        c.DefaultTimeout,
		MaxArchiveSize: c.MaxArchiveSize,
	}

	if c.Retry.GiveUpAfter > 0 {
		settings.Retry = &fetcher.RetrySettings{
			GiveUpAfter: c.Retry.GiveUpAfter,
			MaxDelay:    c.Retry.MaxDelay,
			MaxAttempts: c.Retry.MaxAttempts,
		}
	}

	return settings
}

func NewConfiguration(envPrefix EnvVarPrefix, configFile ConfigurationPath) (*Configuration, error) {
	// copy defaults
	result := defaultConfig()

	if err := load(&result, string(envPrefix), string(configFile)); err != nil {
		return nil, err
	}

	if err := validation.ValidateStruct(result); err != nil {
		return nil, errorchain.NewWithMessage(fetcher.ErrConfiguration, "invalid configuration").
			CausedBy(err)
	}

	return &result, nil
}
