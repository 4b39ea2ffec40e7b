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

package fetcher

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Event is a single fetch request as emitted by the host. Config carries the fetcher specific
// part of the event and is decoded by the provider itself.
type Event struct {
	Fetcher string         `json:"fetcher"          mapstructure:"fetcher" validate:"required"`
	URL     string         `json:"url"              mapstructure:"url"`
	Config  map[string]any `json:"config,omitempty" mapstructure:"config"`
}

// Provider fetches raw data for exactly one event and turns it into the value handed to the host.
// Fetch returning nil data and a nil error signals that nothing was fetched.
type Provider interface {
	Fetch(ctx context.Context) ([]byte, error)
	Process(ctx context.Context, data []byte) (any, error)
}

// Opener is implemented by providers which need to acquire resources before fetching.
type Opener interface {
	Open(ctx context.Context) error
}

// Closer is implemented by providers which hold resources between Open and the end of the fetch.
type Closer interface {
	Close(ctx context.Context) error
}

// Settings are application wide defaults applied by providers if the event does not override them.
type Settings struct {
	Timeout        time.Duration
	MaxArchiveSize int64
	Retry          *RetrySettings
}

type RetrySettings struct {
	GiveUpAfter time.Duration
	MaxDelay    time.Duration
	MaxAttempts int
}

type Factory func(event Event, settings Settings, logger zerolog.Logger) (Provider, error)
