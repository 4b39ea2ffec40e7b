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
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/permitio/opal-fetcher-ceph/internal/x/httpx"
)

// Runner drives a provider through its lifecycle for a single event.
type Runner struct {
	registry *Registry
	settings Settings
	metrics  *Metrics
}

// NewRunner creates a runner. metrics is optional.
func NewRunner(registry *Registry, settings Settings, metrics *Metrics) *Runner {
	return &Runner{registry: registry, settings: settings, metrics: metrics}
}

func (r *Runner) Run(ctx context.Context, event Event) Result {
	logger := zerolog.Ctx(ctx).With().
		Str("_fetcher", event.Fetcher).
		Str("_url", redactURL(event.URL)).
		Logger()

	ctx, attempts := httpx.WithAttemptCounter(logger.WithContext(ctx))
	start := time.Now()
	result := Result{Fetcher: event.Fetcher, URL: event.URL}

	logger.Debug().Msg("Running fetch")

	provider, err := r.registry.Create(event, r.settings, logger)
	if err == nil {
		result.Data, result.Skipped, result.Err = r.execute(ctx, logger, provider)
	} else {
		result.Err = err
	}

	result.Attempts = attempts.Count()
	result.Duration = time.Since(start)

	if r.metrics != nil {
		r.metrics.observe(result)
	}

	switch {
	case result.Err != nil:
		logger.Warn().Err(result.Err).
			Str("_kind", Classify(result.Err)).
			Int("_attempts", result.Attempts).
			Msg("Fetch failed")
	case result.Skipped:
		logger.Debug().Msg("Fetch skipped")
	default:
		logger.Info().
			Int("_attempts", result.Attempts).
			Dur("_duration", result.Duration).
			Msg("Fetch succeeded")
	}

	return result
}

func (r *Runner) execute(ctx context.Context, logger zerolog.Logger, provider Provider) (
	data any, skipped bool, err error,
) {
	if opener, ok := provider.(Opener); ok {
		if err = opener.Open(ctx); err != nil {
			return nil, false, err
		}
	}

	if closer, ok := provider.(Closer); ok {
		defer func() {
			if cerr := closer.Close(ctx); cerr != nil {
				if err == nil {
					err = cerr
				} else {
					logger.Warn().Err(cerr).Msg("Failed to close fetcher")
				}
			}
		}()
	}

	raw, err := provider.Fetch(ctx)
	if err != nil {
		return nil, false, err
	}

	if raw == nil {
		return nil, true, nil
	}

	data, err = provider.Process(ctx, raw)
	if err != nil {
		return nil, false, err
	}

	return data, false, nil
}

func redactURL(raw string) string {
	target, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	return target.Redacted()
}
