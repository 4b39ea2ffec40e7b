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

package endpoint

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/ybbus/httpretry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/permitio/opal-fetcher-ceph/internal/fetcher"
	"github.com/permitio/opal-fetcher-ceph/internal/validation"
	"github.com/permitio/opal-fetcher-ceph/internal/x/errorchain"
	"github.com/permitio/opal-fetcher-ceph/internal/x/httpx"
)

// Endpoint describes where and how an archive is downloaded via HTTP(S).
type Endpoint struct {
	URL          string                 `mapstructure:"url"     validate:"required,url"`
	Retry        *Retry                 `mapstructure:"retry"`
	AuthStrategy AuthenticationStrategy `mapstructure:"auth"`
	Headers      map[string]string      `mapstructure:"headers"`
	Timeout      time.Duration          `mapstructure:"timeout" validate:"gte=0"`
}

// Retry configures the backoff applied to the network request only. Failures of the
// subsequent archive extraction or JSON parsing never trigger another request.
type Retry struct {
	GiveUpAfter time.Duration `mapstructure:"give_up_after" validate:"gt=0"`
	MaxDelay    time.Duration `mapstructure:"max_delay"     validate:"gt=0"`
	MaxAttempts int           `mapstructure:"max_attempts"  validate:"gte=0"`
}

func (e Endpoint) Validate() error {
	if err := validation.ValidateStruct(e); err != nil {
		return errorchain.NewWithMessage(fetcher.ErrConfiguration, "invalid endpoint configuration").
			CausedBy(err)
	}

	return nil
}

func (e Endpoint) CreateClient(peerName string) *http.Client {
	client := &http.Client{
		Timeout: e.Timeout,
		Transport: httpx.NewCountingRoundTripper(
			otelhttp.NewTransport(
				httpx.NewTraceRoundTripper(http.DefaultTransport),
				otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
					return fmt.Sprintf("%s %s %s @%s", r.Proto, r.Method, r.URL.Path, peerName)
				}),
			),
		),
	}

	if e.Retry != nil {
		opts := []httpretry.Option{
			httpretry.WithBackoffPolicy(
				httpretry.ExponentialBackoff(e.Retry.MaxDelay, e.Retry.GiveUpAfter, 0)),
		}

		if e.Retry.MaxAttempts > 0 {
			opts = append(opts, httpretry.WithMaxRetryCount(e.Retry.MaxAttempts-1))
		}

		client = httpretry.NewCustomClient(client, opts...)
	}

	return client
}

func (e Endpoint) CreateRequest(ctx context.Context) (*http.Request, error) {
	logger := zerolog.Ctx(ctx)

	logger.Debug().Str("_endpoint", e.URL).Msg("Creating request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.URL, nil)
	if err != nil {
		return nil, errorchain.
			NewWithMessage(fetcher.ErrConfiguration, "failed to create a request instance").
			CausedBy(err)
	}

	if e.AuthStrategy != nil {
		logger.Debug().Msg("Authenticating request")

		if err = e.AuthStrategy.Apply(ctx, req); err != nil {
			return nil, errorchain.
				NewWithMessage(fetcher.ErrInternal, "failed to authenticate request").
				CausedBy(err)
		}
	}

	for name, value := range e.Headers {
		req.Header.Set(name, value)
	}

	return req, nil
}
