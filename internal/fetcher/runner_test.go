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
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/permitio/opal-fetcher-ceph/internal/x/errorchain"
	"github.com/permitio/opal-fetcher-ceph/internal/x/httpx"
)

var errTest = errors.New("test error")

type testProvider struct {
	fetch   func(ctx context.Context) ([]byte, error)
	process func(ctx context.Context, data []byte) (any, error)

	fetches   int
	processes int
}

func (p *testProvider) Fetch(ctx context.Context) ([]byte, error) {
	p.fetches++

	if p.fetch == nil {
		return []byte("raw"), nil
	}

	return p.fetch(ctx)
}

func (p *testProvider) Process(ctx context.Context, data []byte) (any, error) {
	p.processes++

	if p.process == nil {
		return string(data), nil
	}

	return p.process(ctx, data)
}

type lifecycleProvider struct {
	testProvider

	openErr  error
	closeErr error
	opens    int
	closes   int
}

func (p *lifecycleProvider) Open(_ context.Context) error {
	p.opens++

	return p.openErr
}

func (p *lifecycleProvider) Close(_ context.Context) error {
	p.closes++

	return p.closeErr
}

func TestRunnerRun(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		uc       string
		event    Event
		provider func() Provider
		assert   func(t *testing.T, res Result, provider Provider)
	}{
		{
			uc:    "unknown fetcher",
			event: Event{Fetcher: "Unknown"},
			assert: func(t *testing.T, res Result, _ Provider) {
				t.Helper()

				require.ErrorIs(t, res.Err, ErrConfiguration)
				assert.Equal(t, KindConfiguration, res.Outcome())
			},
		},
		{
			uc:    "successful fetch",
			event: Event{Fetcher: "Test", URL: "http://bundles.local/data.tar.gz"},
			provider: func() Provider {
				return &testProvider{}
			},
			assert: func(t *testing.T, res Result, provider Provider) {
				t.Helper()

				require.NoError(t, res.Err)
				assert.Equal(t, "raw", res.Data)
				assert.False(t, res.Skipped)
				assert.Equal(t, OutcomeSuccess, res.Outcome())
				assert.Equal(t, "Test", res.Fetcher)
				assert.Equal(t, "http://bundles.local/data.tar.gz", res.URL)

				tp := provider.(*testProvider) //nolint:forcetypeassert
				assert.Equal(t, 1, tp.fetches)
				assert.Equal(t, 1, tp.processes)
			},
		},
		{
			uc:    "nothing fetched",
			event: Event{Fetcher: "Test"},
			provider: func() Provider {
				return &testProvider{fetch: func(context.Context) ([]byte, error) { return nil, nil }}
			},
			assert: func(t *testing.T, res Result, provider Provider) {
				t.Helper()

				require.NoError(t, res.Err)
				assert.True(t, res.Skipped)
				assert.Nil(t, res.Data)
				assert.Equal(t, OutcomeSkipped, res.Outcome())

				tp := provider.(*testProvider) //nolint:forcetypeassert
				assert.Equal(t, 0, tp.processes)
			},
		},
		{
			uc:    "fetch fails",
			event: Event{Fetcher: "Test"},
			provider: func() Provider {
				return &testProvider{fetch: func(context.Context) ([]byte, error) {
					return nil, errorchain.New(ErrFormat).CausedBy(errTest)
				}}
			},
			assert: func(t *testing.T, res Result, provider Provider) {
				t.Helper()

				require.ErrorIs(t, res.Err, ErrFormat)
				assert.Equal(t, KindFormat, res.Outcome())

				tp := provider.(*testProvider) //nolint:forcetypeassert
				assert.Equal(t, 0, tp.processes)
			},
		},
		{
			uc:    "process fails and close is still called once",
			event: Event{Fetcher: "Test"},
			provider: func() Provider {
				return &lifecycleProvider{testProvider: testProvider{
					process: func(context.Context, []byte) (any, error) {
						return nil, errorchain.New(ErrParse).CausedBy(errTest)
					},
				}}
			},
			assert: func(t *testing.T, res Result, provider Provider) {
				t.Helper()

				require.ErrorIs(t, res.Err, ErrParse)

				lp := provider.(*lifecycleProvider) //nolint:forcetypeassert
				assert.Equal(t, 1, lp.opens)
				assert.Equal(t, 1, lp.closes)
			},
		},
		{
			uc:    "open fails",
			event: Event{Fetcher: "Test"},
			provider: func() Provider {
				return &lifecycleProvider{openErr: errTest}
			},
			assert: func(t *testing.T, res Result, provider Provider) {
				t.Helper()

				require.ErrorIs(t, res.Err, errTest)
				assert.Equal(t, KindInternal, res.Outcome())

				lp := provider.(*lifecycleProvider) //nolint:forcetypeassert
				assert.Equal(t, 1, lp.opens)
				assert.Equal(t, 0, lp.closes)
				assert.Equal(t, 0, lp.fetches)
			},
		},
		{
			uc:    "close error is reported for otherwise successful fetch",
			event: Event{Fetcher: "Test"},
			provider: func() Provider {
				return &lifecycleProvider{closeErr: errTest}
			},
			assert: func(t *testing.T, res Result, provider Provider) {
				t.Helper()

				require.ErrorIs(t, res.Err, errTest)

				lp := provider.(*lifecycleProvider) //nolint:forcetypeassert
				assert.Equal(t, 1, lp.closes)
			},
		},
		{
			uc:    "close error does not hide the fetch error",
			event: Event{Fetcher: "Test"},
			provider: func() Provider {
				return &lifecycleProvider{
					closeErr: errors.New("close failed"),
					testProvider: testProvider{fetch: func(context.Context) ([]byte, error) {
						return nil, errorchain.New(ErrCommunication).CausedBy(errTest)
					}},
				}
			},
			assert: func(t *testing.T, res Result, provider Provider) {
				t.Helper()

				require.ErrorIs(t, res.Err, ErrCommunication)

				lp := provider.(*lifecycleProvider) //nolint:forcetypeassert
				assert.Equal(t, 1, lp.closes)
			},
		},
	} {
		t.Run(tc.uc, func(t *testing.T) {
			// GIVEN
			var provider Provider

			reg := NewRegistry()
			if tc.provider != nil {
				provider = tc.provider()

				reg.Register("Test", func(Event, Settings, zerolog.Logger) (Provider, error) {
					return provider, nil
				})
			}

			runner := NewRunner(reg, Settings{}, nil)

			// WHEN
			res := runner.Run(context.Background(), tc.event)

			// THEN
			tc.assert(t, res, provider)
		})
	}
}

func TestRunnerRecordsMetrics(t *testing.T) {
	t.Parallel()

	// GIVEN
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := &http.Client{Transport: httpx.NewCountingRoundTripper(http.DefaultTransport)}

	reg := NewRegistry()
	reg.Register("Test", func(Event, Settings, zerolog.Logger) (Provider, error) {
		return &testProvider{fetch: func(ctx context.Context) ([]byte, error) {
			for range 2 {
				req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
				if err != nil {
					return nil, err
				}

				resp, err := client.Do(req)
				if err != nil {
					return nil, err
				}

				resp.Body.Close()
			}

			return []byte("{}"), nil
		}}, nil
	})

	promReg := prometheus.NewRegistry()
	metrics := NewMetrics(WithRegisterer(promReg), WithLabel("service", "test"))
	runner := NewRunner(reg, Settings{}, metrics)

	// WHEN
	res := runner.Run(context.Background(), Event{Fetcher: "Test", URL: srv.URL})
	runner.Run(context.Background(), Event{Fetcher: "Unknown"})

	// THEN
	require.NoError(t, res.Err)
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, 2, calls)

	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.fetches.WithLabelValues("Test", OutcomeSuccess)), 0.0001)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.fetches.WithLabelValues("Unknown", KindConfiguration)), 0.0001)
	assert.InDelta(t, 2.0, testutil.ToFloat64(metrics.attempts.WithLabelValues("Test")), 0.0001)

	families, err := promReg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, family := range families {
		names = append(names, family.GetName())
	}

	assert.ElementsMatch(t, []string{
		"opal_fetcher_fetches_total",
		"opal_fetcher_fetch_duration_seconds",
		"opal_fetcher_http_attempts_total",
	}, names)
}
