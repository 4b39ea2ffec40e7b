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

package httpx

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceRoundTripperRoundTrip(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.Header().Set("Content-Type", "application/gzip")
		rw.Header().Set("X-Archive-Id", "archive-42")
		_, _ = rw.Write([]byte("binary archive content"))
	}))
	defer srv.Close()

	for uc, tc := range map[string]struct {
		logLevel zerolog.Level
		url      string
		expErr   bool
		assert   func(t *testing.T, logs string)
	}{
		"debug log level": {
			logLevel: zerolog.DebugLevel,
			url:      srv.URL + "/bundle.tar.gz",
			assert: func(t *testing.T, logs string) {
				t.Helper()

				assert.Empty(t, logs)
			},
		},
		"trace log level": {
			logLevel: zerolog.TraceLevel,
			url:      srv.URL + "/bundle.tar.gz",
			assert: func(t *testing.T, logs string) {
				t.Helper()

				assert.Contains(t, logs, "Outbound Request")
				assert.Contains(t, logs, "/bundle.tar.gz")
				assert.Contains(t, logs, "Inbound Response")
				assert.Contains(t, logs, "archive-42")
				assert.NotContains(t, logs, "binary archive content")
			},
		},
		"trace log level with transport error": {
			logLevel: zerolog.TraceLevel,
			url:      "http://127.0.0.1:1/bundle.tar.gz",
			expErr:   true,
			assert: func(t *testing.T, logs string) {
				t.Helper()

				assert.Contains(t, logs, "Failed sending request")
			},
		},
	} {
		t.Run(uc, func(t *testing.T) {
			// GIVEN
			buf := bytes.NewBuffer(nil)
			logger := zerolog.New(buf).Level(tc.logLevel)
			ctx := logger.WithContext(context.Background())

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, tc.url, nil)
			require.NoError(t, err)

			client := &http.Client{Transport: NewTraceRoundTripper(http.DefaultTransport)}

			// WHEN
			resp, err := client.Do(req)

			// THEN
			if tc.expErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)

				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				resp.Body.Close()

				assert.Equal(t, "binary archive content", string(body))
			}

			tc.assert(t, buf.String())
		})
	}
}
