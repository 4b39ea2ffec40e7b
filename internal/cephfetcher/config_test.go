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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/permitio/opal-fetcher-ceph/internal/endpoint"
	"github.com/permitio/opal-fetcher-ceph/internal/endpoint/authstrategy"
	"github.com/permitio/opal-fetcher-ceph/internal/fetcher"
)

func TestDecodeConfig(t *testing.T) {
	t.Parallel()

	for uc, tc := range map[string]struct {
		config map[string]any
		assert func(t *testing.T, err error, conf Config)
	}{
		"no config": {
			assert: func(t *testing.T, err error, conf Config) {
				t.Helper()

				require.NoError(t, err)
				assert.Empty(t, conf.Fetcher)
				assert.Nil(t, conf.ConnectionParams)
			},
		},
		"full config": {
			config: map[string]any{
				"fetcher": Name,
				"connection_params": map[string]any{
					"headers": map[string]any{"X-Bundle": "policies"},
					"auth": map[string]any{
						"type":   "basic_auth",
						"config": map[string]any{"user": "opal", "password": "secret"},
					},
					"timeout": "5s",
					"retry": map[string]any{
						"give_up_after": "10s",
						"max_delay":     "1s",
						"max_attempts":  4,
					},
					"max_archive_size": 1024,
				},
			},
			assert: func(t *testing.T, err error, conf Config) {
				t.Helper()

				require.NoError(t, err)
				assert.Equal(t, Name, conf.Fetcher)

				params := conf.ConnectionParams
				require.NotNil(t, params)
				assert.Equal(t, map[string]string{"X-Bundle": "policies"}, params.Headers)
				assert.Equal(t, &authstrategy.BasicAuth{User: "opal", Password: "secret"}, params.AuthStrategy)
				assert.Equal(t, 5*time.Second, params.Timeout)
				assert.Equal(t, &endpoint.Retry{GiveUpAfter: 10 * time.Second, MaxDelay: time.Second, MaxAttempts: 4},
					params.Retry)
				assert.Equal(t, int64(1024), params.MaxArchiveSize)
			},
		},
		"unknown connection parameter": {
			config: map[string]any{
				"connection_params": map[string]any{"dsn": "postgres://localhost"},
			},
			assert: func(t *testing.T, err error, _ Config) {
				t.Helper()

				require.Error(t, err)
				require.ErrorIs(t, err, fetcher.ErrConfiguration)
				assert.Contains(t, err.Error(), "dsn")
			},
		},
		"config for another fetcher": {
			config: map[string]any{"fetcher": "PostgresFetchProvider"},
			assert: func(t *testing.T, err error, _ Config) {
				t.Helper()

				require.Error(t, err)
				require.ErrorIs(t, err, fetcher.ErrConfiguration)
				assert.Contains(t, err.Error(), "PostgresFetchProvider")
			},
		},
		"invalid retry config": {
			config: map[string]any{
				"connection_params": map[string]any{
					"retry": map[string]any{"max_attempts": 2},
				},
			},
			assert: func(t *testing.T, err error, _ Config) {
				t.Helper()

				require.Error(t, err)
				require.ErrorIs(t, err, fetcher.ErrConfiguration)
				assert.Contains(t, err.Error(), "give_up_after")
			},
		},
		"unsupported auth type": {
			config: map[string]any{
				"connection_params": map[string]any{
					"auth": map[string]any{"type": "oauth2_client_credentials", "config": map[string]any{}},
				},
			},
			assert: func(t *testing.T, err error, _ Config) {
				t.Helper()

				require.Error(t, err)
				require.ErrorIs(t, err, fetcher.ErrConfiguration)
			},
		},
		"negative timeout": {
			config: map[string]any{
				"connection_params": map[string]any{"timeout": "-1s"},
			},
			assert: func(t *testing.T, err error, _ Config) {
				t.Helper()

				require.Error(t, err)
				require.ErrorIs(t, err, fetcher.ErrConfiguration)
			},
		},
	} {
		t.Run(uc, func(t *testing.T) {
			conf, err := decodeConfig(tc.config)

			tc.assert(t, err, conf)
		})
	}
}

func TestConnectionParamsToEndpoint(t *testing.T) {
	t.Parallel()

	settings := fetcher.Settings{
		Timeout:        30 * time.Second,
		MaxArchiveSize: 2048,
		Retry:          &fetcher.RetrySettings{GiveUpAfter: time.Minute, MaxDelay: 2 * time.Second, MaxAttempts: 5},
	}

	for uc, tc := range map[string]struct {
		params *ConnectionParams
		assert func(t *testing.T, ep endpoint.Endpoint, maxSize int64)
	}{
		"defaults only": {
			assert: func(t *testing.T, ep endpoint.Endpoint, maxSize int64) {
				t.Helper()

				assert.Equal(t, 30*time.Second, ep.Timeout)
				assert.Equal(t, &endpoint.Retry{GiveUpAfter: time.Minute, MaxDelay: 2 * time.Second, MaxAttempts: 5},
					ep.Retry)
				assert.Equal(t, int64(2048), maxSize)
			},
		},
		"connection params override defaults": {
			params: &ConnectionParams{
				Headers:        map[string]string{"X-Foo": "bar"},
				Timeout:        time.Second,
				Retry:          &endpoint.Retry{GiveUpAfter: time.Second, MaxDelay: time.Millisecond},
				MaxArchiveSize: 10,
			},
			assert: func(t *testing.T, ep endpoint.Endpoint, maxSize int64) {
				t.Helper()

				assert.Equal(t, time.Second, ep.Timeout)
				assert.Equal(t, map[string]string{"X-Foo": "bar"}, ep.Headers)
				assert.Equal(t, &endpoint.Retry{GiveUpAfter: time.Second, MaxDelay: time.Millisecond}, ep.Retry)
				assert.Equal(t, int64(10), maxSize)
			},
		},
		"unset connection params keep defaults": {
			params: &ConnectionParams{Headers: map[string]string{"X-Foo": "bar"}},
			assert: func(t *testing.T, ep endpoint.Endpoint, maxSize int64) {
				t.Helper()

				assert.Equal(t, 30*time.Second, ep.Timeout)
				assert.NotNil(t, ep.Retry)
				assert.Equal(t, int64(2048), maxSize)
			},
		},
	} {
		t.Run(uc, func(t *testing.T) {
			ep, maxSize := tc.params.toEndpoint(settings)

			tc.assert(t, ep, maxSize)
		})
	}
}
