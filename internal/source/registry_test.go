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

package source

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/permitio/opal-fetcher-ceph/internal/endpoint"
	"github.com/permitio/opal-fetcher-ceph/internal/fetcher"
)

var errFactory = errors.New("factory failed")

type stringSource struct{ id string }

func (s *stringSource) ID() string { return s.id }

func (s *stringSource) Open(_ context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.id)), nil
}

func TestRegistryCreate(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register("mem", FactoryFunc(func(ep endpoint.Endpoint) (Source, error) {
		return &stringSource{id: ep.URL}, nil
	}))
	reg.Register("broken", FactoryFunc(func(_ endpoint.Endpoint) (Source, error) {
		return nil, errFactory
	}))

	for uc, tc := range map[string]struct {
		url    string
		assert func(t *testing.T, err error, src Source)
	}{
		"known scheme": {
			url: "mem://bundles/data.tar.gz",
			assert: func(t *testing.T, err error, src Source) {
				t.Helper()

				require.NoError(t, err)
				assert.Equal(t, "mem://bundles/data.tar.gz", src.ID())
			},
		},
		"scheme is matched case insensitive": {
			url: "MEM://bundles/data.tar.gz",
			assert: func(t *testing.T, err error, src Source) {
				t.Helper()

				require.NoError(t, err)
				assert.NotNil(t, src)
			},
		},
		"unknown scheme": {
			url: "ftp://bundles/data.tar.gz",
			assert: func(t *testing.T, err error, _ Source) {
				t.Helper()

				require.Error(t, err)
				require.ErrorIs(t, err, fetcher.ErrConfiguration)
				assert.Contains(t, err.Error(), "unsupported archive url scheme 'ftp'")
			},
		},
		"unparsable url": {
			url: "://bundles",
			assert: func(t *testing.T, err error, _ Source) {
				t.Helper()

				require.Error(t, err)
				require.ErrorIs(t, err, fetcher.ErrConfiguration)
			},
		},
		"failing factory": {
			url: "broken://bundles",
			assert: func(t *testing.T, err error, _ Source) {
				t.Helper()

				require.ErrorIs(t, err, errFactory)
			},
		},
	} {
		t.Run(uc, func(t *testing.T) {
			src, err := reg.Create(endpoint.Endpoint{URL: tc.url})

			tc.assert(t, err, src)
		})
	}

	assert.Equal(t, []string{"broken", "mem"}, reg.Schemes())
}

func TestRegistryRegister(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	factory := FactoryFunc(func(_ endpoint.Endpoint) (Source, error) { return &stringSource{}, nil })

	reg.Register("mem", factory)

	assert.Panics(t, func() { reg.Register("mem", factory) })
	assert.Panics(t, func() { reg.Register("other", nil) })
}
