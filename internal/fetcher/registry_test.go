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
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	// GIVEN
	reg := NewRegistry()

	var received Event

	reg.Register("StaticFetcher", func(event Event, _ Settings, _ zerolog.Logger) (Provider, error) {
		received = event

		return &testProvider{}, nil
	})

	// WHEN
	provider, err := reg.Create(Event{Fetcher: "StaticFetcher", URL: "http://foo"}, Settings{}, zerolog.Nop())

	// THEN
	require.NoError(t, err)
	assert.NotNil(t, provider)
	assert.Equal(t, "http://foo", received.URL)
	assert.Equal(t, []string{"StaticFetcher"}, reg.Names())

	_, err = reg.Create(Event{Fetcher: "Unknown"}, Settings{}, zerolog.Nop())
	require.Error(t, err)
	require.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), "unknown fetcher 'Unknown'")

	assert.Panics(t, func() {
		reg.Register("StaticFetcher", func(Event, Settings, zerolog.Logger) (Provider, error) { return nil, nil })
	})
	assert.Panics(t, func() { reg.Register("Nil", nil) })
}
