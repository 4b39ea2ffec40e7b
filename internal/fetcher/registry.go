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
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/permitio/opal-fetcher-ceph/internal/x/errorchain"
)

// Registry resolves fetcher names carried by events to provider factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// by intention. Populated by the provider packages during application bootstrap.
var defaultRegistry = NewRegistry() //nolint:gochecknoglobals

func DefaultRegistry() *Registry { return defaultRegistry }

func Register(name string, factory Factory) { defaultRegistry.Register(name, factory) }

func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if factory == nil {
		panic("fetcher factory is nil")
	}

	if _, exists := r.factories[name]; exists {
		panic("fetcher factory " + name + " registered twice")
	}

	r.factories[name] = factory
}

func (r *Registry) Create(event Event, settings Settings, logger zerolog.Logger) (Provider, error) {
	r.mu.RLock()
	factory, ok := r.factories[event.Fetcher]
	r.mu.RUnlock()

	if !ok {
		return nil, errorchain.NewWithMessagef(ErrConfiguration, "unknown fetcher '%s'", event.Fetcher)
	}

	return factory(event, settings, logger)
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
