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
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/permitio/opal-fetcher-ceph/internal/endpoint"
	"github.com/permitio/opal-fetcher-ceph/internal/fetcher"
	"github.com/permitio/opal-fetcher-ceph/internal/x/errorchain"
)

// Registry maps URL schemes to source factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// by intention. Populated only during application bootstrap.
var defaultRegistry = NewRegistry() //nolint:gochecknoglobals

func DefaultRegistry() *Registry { return defaultRegistry }

func Register(scheme string, factory Factory) { defaultRegistry.Register(scheme, factory) }

func (r *Registry) Register(scheme string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if factory == nil {
		panic("source factory is nil")
	}

	scheme = strings.ToLower(scheme)
	if _, exists := r.factories[scheme]; exists {
		panic("source factory for scheme " + scheme + " registered twice")
	}

	r.factories[scheme] = factory
}

// Create resolves the factory responsible for the scheme of the endpoint URL and uses it to create
// the source.
func (r *Registry) Create(ep endpoint.Endpoint) (Source, error) {
	target, err := url.Parse(ep.URL)
	if err != nil {
		return nil, errorchain.NewWithMessage(fetcher.ErrConfiguration, "failed to parse archive url").
			CausedBy(err)
	}

	scheme := strings.ToLower(target.Scheme)

	r.mu.RLock()
	factory, ok := r.factories[scheme]
	r.mu.RUnlock()

	if !ok {
		return nil, errorchain.NewWithMessagef(fetcher.ErrConfiguration,
			"unsupported archive url scheme '%s'", target.Scheme)
	}

	return factory.Create(ep)
}

func (r *Registry) Schemes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schemes := make([]string, 0, len(r.factories))
	for scheme := range r.factories {
		schemes = append(schemes, scheme)
	}

	slices.Sort(schemes)

	return schemes
}
