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

// Package source provides read streams of remote archives. The concrete implementation is
// selected by the scheme of the archive URL.
package source

import (
	"context"
	"io"

	"github.com/permitio/opal-fetcher-ceph/internal/endpoint"
)

// Source opens a read stream to exactly one remote archive. The caller owns the returned stream
// and must close it.
type Source interface {
	ID() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

type Factory interface {
	Create(ep endpoint.Endpoint) (Source, error)
}

type FactoryFunc func(ep endpoint.Endpoint) (Source, error)

func (f FactoryFunc) Create(ep endpoint.Endpoint) (Source, error) { return f(ep) }
