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

package internal

import (
	prom "github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	_ "github.com/permitio/opal-fetcher-ceph/internal/cephfetcher" // registers NginxCephFetchProvider
	"github.com/permitio/opal-fetcher-ceph/internal/config"
	"github.com/permitio/opal-fetcher-ceph/internal/fetcher"
	"github.com/permitio/opal-fetcher-ceph/internal/prometheus"
)

// nolint: gochecknoglobals
var Module = fx.Options(
	prometheus.Module,
	fx.Provide(
		fetcher.DefaultRegistry,
		newMetrics,
		newRunner,
	),
)

func newMetrics(conf *config.Configuration, registerer prom.Registerer) *fetcher.Metrics {
	if !conf.Metrics.Enabled {
		return nil
	}

	return fetcher.NewMetrics(fetcher.WithRegisterer(registerer))
}

func newRunner(registry *fetcher.Registry, conf *config.Configuration, metrics *fetcher.Metrics) *fetcher.Runner {
	return fetcher.NewRunner(registry, conf.Fetch.Settings(), metrics)
}
