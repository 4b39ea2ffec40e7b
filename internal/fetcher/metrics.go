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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metricsOpts struct {
	registerer prometheus.Registerer
	namespace  string
	subsystem  string
	labels     prometheus.Labels
}

type MetricsOption func(*metricsOpts)

func WithRegisterer(registerer prometheus.Registerer) MetricsOption {
	return func(o *metricsOpts) {
		if registerer != nil {
			o.registerer = registerer
		}
	}
}

func WithNamespace(name string) MetricsOption {
	return func(o *metricsOpts) {
		if len(name) != 0 {
			o.namespace = name
		}
	}
}

func WithSubsystem(name string) MetricsOption {
	return func(o *metricsOpts) {
		if len(name) != 0 {
			o.subsystem = name
		}
	}
}

func WithLabel(label, value string) MetricsOption {
	return func(o *metricsOpts) {
		if len(label) != 0 && len(value) != 0 {
			o.labels[label] = value
		}
	}
}

type Metrics struct {
	fetches  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	attempts *prometheus.CounterVec
}

func NewMetrics(opts ...MetricsOption) *Metrics {
	options := metricsOpts{
		registerer: prometheus.DefaultRegisterer,
		namespace:  "opal",
		subsystem:  "fetcher",
		labels:     make(prometheus.Labels),
	}

	for _, opt := range opts {
		opt(&options)
	}

	factory := promauto.With(options.registerer)

	return &Metrics{
		fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        prometheus.BuildFQName(options.namespace, options.subsystem, "fetches_total"),
			Help:        "Count all fetches by fetcher and outcome.",
			ConstLabels: options.labels,
		}, []string{"fetcher", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        prometheus.BuildFQName(options.namespace, options.subsystem, "fetch_duration_seconds"),
			Help:        "Duration of all fetches by fetcher.",
			ConstLabels: options.labels,
			Buckets: []float64{
				0.005,
				0.01, // 10ms
				0.025,
				0.05,
				0.1, // 100ms
				0.25,
				0.5,
				1.0, // 1s
				2.5,
				5.0,
				10.0, // 10s
				30.0,
				60.0,
			},
		}, []string{"fetcher"}),
		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        prometheus.BuildFQName(options.namespace, options.subsystem, "http_attempts_total"),
			Help:        "Count all HTTP requests sent by fetchers, retries included.",
			ConstLabels: options.labels,
		}, []string{"fetcher"}),
	}
}

func (m *Metrics) observe(result Result) {
	m.fetches.WithLabelValues(result.Fetcher, result.Outcome()).Inc()
	m.duration.WithLabelValues(result.Fetcher).Observe(result.Duration.Seconds())

	if result.Attempts > 0 {
		m.attempts.WithLabelValues(result.Fetcher).Add(float64(result.Attempts))
	}
}
