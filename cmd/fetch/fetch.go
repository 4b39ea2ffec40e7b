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

package fetch

import (
	"context"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/permitio/opal-fetcher-ceph/internal/cephfetcher"
	"github.com/permitio/opal-fetcher-ceph/internal/event"
	"github.com/permitio/opal-fetcher-ceph/internal/fetcher"
)

const (
	eventFlag        = "event"
	urlFlag          = "url"
	fetcherFlag      = "fetcher"
	printMetricsFlag = "print-metrics"
)

// NewFetchCommand represents the "fetch" command.
func NewFetchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Runs a single fetch event and writes the fetched data as JSON to stdout",
		Example: "opal-fetcher-ceph fetch --url https://ceph.local/bundles/policy.tar.gz\n" +
			"opal-fetcher-ceph fetch -c config.yaml --event event.yaml",
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := runFetch(cmd); err != nil {
				cmd.PrintErrf("%v\n", err)

				os.Exit(1)
			}
		},
	}

	cmd.Flags().String(eventFlag, "", "Path to a YAML or JSON file holding the fetch event.")
	cmd.Flags().String(urlFlag, "", "URL of the archive. Overrides the url of the event.")
	cmd.Flags().String(fetcherFlag, cephfetcher.Name, "Name of the fetcher if no event file is used.")
	cmd.Flags().Bool(printMetricsFlag, false, "Writes the collected metrics to stderr on exit.")

	return cmd
}

func runFetch(cmd *cobra.Command) error {
	evt, err := eventFromFlags(cmd)
	if err != nil {
		return err
	}

	var (
		runner   *fetcher.Runner
		logger   zerolog.Logger
		gatherer prometheus.Gatherer
	)

	if _, err = createApp(cmd, fx.Populate(&runner, &logger, &gatherer)); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result := runner.Run(logger.WithContext(ctx), evt)

	if printMetrics, _ := cmd.Flags().GetBool(printMetricsFlag); printMetrics {
		if err = writeMetrics(cmd.ErrOrStderr(), gatherer); err != nil {
			logger.Warn().Err(err).Msg("Failed writing metrics")
		}
	}

	if result.Err != nil {
		return result.Err
	}

	if result.Skipped {
		return nil
	}

	out, err := json.MarshalIndent(result.Data, "", "  ")
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(append(out, '\n'))

	return err
}

func eventFromFlags(cmd *cobra.Command) (fetcher.Event, error) {
	eventFile, _ := cmd.Flags().GetString(eventFlag)
	url, _ := cmd.Flags().GetString(urlFlag)
	name, _ := cmd.Flags().GetString(fetcherFlag)

	evt := fetcher.Event{Fetcher: name}

	if len(eventFile) != 0 {
		var err error

		if evt, err = event.Load(eventFile); err != nil {
			return evt, err
		}
	}

	if len(url) != 0 {
		evt.URL = url
	}

	return evt, nil
}

func writeMetrics(out io.Writer, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return err
	}

	for _, family := range families {
		if _, err = expfmt.MetricFamilyToText(out, family); err != nil {
			return err
		}
	}

	return nil
}
