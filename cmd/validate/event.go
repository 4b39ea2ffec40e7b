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

package validate

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/permitio/opal-fetcher-ceph/cmd/flags"
	"github.com/permitio/opal-fetcher-ceph/internal/config"
	"github.com/permitio/opal-fetcher-ceph/internal/event"
	"github.com/permitio/opal-fetcher-ceph/internal/fetcher"

	_ "github.com/permitio/opal-fetcher-ceph/internal/cephfetcher" // registers NginxCephFetchProvider
)

// NewValidateEventCommand represents the "validate event" command.
func NewValidateEventCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "event <file>",
		Short:   "Validates a fetch event without fetching anything",
		Example: "opal-fetcher-ceph validate event -c myconfig.yaml event.yaml",
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := validateEvent(cmd, args[0]); err != nil {
				cmd.PrintErrf("%v\n", err)

				os.Exit(1)
			}

			cmd.Println("Event is valid")
		},
	}
}

func validateEvent(cmd *cobra.Command, eventFile string) error {
	envPrefix, _ := cmd.Flags().GetString(flags.EnvironmentConfigPrefix)
	configPath, _ := cmd.Flags().GetString(flags.Config)

	conf, err := config.NewConfiguration(
		config.EnvVarPrefix(envPrefix),
		config.ConfigurationPath(configPath),
	)
	if err != nil {
		return err
	}

	evt, err := event.Load(eventFile)
	if err != nil {
		return err
	}

	_, err = fetcher.DefaultRegistry().Create(evt, conf.Fetch.Settings(), zerolog.Nop())

	return err
}
