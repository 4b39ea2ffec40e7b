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
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/permitio/opal-fetcher-ceph/cmd/flags"
	"github.com/permitio/opal-fetcher-ceph/internal/fetcher"
	"github.com/permitio/opal-fetcher-ceph/internal/x/testsupport"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}

func newTestCommand(t *testing.T, create func() *cobra.Command, confFile string) *cobra.Command {
	t.Helper()

	cmd := create()
	cmd.Flags().StringP(flags.Config, "c", "", "Path to the configuration file.")
	cmd.Flags().String(flags.EnvironmentConfigPrefix, "OPALFETCHERTEST_", "Env prefix.")

	if len(confFile) != 0 {
		require.NoError(t, cmd.ParseFlags([]string{"--" + flags.Config, confFile}))
	}

	return cmd
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	validConfig := writeFile(t, "config.yaml", `
log:
  level: debug
fetch:
  default_timeout: 10s
  max_archive_size: 1024
`)

	invalidConfig := writeFile(t, "config.yaml", `
fetch:
  max_archive_size: -1
`)

	unknownProperty := writeFile(t, "config.yaml", `
serve:
  port: 8080
`)

	for _, tc := range []struct {
		uc       string
		confFile string
		expError error
	}{
		{uc: "no config provided", expError: ErrNoConfigFile},
		{uc: "not existing config file", confFile: "doesnotexist.yaml", expError: os.ErrNotExist},
		{uc: "config violating schema", confFile: invalidConfig, expError: fetcher.ErrConfiguration},
		{uc: "config with unknown property", confFile: unknownProperty, expError: fetcher.ErrConfiguration},
		{uc: "valid config", confFile: validConfig},
	} {
		t.Run(tc.uc, func(t *testing.T) {
			// GIVEN
			cmd := newTestCommand(t, NewValidateConfigCommand, tc.confFile)

			// WHEN
			err := validateConfig(cmd)

			// THEN
			if tc.expError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expError)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRunValidateConfigCommand(t *testing.T) {
	t.Parallel()

	// GIVEN
	confFile := writeFile(t, "config.yaml", "log:\n  level: warn\n")
	cmd := newTestCommand(t, NewValidateConfigCommand, confFile)

	buf := bytes.NewBuffer([]byte{})
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	// WHEN
	cmd.Run(cmd, []string{})

	// THEN
	assert.Contains(t, buf.String(), "Configuration is valid")
}

func TestRunValidateConfigCommandWithInvalidConfig(t *testing.T) {
	// GIVEN
	exit := testsupport.PatchOSExit(t)

	cmd := newTestCommand(t, NewValidateConfigCommand, "doesnotexist.yaml")

	buf := bytes.NewBuffer([]byte{})
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	// WHEN
	cmd.Run(cmd, []string{})

	// THEN
	assert.True(t, exit.Called())
	assert.Equal(t, 1, exit.Code())
	assert.Contains(t, buf.String(), "no such file or directory")
}
