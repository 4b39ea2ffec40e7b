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

package parser

import (
	"os"

	"github.com/drone/envsubst/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/permitio/opal-fetcher-ceph/internal/fetcher"
	"github.com/permitio/opal-fetcher-ceph/internal/x/errorchain"
)

// readConfigFile returns the file contents with ${VAR} references replaced by the values of
// the corresponding environment variables.
func readConfigFile(configFile string) ([]byte, error) {
	raw, err := os.ReadFile(configFile)
	if err != nil {
		return nil, errorchain.NewWithMessagef(fetcher.ErrConfiguration,
			"failed to read config file %s", configFile).CausedBy(err)
	}

	contents, err := envsubst.EvalEnv(string(raw))
	if err != nil {
		return nil, errorchain.NewWithMessagef(fetcher.ErrConfiguration,
			"failed to substitute environment variables in %s", configFile).CausedBy(err)
	}

	return []byte(contents), nil
}

func koanfFromYaml(contents []byte) (*koanf.Koanf, error) {
	parser := koanf.New(".")

	if err := parser.Load(rawbytes.Provider(contents), yaml.Parser()); err != nil {
		return nil, err
	}

	return parser, nil
}
