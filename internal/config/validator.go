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

package config

import (
	"bytes"
	"sync"

	"github.com/knadh/koanf/maps"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/permitio/opal-fetcher-ceph/internal/fetcher"
	"github.com/permitio/opal-fetcher-ceph/internal/x/errorchain"
	"github.com/permitio/opal-fetcher-ceph/schema"
)

const schemaURL = "config.schema.json"

var compiledConfigSchema = sync.OnceValues(func() (*jsonschema.Schema, error) { //nolint:gochecknoglobals
	configSchema, err := jsonschema.UnmarshalJSON(bytes.NewReader(schema.ConfigSchema))
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	if err = compiler.AddResource(schemaURL, configSchema); err != nil {
		return nil, err
	}

	return compiler.Compile(schemaURL)
})

// ValidateConfigSchema validates the YAML configuration document against the embedded JSON schema.
func ValidateConfigSchema(contents []byte) error {
	var conf map[string]any

	if err := yaml.Unmarshal(contents, &conf); err != nil {
		return errorchain.NewWithMessage(fetcher.ErrConfiguration, "failed to parse config").
			CausedBy(err)
	}

	compiledSchema, err := compiledConfigSchema()
	if err != nil {
		return errorchain.NewWithMessage(fetcher.ErrInternal, "failed to compile JSON schema").
			CausedBy(err)
	}

	// an empty document is a valid configuration
	if conf == nil {
		conf = map[string]any{}
	}

	maps.IntfaceKeysToStrings(conf)

	if err = compiledSchema.Validate(conf); err != nil {
		return errorchain.New(fetcher.ErrConfiguration).CausedBy(err)
	}

	return nil
}
