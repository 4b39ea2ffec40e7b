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

// Package parser loads configuration structs from defaults, an optional YAML file and
// environment variables, in this order of precedence.
package parser

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"

	"github.com/permitio/opal-fetcher-ceph/internal/fetcher"
	"github.com/permitio/opal-fetcher-ceph/internal/x/errorchain"
)

type ConfigLoader interface {
	Load(config any) error
}

func New(opts ...Option) ConfigLoader {
	loader := &configLoader{}

	for _, opt := range opts {
		opt(&loader.o)
	}

	return loader
}

type configLoader struct {
	o opts
}

// Load uses the current contents of config as defaults and merges the config file and the
// environment variables on top.
func (c *configLoader) Load(config any) error {
	parser, err := koanfFromStruct(config)
	if err != nil {
		return err
	}

	if len(c.o.configFile) != 0 {
		contents, err := readConfigFile(c.o.configFile)
		if err != nil {
			return err
		}

		if c.o.validate != nil {
			if err = c.o.validate(contents); err != nil {
				return err
			}
		}

		konf, err := koanfFromYaml(contents)
		if err != nil {
			return errorchain.NewWithMessagef(fetcher.ErrConfiguration,
				"failed to load yaml config from %s", c.o.configFile).CausedBy(err)
		}

		if err = mergeInto(parser, konf); err != nil {
			return err
		}
	}

	if len(c.o.envPrefix) != 0 {
		konf, err := koanfFromEnv(c.o.envPrefix)
		if err != nil {
			return err
		}

		if err = mergeInto(parser, konf); err != nil {
			return err
		}
	}

	if err = parser.UnmarshalWithConf("", config, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.ComposeDecodeHookFunc(c.o.decodeHooks...),
			Result:           config,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return errorchain.NewWithMessage(fetcher.ErrConfiguration, "failed to decode configuration").
			CausedBy(err)
	}

	return nil
}

func mergeInto(parser, konf *koanf.Koanf) error {
	return parser.Load(
		confmap.Provider(konf.Raw(), ""),
		nil,
		koanf.WithMergeFunc(func(src, dest map[string]any) error {
			for key, val := range src {
				dest[key] = merge(dest[key], val)
			}

			return nil
		}))
}
