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

package authstrategy

import (
	"reflect"

	"github.com/go-viper/mapstructure/v2"

	"github.com/permitio/opal-fetcher-ceph/internal/endpoint"
	"github.com/permitio/opal-fetcher-ceph/internal/fetcher"
	"github.com/permitio/opal-fetcher-ceph/internal/validation"
	"github.com/permitio/opal-fetcher-ceph/internal/x/errorchain"
)

// DecodeAuthenticationStrategyHookFunc turns a `{type: ..., config: {...}}` map into one of the
// supported endpoint.AuthenticationStrategy implementations.
func DecodeAuthenticationStrategyHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.Map {
			return data, nil
		}

		if to != reflect.TypeOf((*endpoint.AuthenticationStrategy)(nil)).Elem() {
			return data, nil
		}

		typed := map[string]any{}

		switch m := data.(type) {
		case map[string]any:
			typed = m
		case map[any]any:
			for k, v := range m {
				key, ok := k.(string)
				if !ok {
					return nil, errorchain.NewWithMessage(fetcher.ErrConfiguration,
						"unexpected key type in auth configuration")
				}

				typed[key] = v
			}
		default:
			return nil, errorchain.NewWithMessage(fetcher.ErrConfiguration, "unexpected auth configuration type")
		}

		switch typed["type"] {
		case "basic_auth":
			return decodeStrategy[BasicAuth]("basic_auth", typed["config"])
		case "api_key":
			return decodeStrategy[APIKey]("api_key", typed["config"])
		default:
			return nil, errorchain.NewWithMessagef(fetcher.ErrConfiguration,
				"unsupported authentication type: '%v'", typed["type"])
		}
	}
}

func decodeStrategy[Strategy any](name string, config any) (*Strategy, error) {
	var strategy Strategy

	if config == nil {
		return nil, errorchain.NewWithMessagef(fetcher.ErrConfiguration,
			"'%s' strategy requires 'config' property to be set", name)
	}

	if err := mapstructure.Decode(config, &strategy); err != nil {
		return nil, errorchain.NewWithMessagef(fetcher.ErrConfiguration,
			"failed to unmarshal '%s' strategy config", name).CausedBy(err)
	}

	if err := validation.ValidateStruct(&strategy); err != nil {
		return nil, errorchain.NewWithMessagef(fetcher.ErrConfiguration,
			"failed validating '%s' strategy config", name).CausedBy(err)
	}

	return &strategy, nil
}
