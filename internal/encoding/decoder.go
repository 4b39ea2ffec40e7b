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

// Package encoding decodes YAML or JSON documents, like fetch events, into typed structs.
package encoding

import (
	"bytes"
	"errors"
	"io"

	"github.com/drone/envsubst/v2"
	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/permitio/opal-fetcher-ceph/internal/fetcher"
	"github.com/permitio/opal-fetcher-ceph/internal/x"
	"github.com/permitio/opal-fetcher-ceph/internal/x/errorchain"
)

var ErrEmptyDocument = errors.New("empty document")

type Decoder struct {
	decoderOpts
}

func NewDecoder(opts ...DecoderOption) *Decoder {
	decoder := &Decoder{
		decoderOpts: decoderOpts{
			validator: noopValidator{},
			tagName:   "json",
		},
	}

	for _, opt := range opts {
		opt(&decoder.decoderOpts)
	}

	return decoder
}

// Decode reads a YAML or JSON document from reader and decodes it into out.
func (d *Decoder) Decode(out any, reader io.Reader) error {
	var rawDoc map[string]any

	if d.substituteEnvVars {
		raw, err := io.ReadAll(reader)
		if err != nil {
			return errorchain.NewWithMessage(fetcher.ErrInternal, "reading document failed").CausedBy(err)
		}

		content, err := envsubst.EvalEnv(string(raw))
		if err != nil {
			return errorchain.NewWithMessage(fetcher.ErrConfiguration,
				"substitution of environment variables failed").CausedBy(err)
		}

		reader = bytes.NewReader([]byte(content))
	}

	if err := yaml.NewDecoder(reader).Decode(&rawDoc); err != nil {
		if errors.Is(err, io.EOF) {
			return errorchain.New(fetcher.ErrConfiguration).CausedBy(ErrEmptyDocument)
		}

		return errorchain.NewWithMessage(fetcher.ErrConfiguration, "parsing of document failed").CausedBy(err)
	}

	return d.DecodeMap(out, rawDoc)
}

func (d *Decoder) DecodeMap(out any, in map[string]any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: d.errorOnUnused,
		TagName:     d.tagName,
		DecodeHook:  x.IfThenElse(d.decodeHooks != nil, d.decodeHooks, mapstructure.ComposeDecodeHookFunc()),
	})
	if err != nil {
		return errorchain.NewWithMessage(fetcher.ErrInternal, "failed creating document decoder").CausedBy(err)
	}

	if err = dec.Decode(in); err != nil {
		return errorchain.NewWithMessage(fetcher.ErrConfiguration, "decoding of document failed").CausedBy(err)
	}

	if err = d.validator.ValidateStruct(out); err != nil {
		return errorchain.NewWithMessage(fetcher.ErrConfiguration, "document validation failed").CausedBy(err)
	}

	return nil
}
