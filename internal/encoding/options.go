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

package encoding

import (
	"github.com/go-viper/mapstructure/v2"

	"github.com/permitio/opal-fetcher-ceph/internal/validation"
)

type noopValidator struct{}

func (noopValidator) ValidateStruct(any) error { return nil }

type decoderOpts struct {
	validator         validation.Validator
	errorOnUnused     bool
	substituteEnvVars bool
	tagName           string
	decodeHooks       mapstructure.DecodeHookFunc
}

type DecoderOption func(opts *decoderOpts)

func WithValidator(validator validation.Validator) DecoderOption {
	return func(opts *decoderOpts) {
		if validator != nil {
			opts.validator = validator
		}
	}
}

func WithErrorOnUnused(flag bool) DecoderOption {
	return func(opts *decoderOpts) {
		opts.errorOnUnused = flag
	}
}

func WithEnvVarsSubstitution(flag bool) DecoderOption {
	return func(opts *decoderOpts) {
		opts.substituteEnvVars = flag
	}
}

func WithTagName(name string) DecoderOption {
	return func(opts *decoderOpts) {
		if len(name) != 0 {
			opts.tagName = name
		}
	}
}

func WithDecodeHooks(hooks ...mapstructure.DecodeHookFunc) DecoderOption {
	return func(opts *decoderOpts) {
		if len(hooks) != 0 {
			opts.decodeHooks = mapstructure.ComposeDecodeHookFunc(hooks...)
		}
	}
}
