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

package event

import (
	"os"

	"github.com/permitio/opal-fetcher-ceph/internal/encoding"
	"github.com/permitio/opal-fetcher-ceph/internal/fetcher"
	"github.com/permitio/opal-fetcher-ceph/internal/validation"
)

// Load reads a fetch event from a YAML or JSON file. Environment variables referenced
// in the file are substituted before decoding.
func Load(path string) (fetcher.Event, error) {
	var event fetcher.Event

	file, err := os.Open(path)
	if err != nil {
		return event, err
	}

	defer file.Close()

	dec := encoding.NewDecoder(
		encoding.WithEnvVarsSubstitution(true),
		encoding.WithErrorOnUnused(true),
		encoding.WithValidator(validation.DefaultValidator()),
	)

	err = dec.Decode(&event, file)

	return event, err
}
