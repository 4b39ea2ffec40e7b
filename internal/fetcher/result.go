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

package fetcher

import (
	"time"
)

const (
	OutcomeSuccess = "success"
	OutcomeSkipped = "skipped"
)

// Result is the outcome of running one fetch event.
type Result struct {
	Fetcher  string
	URL      string
	Data     any
	Skipped  bool
	Err      error
	Attempts int
	Duration time.Duration
}

// Outcome is either OutcomeSuccess, OutcomeSkipped or the error kind as returned by Classify.
func (r Result) Outcome() string {
	switch {
	case r.Err != nil:
		return Classify(r.Err)
	case r.Skipped:
		return OutcomeSkipped
	default:
		return OutcomeSuccess
	}
}
