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
	"errors"
)

var (
	ErrConfiguration        = errors.New("configuration error")
	ErrCommunication        = errors.New("communication error")
	ErrCommunicationTimeout = errors.New("communication timeout error")
	ErrFormat               = errors.New("format error")
	ErrParse                = errors.New("parse error")
	ErrInternal             = errors.New("internal error")
)

const (
	KindConfiguration = "configuration"
	KindTransport     = "transport"
	KindTimeout       = "timeout"
	KindFormat        = "format"
	KindParse         = "parse"
	KindInternal      = "internal"
	KindNone          = "none"
)

// Classify maps an error to the kind reported to operators. Timeouts are checked before
// generic communication failures since a timeout error chain carries both sentinels.
func Classify(err error) string {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrCommunicationTimeout):
		return KindTimeout
	case errors.Is(err, ErrCommunication):
		return KindTransport
	case errors.Is(err, ErrFormat):
		return KindFormat
	case errors.Is(err, ErrParse):
		return KindParse
	default:
		return KindInternal
	}
}
