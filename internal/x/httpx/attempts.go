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

package httpx

import (
	"context"
	"net/http"
	"sync/atomic"
)

type attemptsKey struct{}

// Attempts counts the requests sent on the wire for one logical request, retries included.
type Attempts struct {
	count atomic.Int32
}

func (a *Attempts) Count() int { return int(a.count.Load()) }

// WithAttemptCounter returns a context carrying a fresh attempts counter.
func WithAttemptCounter(ctx context.Context) (context.Context, *Attempts) {
	attempts := &Attempts{}

	return context.WithValue(ctx, attemptsKey{}, attempts), attempts
}

func AttemptsFromContext(ctx context.Context) *Attempts {
	attempts, _ := ctx.Value(attemptsKey{}).(*Attempts)

	return attempts
}

type countingRoundTripper struct {
	t http.RoundTripper
}

// NewCountingRoundTripper increments the attempts counter of the request context, if any,
// for every request passed through it. It must sit below any retrying round tripper.
func NewCountingRoundTripper(rt http.RoundTripper) http.RoundTripper {
	return &countingRoundTripper{t: rt}
}

func (c *countingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if attempts := AttemptsFromContext(req.Context()); attempts != nil {
		attempts.count.Add(1)
	}

	return c.t.RoundTrip(req)
}
