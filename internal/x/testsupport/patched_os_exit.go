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

package testsupport

import (
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/undefinedlabs/go-mpatch"
)

// ExitRecorder captures calls to os.Exit while patched.
type ExitRecorder struct {
	mu     sync.Mutex
	called bool
	code   int
}

func (r *ExitRecorder) Called() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.called
}

func (r *ExitRecorder) Code() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.code
}

// PatchOSExit replaces os.Exit for the lifetime of the test. The process keeps running after
// the patched call, so code following os.Exit is executed as well.
func PatchOSExit(t *testing.T) *ExitRecorder {
	t.Helper()

	recorder := &ExitRecorder{}

	patch, err := mpatch.PatchMethod(os.Exit, func(code int) {
		recorder.mu.Lock()
		defer recorder.mu.Unlock()

		recorder.called = true
		recorder.code = code
	})
	require.NoError(t, err)

	t.Cleanup(func() { _ = patch.Unpatch() })

	return recorder
}
