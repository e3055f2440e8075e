// Copyright 2026 The Sensorbridge Agent Authors
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

package sensor

import (
	"context"
	"testing"

	"github.com/sensorbridge/agent/internal/platform"
)

func TestGPUProviderSkipsWalkOnWindows(t *testing.T) {
	ctx := platform.Platform{Type: platform.Windows}.TestContext(context.Background())

	got := GPUProvider{}.Collect(ctx)
	if got != nil {
		t.Fatalf("Collect() on a forced-Windows context = %v, want nil", got)
	}
}

func TestHWMonProviderSkipsQueryOffWindows(t *testing.T) {
	ctx := platform.Platform{Type: platform.Linux}.TestContext(context.Background())

	got := HWMonProvider{}.Collect(ctx)
	if got != nil {
		t.Fatalf("Collect() on a forced-Linux context = %v, want nil", got)
	}
}
