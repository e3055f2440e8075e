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

	"github.com/sensorbridge/agent/internal/platform"
)

// HWMonProvider queries a WMI-like namespace for third-party
// hardware-monitor values (spec.md §4.1). The real query runs only on
// Windows (see providers_hwmon_windows.go); on every other platform this
// returns empty, matching the "returns empty on others" contract for a
// platform-bound provider that nonetheless presents itself unconditionally
// (spec.md §9).
type HWMonProvider struct{}

func (HWMonProvider) Name() string { return "hwmon" }

func (HWMonProvider) Collect(ctx context.Context) []Value {
	if !platform.FromContext(ctx).Is(platform.Windows) {
		return nil
	}
	return queryHardwareMonitor()
}
