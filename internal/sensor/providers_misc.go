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
	"time"
)

// MiscProvider reports the wall-clock time as text (spec.md §4.1).
type MiscProvider struct {
	now func() time.Time
}

func NewMiscProvider() MiscProvider {
	return MiscProvider{now: time.Now}
}

func (MiscProvider) Name() string { return "misc" }

func (p MiscProvider) Collect(ctx context.Context) []Value {
	now := p.now
	if now == nil {
		now = time.Now
	}
	return []Value{
		{ID: "misc_time", Label: "Time", Value: now().Format("15:04:05"), Type: Text},
		{ID: "misc_date", Label: "Date", Value: now().Format("2006-01-02"), Type: Text},
	}
}
