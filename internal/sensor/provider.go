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

import "context"

// Provider is the capability every sensor source implements: a name and a
// bounded-blocking collect. A provider never fails the aggregator — on any
// internal error, or when its source is absent on this OS, it returns an
// empty slice (spec.md §4.1, §7 ErrProviderUnavailable).
type Provider interface {
	Name() string
	Collect(ctx context.Context) []Value
}

// StaticProvider is probed once at startup (spec.md §4.2 ReadStatic), for
// sources like SMBIOS/DMI board identity that never change during the
// process lifetime.
type StaticProvider interface {
	Name() string
	CollectStatic(ctx context.Context) []Value
}
