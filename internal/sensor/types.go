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

// Package sensor implements the provider fan-out and the rolling history
// described in spec.md §3 and §4.1-§4.2.
package sensor

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Type distinguishes how a Value's textual payload should be interpreted
// by conditional-image matching and graph plotting.
type Type int

const (
	Number Type = iota
	Text
)

// String renders Type the way it's marshaled on the wire (spec.md §3).
func (t Type) String() string {
	switch t {
	case Number:
		return "number"
	case Text:
		return "text"
	default:
		return "unknown"
	}
}

// MarshalJSON emits Type as the "number"/"text" tag the remote display
// expects in render_data.sensor_values (spec.md §3), not the bare int.
func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts the "number"/"text" wire tag.
func (t *Type) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "number":
		*t = Number
	case "text":
		*t = Text
	default:
		return fmt.Errorf("sensor: unknown Type %q", s)
	}
	return nil
}

// Value is an immutable sensor reading. Once constructed by a Provider it
// is only ever read, never mutated (spec.md §3).
type Value struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
	Unit  string `json:"unit"`
	Type  Type   `json:"sensor_type"`
}

// Snapshot is one aggregated, sorted-by-label reading of every enabled
// provider plus the static values, taken atomically (spec.md §3).
type Snapshot []Value

// sortByLabel orders values by label, the invariant §8 property 2 checks.
func sortByLabel(values []Value) {
	sort.SliceStable(values, func(i, j int) bool {
		return values[i].Label < values[j].Label
	})
}

// Find returns the value matching id, and whether it was present. Used by
// the renderer's text/graph/conditional-image substitution.
func (s Snapshot) Find(id string) (Value, bool) {
	for _, v := range s {
		if v.ID == id {
			return v, true
		}
	}
	return Value{}, false
}

// IDsUnique reports whether every Value.ID in the snapshot is distinct,
// the invariant §8 property 2 checks.
func (s Snapshot) IDsUnique() bool {
	seen := make(map[string]struct{}, len(s))
	for _, v := range s {
		if _, ok := seen[v.ID]; ok {
			return false
		}
		seen[v.ID] = struct{}{}
	}
	return true
}

// SortedByLabel reports whether the snapshot is ordered by label.
func (s Snapshot) SortedByLabel() bool {
	return sort.SliceIsSorted(s, func(i, j int) bool {
		return s[i].Label < s[j].Label
	})
}
