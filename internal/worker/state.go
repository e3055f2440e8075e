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

// Package worker implements the legacy push-mode client sync supervisor
// (spec.md §4.7), gated behind an explicit flag: the HTTP pull plane in
// internal/httpapi is authoritative.
package worker

// State is one stage of a worker's lifecycle (spec.md §4.7):
//
//	Idle -> Connecting -> Preparing -> Streaming -> (Reconnecting -> Streaming)* -> Terminated
//
// Connecting transitions straight to Terminated if the host cannot be
// resolved, or if running is already false once it has resolved.
type State int

const (
	Idle State = iota
	Connecting
	Preparing
	Streaming
	Reconnecting
	Terminated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Connecting:
		return "connecting"
	case Preparing:
		return "preparing"
	case Streaming:
		return "streaming"
	case Reconnecting:
		return "reconnecting"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}
