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
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sensorbridge/agent/internal/logs"
)

type fakeProvider struct {
	name    string
	values  []Value
	panics  bool
	current *int32
	peak    *int32
}

func (p fakeProvider) Name() string { return p.name }

func (p fakeProvider) Collect(ctx context.Context) []Value {
	if p.current != nil && p.peak != nil {
		n := atomic.AddInt32(p.current, 1)
		for {
			peak := atomic.LoadInt32(p.peak)
			if n <= peak || atomic.CompareAndSwapInt32(p.peak, peak, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(p.current, -1)
	}
	if p.panics {
		panic("boom")
	}
	return p.values
}

type fakeStaticProvider struct {
	name   string
	values []Value
}

func (p fakeStaticProvider) Name() string { return p.name }

func (p fakeStaticProvider) CollectStatic(ctx context.Context) []Value { return p.values }

func TestReadSnapshotMergesSortsAndInserts(t *testing.T) {
	logger, _ := logs.DiscardLogger()
	providers := []Provider{
		fakeProvider{name: "b", values: []Value{{ID: "b1", Label: "Bravo"}}},
		fakeProvider{name: "a", values: []Value{{ID: "a1", Label: "Alpha"}}},
	}
	agg := NewAggregator(logger, providers, nil)
	history := NewHistory(10)

	static := []Value{{ID: "s1", Label: "Charlie"}}
	snap := agg.ReadSnapshot(context.Background(), static, history)

	if len(snap) != 3 {
		t.Fatalf("len(snap) = %d, want 3 (2 dynamic + 1 static)", len(snap))
	}
	if !snap.SortedByLabel() {
		t.Fatalf("snapshot not sorted by label: %v", snap)
	}
	if !snap.IDsUnique() {
		t.Fatalf("snapshot IDs not unique: %v", snap)
	}
	if history.Len() != 1 {
		t.Fatalf("history.Len() = %d, want 1 after one ReadSnapshot call", history.Len())
	}
}

func TestReadSnapshotRecoversPanickingProvider(t *testing.T) {
	logger, observed := logs.DiscardLogger()
	providers := []Provider{
		fakeProvider{name: "ok", values: []Value{{ID: "ok1", Label: "OK"}}},
		fakeProvider{name: "bad", panics: true},
	}
	agg := NewAggregator(logger, providers, nil)
	history := NewHistory(10)

	snap := agg.ReadSnapshot(context.Background(), nil, history)

	if len(snap) != 1 || snap[0].ID != "ok1" {
		t.Fatalf("snap = %v, want only the non-panicking provider's value", snap)
	}
	if observed.Len() == 0 {
		t.Fatal("expected the panicking provider to log an error, got no log entries")
	}
}

func TestReadSnapshotBoundsConcurrency(t *testing.T) {
	logger, _ := logs.DiscardLogger()
	var current, peak int32

	providers := make([]Provider, 0, maxConcurrentProviders*3)
	for i := 0; i < maxConcurrentProviders*3; i++ {
		providers = append(providers, fakeProvider{
			name:    fmt.Sprintf("p%d", i),
			current: &current,
			peak:    &peak,
		})
	}
	agg := NewAggregator(logger, providers, nil)
	history := NewHistory(10)

	agg.ReadSnapshot(context.Background(), nil, history)

	if got := atomic.LoadInt32(&peak); got > maxConcurrentProviders {
		t.Fatalf("peak concurrent providers = %d, want <= %d", got, maxConcurrentProviders)
	}
}

func TestReadStaticCollectsStaticValues(t *testing.T) {
	logger, observed := logs.DiscardLogger()
	statics := []StaticProvider{
		fakeStaticProvider{name: "board", values: []Value{{ID: "smbios_board", Label: "Board"}}},
	}
	agg := NewAggregator(logger, nil, statics)

	out := agg.ReadStatic(context.Background())
	if len(out) != 1 || out[0].ID != "smbios_board" {
		t.Fatalf("ReadStatic() = %v, want the single static value", out)
	}
	if observed.Len() != 0 {
		t.Fatalf("expected no log entries for a non-panicking static provider, got %d", observed.Len())
	}
}
