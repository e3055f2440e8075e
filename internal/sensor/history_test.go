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
	"fmt"
	"sync"
	"testing"
)

func TestHistoryInsertNewestFirst(t *testing.T) {
	h := NewHistory(10)
	first := Snapshot{{ID: "a", Value: "1"}}
	second := Snapshot{{ID: "a", Value: "2"}}

	h.Insert(first)
	h.Insert(second)

	if got := h.Latest(); got[0].Value != "2" {
		t.Fatalf("Latest() = %v, want the second inserted snapshot", got)
	}
	snaps := h.Snapshots()
	if len(snaps) != 2 || snaps[0][0].Value != "2" || snaps[1][0].Value != "1" {
		t.Fatalf("Snapshots() = %v, want newest-first [2, 1]", snaps)
	}
}

func TestHistoryTruncatesToCapacity(t *testing.T) {
	const capacity = 5
	h := NewHistory(capacity)

	for i := 0; i < capacity*3; i++ {
		h.Insert(Snapshot{{ID: "a", Value: fmt.Sprintf("%d", i)}})
	}

	if got := h.Len(); got != capacity {
		t.Fatalf("Len() = %d, want %d", got, capacity)
	}

	snaps := h.Snapshots()
	if snaps[0][0].Value != fmt.Sprintf("%d", capacity*3-1) {
		t.Fatalf("newest entry = %v, want the most recently inserted value", snaps[0])
	}
	if snaps[capacity-1][0].Value != fmt.Sprintf("%d", capacity*2) {
		t.Fatalf("oldest retained entry = %v, want the capacity-th most recent insert", snaps[capacity-1])
	}
}

func TestHistoryDefaultCapacity(t *testing.T) {
	h := NewHistory(0)
	if h.capacity != DefaultCapacity {
		t.Fatalf("capacity = %d, want DefaultCapacity (%d) when constructed with <= 0", h.capacity, DefaultCapacity)
	}
}

func TestHistoryLatestEmpty(t *testing.T) {
	h := NewHistory(10)
	if got := h.Latest(); got != nil {
		t.Fatalf("Latest() on empty history = %v, want nil", got)
	}
}

func TestHistorySeriesSkipsAbsentSensor(t *testing.T) {
	h := NewHistory(10)
	h.Insert(Snapshot{{ID: "cpu_load", Value: "10"}})
	h.Insert(Snapshot{{ID: "mem_used", Value: "512"}})
	h.Insert(Snapshot{{ID: "cpu_load", Value: "30"}})

	series := h.Series("cpu_load")
	if len(series) != 2 {
		t.Fatalf("Series(cpu_load) = %v, want 2 entries (skipping the snapshot without it)", series)
	}
	if series[0].Value != "30" || series[1].Value != "10" {
		t.Fatalf("Series(cpu_load) = %v, want newest-first [30, 10]", series)
	}
}

func TestHistoryConcurrentInsertDoesNotRace(t *testing.T) {
	h := NewHistory(100)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Insert(Snapshot{{ID: "a", Value: fmt.Sprintf("%d", i)}})
		}()
	}
	wg.Wait()

	if got := h.Len(); got != 50 {
		t.Fatalf("Len() = %d, want 50 after 50 concurrent inserts", got)
	}
}
