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

import "testing"

func TestSortByLabelStable(t *testing.T) {
	values := []Value{
		{ID: "b1", Label: "Bravo"},
		{ID: "a2", Label: "Alpha"},
		{ID: "a1", Label: "Alpha"},
		{ID: "c1", Label: "Charlie"},
	}
	sortByLabel(values)

	want := []string{"a2", "a1", "b1", "c1"}
	for i, id := range want {
		if values[i].ID != id {
			t.Fatalf("position %d: got %q, want %q (stability broken)", i, values[i].ID, id)
		}
	}
}

func TestSnapshotFind(t *testing.T) {
	snap := Snapshot{
		{ID: "cpu_load", Label: "CPU Load", Value: "12.0"},
		{ID: "mem_used", Label: "Memory Used", Value: "512"},
	}

	if v, ok := snap.Find("mem_used"); !ok || v.Value != "512" {
		t.Fatalf("Find(mem_used) = %v, %v", v, ok)
	}
	if _, ok := snap.Find("missing"); ok {
		t.Fatal("Find(missing) unexpectedly found a value")
	}
}

func TestSnapshotIDsUnique(t *testing.T) {
	unique := Snapshot{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	if !unique.IDsUnique() {
		t.Fatal("expected unique IDs to be reported unique")
	}

	dup := Snapshot{{ID: "a"}, {ID: "b"}, {ID: "a"}}
	if dup.IDsUnique() {
		t.Fatal("expected duplicate IDs to be reported non-unique")
	}
}

func TestSnapshotSortedByLabel(t *testing.T) {
	sorted := Snapshot{{Label: "Alpha"}, {Label: "Bravo"}, {Label: "Charlie"}}
	if !sorted.SortedByLabel() {
		t.Fatal("expected snapshot to be reported sorted")
	}

	unsorted := Snapshot{{Label: "Charlie"}, {Label: "Alpha"}}
	if unsorted.SortedByLabel() {
		t.Fatal("expected snapshot to be reported unsorted")
	}
}
