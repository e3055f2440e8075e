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
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/sensorbridge/agent/internal/logs"
)

// maxConcurrentProviders bounds how many providers sample at once, so a
// high-core-count host doesn't saturate on the 250ms-blocking probes
// (spec.md §4.2).
const maxConcurrentProviders = 3

// Aggregator fans providers out in parallel, merges their readings with
// the static values, sorts by label, and inserts the result into History.
type Aggregator struct {
	providers []Provider
	statics   []StaticProvider
	sem       *semaphore.Weighted
	logger    logs.StructuredLogger
}

func NewAggregator(logger logs.StructuredLogger, providers []Provider, statics []StaticProvider) *Aggregator {
	return &Aggregator{
		providers: providers,
		statics:   statics,
		sem:       semaphore.NewWeighted(maxConcurrentProviders),
		logger:    logger,
	}
}

// ReadStatic runs every StaticProvider once. Call at startup and pass the
// result into every ReadSnapshot call (spec.md §4.2).
func (a *Aggregator) ReadStatic(ctx context.Context) []Value {
	var (
		mu  sync.Mutex
		out []Value
		wg  sync.WaitGroup
	)
	for _, p := range a.statics {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer a.recoverProvider(p.Name())
			values := p.CollectStatic(ctx)
			mu.Lock()
			out = append(out, values...)
			mu.Unlock()
		}()
	}
	wg.Wait()
	return out
}

// ReadSnapshot runs every enabled provider concurrently (bounded to
// maxConcurrentProviders), concatenates the result with staticValues,
// sorts by label, and inserts the snapshot into history at index 0,
// truncating to history's capacity (spec.md §4.2).
//
// Every completed call produces exactly one history entry: the snapshot
// is built entirely in a local slice and only inserted once providers
// have all returned, so a panicking provider goroutine (recovered below)
// never leaves history's own state half-updated.
func (a *Aggregator) ReadSnapshot(ctx context.Context, staticValues []Value, history *History) Snapshot {
	var (
		mu       sync.Mutex
		dynamic  []Value
		wg       sync.WaitGroup
	)
	for _, p := range a.providers {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := a.sem.Acquire(ctx, 1); err != nil {
				return
			}
			defer a.sem.Release(1)
			defer a.recoverProvider(p.Name())

			values := p.Collect(ctx)
			mu.Lock()
			dynamic = append(dynamic, values...)
			mu.Unlock()
		}()
	}
	wg.Wait()

	snap := make(Snapshot, 0, len(staticValues)+len(dynamic))
	snap = append(snap, staticValues...)
	snap = append(snap, dynamic...)
	sortByLabel(snap)

	history.Insert(snap)
	return snap
}

// recoverProvider keeps one misbehaving provider from taking the whole
// snapshot down; it logs and swallows, matching the "provider never fails
// the aggregator" contract in spec.md §4.1.
func (a *Aggregator) recoverProvider(name string) {
	if r := recover(); r != nil {
		if a.logger != nil {
			a.logger.Errorf("provider %q panicked during collection: %v", name, r)
		}
	}
}
