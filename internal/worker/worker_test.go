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

package worker

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sensorbridge/agent/internal/logs"
	"github.com/sensorbridge/agent/internal/registry"
	"github.com/sensorbridge/agent/internal/sensor"
	"github.com/sensorbridge/agent/internal/transport"
)

type fakeSender struct {
	sendCount atomic.Int32
	failFirst bool
	closed    atomic.Bool
}

func (f *fakeSender) Send(ctx context.Context, envelope transport.Envelope) error {
	n := f.sendCount.Add(1)
	if f.failFirst && n == 1 {
		return apierrorsTransient()
	}
	return nil
}

func (f *fakeSender) Close() error {
	f.closed.Store(true)
	return nil
}

func apierrorsTransient() error {
	return &transientErr{}
}

type transientErr struct{}

func (*transientErr) Error() string { return "transient send failure" }

type fakeBundle struct{}

func (fakeBundle) ReadPrepareData(cfg registry.DisplayConfig) (map[string][]byte, map[string][]byte, map[string][]byte) {
	return map[string][]byte{}, map[string][]byte{}, map[string][]byte{}
}

func newTestHandle(t *testing.T, host string) (*Handle, *registry.Registry, *fakeSender) {
	t.Helper()
	logger, _ := logs.DiscardLogger()

	reg, err := registry.New(filepath.Join(t.TempDir(), "config.json"), logger)
	if err != nil {
		t.Fatalf("registry.New() error: %v", err)
	}
	client, err := reg.Register("aa:bb:cc:dd:ee:ff", host, 800, 480, "")
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if err := reg.SetActive(client.MACAddress, true); err != nil {
		t.Fatalf("SetActive() error: %v", err)
	}

	aggregator := sensor.NewAggregator(logger, nil, nil)
	history := sensor.NewHistory(10)

	h := NewHandle(client.MACAddress, host, 30*time.Millisecond, aggregator, history, nil, reg, fakeBundle{}, logger)
	sender := &fakeSender{}
	h.newSender = func(addr string) Sender { return sender }
	return h, reg, sender
}

func TestHandleStopsWithinPushRatePlusEpsilon(t *testing.T) {
	h, _, _ := newTestHandle(t, "127.0.0.1")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	start := time.Now()
	go h.Run(ctx)

	// Let it finish preparing and enter the settle wait before requesting a stop.
	time.Sleep(50 * time.Millisecond)
	h.Stop()

	select {
	case <-h.Done():
	case <-time.After(h.pushRate + 200*time.Millisecond):
		t.Fatal("worker did not terminate within pushRate + epsilon of Stop()")
	}

	if h.State() != Terminated {
		t.Fatalf("State() = %v, want Terminated", h.State())
	}
	_ = start
}

func TestHandleUnresolvedHostDeactivatesClient(t *testing.T) {
	h, reg, _ := newTestHandle(t, "not a valid host!!")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.Run(ctx)

	client, err := reg.Get("aa:bb:cc:dd:ee:ff")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if client.Active {
		t.Fatal("Run() with an unresolved host left the client active, want deactivated")
	}
	if h.State() != Terminated {
		t.Fatalf("State() = %v, want Terminated", h.State())
	}
}

func TestHandleSendFailureReconnectsOnce(t *testing.T) {
	h, _, sender := newTestHandle(t, "127.0.0.1")
	sender.failFirst = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Run(ctx)
	time.Sleep(80 * time.Millisecond)
	h.Stop()
	<-h.Done()

	if sender.sendCount.Load() < 2 {
		t.Fatalf("sendCount = %d, want at least 2 (failed prepare send + resend after reconnecting)", sender.sendCount.Load())
	}
}
