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
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/sensorbridge/agent/internal/logs"
	"github.com/sensorbridge/agent/internal/registry"
	"github.com/sensorbridge/agent/internal/sensor"
	"github.com/sensorbridge/agent/internal/transport"
)

// DefaultPushRate is P from spec.md §4.7 step 4.
const DefaultPushRate = 1000 * time.Millisecond

// prepareSettleDelay is the fixed wait after the prepare phase, giving
// the display time to commit the bundle to local storage before frames
// arrive (spec.md §4.7 step 3). Run checks the running flag at least once
// per push period during the wait, so Stop still ends it within P + ε.
const prepareSettleDelay = 1 * time.Second

// reconnectMaxElapsedTime bounds how long a single reconnect attempt is
// allowed to retry before giving up and letting the next tick try again.
const reconnectMaxElapsedTime = 10 * time.Second

// senderFactory builds a Sender for a resolved address; overridden in
// tests to avoid a real network dependency.
type senderFactory func(addr string) Sender

// Handle is one active client's push-mode worker (spec.md §4.7).
type Handle struct {
	mac          string
	host         string
	pushRate     time.Duration
	aggregator   *sensor.Aggregator
	history      *sensor.History
	staticValues []sensor.Value
	reg          *registry.Registry
	bundle       bundleReader
	newSender    senderFactory
	logger       logs.StructuredLogger

	state   atomic.Int32
	running atomic.Bool
	done    chan struct{}
}

// bundleReader supplies the prepare-phase payloads; implemented by
// internal/assets in production, faked in tests.
type bundleReader interface {
	ReadPrepareData(cfg registry.DisplayConfig) (text, staticImage, conditionalImage map[string][]byte)
}

// NewHandle builds a worker for one client. host is the display's address
// (dotted-quad, hostname, or the client's last-known IP).
func NewHandle(mac, host string, pushRate time.Duration, aggregator *sensor.Aggregator, history *sensor.History, staticValues []sensor.Value, reg *registry.Registry, bundle bundleReader, logger logs.StructuredLogger) *Handle {
	if pushRate <= 0 {
		pushRate = DefaultPushRate
	}
	h := &Handle{
		mac:          mac,
		host:         host,
		pushRate:     pushRate,
		aggregator:   aggregator,
		history:      history,
		staticValues: staticValues,
		reg:          reg,
		bundle:       bundle,
		newSender:    func(addr string) Sender { return newHTTPSender(addr) },
		logger:       logger,
		done:         make(chan struct{}),
	}
	h.state.Store(int32(Idle))
	h.running.Store(true)
	return h
}

// State returns the worker's current lifecycle stage.
func (h *Handle) State() State { return State(h.state.Load()) }

func (h *Handle) setState(s State) { h.state.Store(int32(s)) }

// Stop requests termination; Run returns once the current iteration
// notices running=false (spec.md §4.7 step 6, §8 property 8: within
// P + ε of the request).
func (h *Handle) Stop() { h.running.Store(false) }

// Done is closed once Run has fully terminated, for callers that want to
// join the worker.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Run drives the worker state machine until Stop is called or ctx is
// canceled. It blocks until Terminated.
func (h *Handle) Run(ctx context.Context) {
	defer close(h.done)
	defer h.setState(Terminated)

	h.setState(Connecting)
	addr, err := resolveAddress(h.host)
	if err != nil {
		h.logger.Warnf("worker %s: %v", h.mac, err)
		h.deactivate()
		return
	}
	if !h.running.Load() {
		return
	}

	sender := h.newSender(addr)
	defer func() { sender.Close() }()

	h.setState(Preparing)
	if err := h.runPrepare(ctx, sender); err != nil {
		h.logger.Warnf("worker %s: prepare phase failed, reconnecting: %v", h.mac, err)
		h.setState(Reconnecting)
		sender.Close()
		sender = h.newSender(addr)
		h.setState(Preparing)
		if err := h.runPrepare(ctx, sender); err != nil {
			h.logger.Warnf("worker %s: prepare phase failed after reconnect: %v", h.mac, err)
		}
	}
	settleUntil := time.Now().Add(prepareSettleDelay)
	for wait := time.Until(settleUntil); wait > 0; wait = time.Until(settleUntil) {
		if !h.running.Load() {
			return
		}
		select {
		case <-time.After(min(wait, h.pushRate)):
		case <-ctx.Done():
			return
		}
	}

	h.setState(Streaming)
	h.runFrameLoop(ctx, sender)
}

func (h *Handle) runPrepare(ctx context.Context, sender Sender) error {
	client, err := h.reg.Get(h.mac)
	if err != nil {
		return err
	}
	text, staticImage, conditionalImage := h.bundle.ReadPrepareData(client.DisplayConfig)

	messages := []struct {
		kind transport.Type
		data map[string][]byte
	}{
		{transport.PrepareText, text},
		{transport.PrepareStaticImage, staticImage},
		{transport.PrepareConditionalImage, conditionalImage},
	}
	for _, m := range messages {
		encoded, err := encodeAssetMap(m.data)
		if err != nil {
			return err
		}
		if err := sender.Send(ctx, transport.Envelope{Type: m.kind, Data: encoded}); err != nil {
			return err
		}
	}
	return nil
}

// runFrameLoop implements spec.md §4.7 steps 4-5: one RenderImage per
// tick at a fixed rate. A send failure moves the worker to Reconnecting,
// where it retries resolve-and-send on an exponential backoff schedule
// (bounded by reconnectMaxElapsedTime) the same way
// internal/healthchecks/network_check.go retries a flaky request; if the
// schedule is exhausted, the worker gives up for this tick and the next
// tick tries again from Streaming.
func (h *Handle) runFrameLoop(ctx context.Context, sender Sender) {
	for h.running.Load() {
		tickStart := time.Now()

		client, err := h.reg.Get(h.mac)
		if err != nil {
			h.logger.Warnf("worker %s: client vanished from registry, terminating: %v", h.mac, err)
			return
		}

		snapshot := h.aggregator.ReadSnapshot(ctx, h.staticValues, h.history)
		frame := transport.RenderFrame{
			DisplayConfig: client.DisplayConfig,
			SensorValues:  toWireValues(snapshot),
		}
		data, err := transport.EncodeRenderFrame(frame)
		if err == nil {
			envelope := transport.Envelope{Type: transport.RenderImage, Data: data}
			if sendErr := sender.Send(ctx, envelope); sendErr != nil {
				h.setState(Reconnecting)
				h.logger.Warnf("worker %s: send failed, reconnecting: %v", h.mac, sendErr)
				if newSender, reconnectErr := h.reconnect(ctx, sender, envelope); reconnectErr == nil {
					sender = newSender
				} else {
					h.logger.Warnf("worker %s: reconnect exhausted: %v", h.mac, reconnectErr)
				}
				h.setState(Streaming)
			}
		}

		elapsed := time.Since(tickStart)
		if elapsed > h.pushRate {
			h.logger.Warnf("worker %s: frame tick took %s, exceeding push rate %s", h.mac, elapsed, h.pushRate)
			continue
		}

		select {
		case <-time.After(h.pushRate - elapsed):
		case <-ctx.Done():
			return
		}
	}
}

// reconnect retries address resolution and one envelope send on an
// exponential backoff schedule until it succeeds or bf.MaxElapsedTime
// runs out, returning the sender that succeeded.
func (h *Handle) reconnect(ctx context.Context, sender Sender, envelope transport.Envelope) (Sender, error) {
	bf := backoff.NewExponentialBackOff()
	bf.InitialInterval = 200 * time.Millisecond
	bf.MaxElapsedTime = reconnectMaxElapsedTime
	ticker := backoff.NewTicker(bf)
	defer ticker.Stop()

	var lastErr error
	for range ticker.C {
		addr, err := resolveAddress(h.host)
		if err != nil {
			lastErr = err
			continue
		}
		candidate := h.newSender(addr)
		if err := candidate.Send(ctx, envelope); err != nil {
			candidate.Close()
			lastErr = err
			continue
		}
		return candidate, nil
	}
	if lastErr == nil {
		lastErr = ctx.Err()
	}
	return nil, lastErr
}

func (h *Handle) deactivate() {
	if err := h.reg.SetActive(h.mac, false); err != nil {
		h.logger.Warnf("worker %s: failed to deactivate after unresolved host: %v", h.mac, err)
	}
}

func toWireValues(snap sensor.Snapshot) []transport.SensorValueWire {
	out := make([]transport.SensorValueWire, 0, len(snap))
	for _, v := range snap {
		out = append(out, transport.SensorValueWire{
			ID:    v.ID,
			Label: v.Label,
			Value: v.Value,
			Unit:  v.Unit,
			Type:  int(v.Type),
		})
	}
	return out
}

// Supervisor owns one Handle per active push-mode client.
type Supervisor struct {
	mu      sync.Mutex
	workers map[string]*Handle
	cancel  map[string]context.CancelFunc
}

func NewSupervisor() *Supervisor {
	return &Supervisor{
		workers: make(map[string]*Handle),
		cancel:  make(map[string]context.CancelFunc),
	}
}

// Start launches (or restarts) the worker for mac.
func (s *Supervisor) Start(parent context.Context, h *Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cancel, ok := s.cancel[h.mac]; ok {
		cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	s.workers[h.mac] = h
	s.cancel[h.mac] = cancel
	go h.Run(ctx)
}

// Stop requests termination of mac's worker and waits for it to join.
func (s *Supervisor) Stop(mac string) {
	s.mu.Lock()
	h, ok := s.workers[mac]
	cancel := s.cancel[mac]
	if ok {
		delete(s.workers, mac)
		delete(s.cancel, mac)
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	h.Stop()
	<-h.Done()
	cancel()
}

// StopAll terminates every running worker, used at shutdown.
func (s *Supervisor) StopAll() {
	s.mu.Lock()
	macs := make([]string, 0, len(s.workers))
	for mac := range s.workers {
		macs = append(macs, mac)
	}
	s.mu.Unlock()

	for _, mac := range macs {
		s.Stop(mac)
	}
}
