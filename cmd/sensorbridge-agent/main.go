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

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sensorbridge/agent/internal/apierrors"
	"github.com/sensorbridge/agent/internal/assets"
	"github.com/sensorbridge/agent/internal/httpapi"
	"github.com/sensorbridge/agent/internal/logs"
	"github.com/sensorbridge/agent/internal/platform"
	"github.com/sensorbridge/agent/internal/registry"
	"github.com/sensorbridge/agent/internal/sensor"
	"github.com/sensorbridge/agent/internal/verify"
	"github.com/sensorbridge/agent/internal/worker"
)

const defaultAppName = "sensorbridge-agent"

var (
	httpPort       = flag.Int("port", 0, "HTTP API port; overrides the registry's stored http_port when set")
	logFile        = flag.String("log-file", "", "path to the rotated log file; stderr when empty")
	overlayLogDir  = flag.String("overlay-log-dir", "", "directory MangoHud writes its CSV session logs to")
	historySize    = flag.Int("history-size", sensor.DefaultCapacity, "number of snapshots retained in the rolling history")
	sampleInterval = flag.Duration("sample-interval", 1*time.Second, "interval between aggregator snapshots")
	pushMode       = flag.Bool("push-mode", false, "also run the legacy push-mode worker supervisor for active clients")
	pushRate       = flag.Duration("push-rate", worker.DefaultPushRate, "push-mode frame interval")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatalf("sensorbridge-agent: %v", err)
	}
}

func run() error {
	appName := os.Getenv("SENSORBRIDGE_APP_NAME")
	if appName == "" {
		appName = defaultAppName
	}

	logger := logs.New(*logFile, "agent")
	ctx := context.Background()
	p := platform.FromContext(ctx)
	logger.Infof("starting %s on %s (%s)", appName, p.Name(), p.Hostname())

	configPath, err := registry.ConfigPath(appName)
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}
	reg, err := registry.New(configPath, logger)
	if err != nil {
		return fmt.Errorf("loading registry: %w", err)
	}
	if *httpPort != 0 {
		if err := reg.SetHTTPPort(*httpPort); err != nil {
			return fmt.Errorf("setting http port: %w", err)
		}
	}

	cachePath, err := assets.CachePath(appName)
	if err != nil {
		return fmt.Errorf("resolving cache path: %w", err)
	}
	cache, err := assets.NewCache(cachePath, logger)
	if err != nil {
		return fmt.Errorf("initializing asset cache: %w", err)
	}
	preparers := assets.NewPreparers(logger)
	verifiers := verify.Default(verify.NewReacher())

	providers := []sensor.Provider{
		sensor.CPUProvider{},
		sensor.MemProvider{},
		sensor.UptimeProvider{},
		sensor.DiskProvider{},
		sensor.NetProvider{},
		sensor.GPUProvider{},
		sensor.HWMonProvider{},
		sensor.VoltageProvider{},
		sensor.NewMiscProvider(),
		sensor.NewOverlayProvider(*overlayLogDir),
	}
	statics := []sensor.StaticProvider{sensor.NewSMBIOSProvider()}

	aggregator := sensor.NewAggregator(logger, providers, statics)
	history := sensor.NewHistory(*historySize)
	staticValues := aggregator.ReadStatic(ctx)

	sampleCtx, stopSampling := context.WithCancel(ctx)
	defer stopSampling()
	go sampleLoop(sampleCtx, aggregator, staticValues, history, *sampleInterval)

	server := httpapi.New(reg, history, staticValues, cache, preparers, verifiers, logger)

	var supervisor *worker.Supervisor
	if *pushMode {
		supervisor = worker.NewSupervisor()
		go runPushMode(sampleCtx, supervisor, reg, aggregator, history, staticValues, cache, logger)
	}

	addr := fmt.Sprintf("0.0.0.0:%d", reg.HTTPPort())
	httpServer := &http.Server{Addr: addr, Handler: server.Handler()}
	logger.Infof("listening on %s", addr)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			return apierrors.Internal(err)
		}
	case <-sigCh:
		logger.Infof("shutdown requested")
	}

	stopSampling()
	if supervisor != nil {
		supervisor.StopAll()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// sampleLoop drives the aggregator at a fixed cadence, independent of the
// HTTP request path (spec.md §4.2, §5).
func sampleLoop(ctx context.Context, aggregator *sensor.Aggregator, staticValues []sensor.Value, history *sensor.History, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			aggregator.ReadSnapshot(ctx, staticValues, history)
		}
	}
}

// runPushMode starts a worker.Handle for every active client and tears it
// down once the client is removed or deactivated, polling the registry at
// a coarse interval since it has no change-notification channel (spec.md
// §4.7, gated behind --push-mode per SPEC_FULL.md §5).
func runPushMode(ctx context.Context, supervisor *worker.Supervisor, reg *registry.Registry, aggregator *sensor.Aggregator, history *sensor.History, staticValues []sensor.Value, cache *assets.Cache, logger logs.StructuredLogger) {
	bundle := assets.BundleReader{Cache: cache}
	started := map[string]bool{}
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			clients := reg.List()
			for mac, client := range clients {
				if !client.Active || started[mac] {
					continue
				}
				handle := worker.NewHandle(mac, client.IPAddress, *pushRate, aggregator, history, staticValues, reg, bundle, logger)
				supervisor.Start(ctx, handle)
				started[mac] = true
				logger.Infof("push-mode worker started for %s", mac)
			}
			for mac := range started {
				if client, ok := clients[mac]; !ok || !client.Active {
					supervisor.Stop(mac)
					delete(started, mac)
				}
			}
		}
	}
}
