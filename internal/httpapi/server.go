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

// Package httpapi implements the HTTP pull-mode serving plane: client
// registration, admin endpoints, and the per-client frame-data endpoint
// (spec.md §4.6). Routed with a Go 1.22 pattern-based http.ServeMux — no
// third-party router: the pack's router usage appears only as an
// indirect go.mod listing, never as retrieved code (see DESIGN.md).
package httpapi

import (
	"net/http"

	"github.com/sensorbridge/agent/internal/assets"
	"github.com/sensorbridge/agent/internal/logs"
	"github.com/sensorbridge/agent/internal/registry"
	"github.com/sensorbridge/agent/internal/sensor"
	"github.com/sensorbridge/agent/internal/verify"
)

// Server wires the registry, sensor aggregator/history, and asset
// pipeline behind the HTTP API.
type Server struct {
	registry     *registry.Registry
	history      *sensor.History
	staticValues []sensor.Value
	cache        *assets.Cache
	preparers    *assets.Preparers
	verifiers    verify.Registry
	logger       logs.StructuredLogger
	mux          *http.ServeMux
}

func New(reg *registry.Registry, history *sensor.History, staticValues []sensor.Value, cache *assets.Cache, preparers *assets.Preparers, verifiers verify.Registry, logger logs.StructuredLogger) *Server {
	s := &Server{
		registry:     reg,
		history:      history,
		staticValues: staticValues,
		cache:        cache,
		preparers:    preparers,
		verifiers:    verifiers,
		logger:       logger,
	}
	s.mux = http.NewServeMux()
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("POST /api/register", s.handleRegister)
	s.mux.HandleFunc("GET /api/clients", s.handleListClients)
	s.mux.HandleFunc("POST /api/clients/update-name", s.handleUpdateName)
	s.mux.HandleFunc("POST /api/clients/set-active", s.handleSetActive)
	s.mux.HandleFunc("POST /api/clients/display-config", s.handleSetDisplayConfig)
	s.mux.HandleFunc("DELETE /api/clients/{mac}", s.handleRemoveClient)
	s.mux.HandleFunc("GET /api/sensor-data", s.handleSensorData)
	s.mux.HandleFunc("GET /api/clients/{mac}/preview", s.handlePreview)
}

// Handler returns the fully wrapped handler (CORS, routing) to pass to
// http.ListenAndServe.
func (s *Server) Handler() http.Handler {
	return cors(s.mux)
}
