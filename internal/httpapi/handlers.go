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

package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sensorbridge/agent/internal/apierrors"
	"github.com/sensorbridge/agent/internal/assets"
	"github.com/sensorbridge/agent/internal/registry"
	"github.com/sensorbridge/agent/internal/render"
	"github.com/sensorbridge/agent/internal/transport"
	"github.com/sensorbridge/agent/internal/verify"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"service":   "sensorbridge-agent",
		"timestamp": time.Now().Unix(),
	})
}

type registerRequest struct {
	MACAddress       string `json:"mac_address"`
	IPAddress        string `json:"ip_address"`
	ResolutionWidth  int    `json:"resolution_width"`
	ResolutionHeight int    `json:"resolution_height"`
	Name             string `json:"name"`
}

// handleRegister upserts the client (spec.md §4.6). If the client already
// carries a configured DisplayConfig (the admin set one up on a prior
// session), the response is the binary asset bundle so the display can
// cache fonts/images before its next frame request; a brand-new client
// with no layout yet gets the plain JSON acknowledgement.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, apierrors.BadRequest("body", "malformed JSON"))
		return
	}
	if req.MACAddress == "" {
		writeError(w, s.logger, apierrors.BadRequest("mac_address", "required"))
		return
	}

	client, err := s.registry.Register(req.MACAddress, req.IPAddress, req.ResolutionWidth, req.ResolutionHeight, req.Name)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	if len(client.DisplayConfig.Elements) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "registered",
			"client":  client,
		})
		return
	}

	bundle, err := s.buildAssetBundle(client.DisplayConfig)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	encoded, err := transport.EncodeAssetBundle(bundle)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	w.Write(encoded)
}

// buildAssetBundle reads every Text/StaticImage/ConditionalImage
// element's already-prepared cache entry back into the wire bundle
// (spec.md §4.6). Prepares first, so a fresh registration after a
// display-config change has something to read.
func (s *Server) buildAssetBundle(cfg registry.DisplayConfig) (transport.AssetBundle, error) {
	if err := s.preparers.PrepareAll(context.Background(), s.cache, cfg.Elements); err != nil {
		s.logger.Warnf("asset preparation reported failures during bundle build: %v", err)
	}

	reader := assets.BundleReader{Cache: s.cache}
	text, staticImage, conditionalImage := reader.ReadPrepareData(cfg)
	return transport.AssetBundle{
		TextData:             text,
		StaticImageData:      staticImage,
		ConditionalImageData: conditionalImage,
	}, nil
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.List())
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apierrors.BadRequest("body", "malformed JSON")
	}
	return nil
}

func (s *Server) handleUpdateName(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MACAddress string `json:"mac_address"`
		Name       string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	if req.Name == "" {
		writeError(w, s.logger, apierrors.BadRequest("name", "required"))
		return
	}
	if err := s.registry.SetName(req.MACAddress, req.Name); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleSetActive flips a client's active flag. Activating a client that
// carries a DisplayConfig runs configuration verification first (spec.md
// §4.8) and refuses to activate on failure.
func (s *Server) handleSetActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MACAddress string `json:"mac_address"`
		Active     bool   `json:"active"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}

	if req.Active {
		client, err := s.registry.Get(req.MACAddress)
		if err != nil {
			writeError(w, s.logger, err)
			return
		}
		if err := verify.VerifyDisplayConfig(client.DisplayConfig, s.verifiers); err != nil {
			writeError(w, s.logger, err)
			return
		}
	}

	if err := s.registry.SetActive(req.MACAddress, req.Active); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleSetDisplayConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MACAddress    string                 `json:"mac_address"`
		DisplayConfig registry.DisplayConfig `json:"display_config"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	if err := s.registry.SetDisplayConfig(req.MACAddress, req.DisplayConfig); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleRemoveClient(w http.ResponseWriter, r *http.Request) {
	mac := r.PathValue("mac")
	if err := s.registry.Remove(mac); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleSensorData serves the per-client frame payload for pull-mode
// displays (spec.md §4.6, §8 property 5): 400 missing mac, 404 unknown,
// 403 inactive, else 200 with the stored display_config and the latest
// sensor snapshot.
func (s *Server) handleSensorData(w http.ResponseWriter, r *http.Request) {
	mac := r.URL.Query().Get("mac_address")
	if mac == "" {
		writeError(w, s.logger, apierrors.BadRequest("mac_address", "required"))
		return
	}

	client, err := s.registry.Get(mac)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if err := s.registry.Touch(client.MACAddress); err != nil {
		s.logger.Warnf("failed to touch last_seen for %s: %v", client.MACAddress, err)
	}
	if !client.Active {
		writeError(w, s.logger, apierrors.ClientInactive(client.MACAddress))
		return
	}

	snapshot := s.history.Latest()
	if snapshot == nil {
		snapshot = s.staticValues
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"render_data": map[string]any{
			"display_config": client.DisplayConfig,
			"sensor_values":  snapshot,
		},
		"timestamp": time.Now().Unix(),
	})
}

// handlePreview composites the client's current layout into a JPEG frame
// (spec.md §4.4 "preview path"), the same render pipeline a push-mode
// worker would use to build a RenderImage payload for a remote display.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	mac := r.PathValue("mac")
	client, err := s.registry.Get(mac)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	snapshot := s.history.Latest()
	if snapshot == nil {
		snapshot = s.staticValues
	}

	fonts := assets.FontsByFamily(s.cache, client.DisplayConfig.Elements)
	renderer := render.New(s.cache, fonts)
	frame, err := renderer.Frame(client.DisplayConfig, snapshot, s.history)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	encoded, err := render.EncodeJPEG(frame)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	w.Write(encoded)
}
