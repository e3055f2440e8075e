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

package registry

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sensorbridge/agent/internal/apierrors"
	"github.com/sensorbridge/agent/internal/logs"
)

// Registry is the owner of AppConfig, guarded by one RWMutex (spec.md §3
// "Ownership", §5). Every mutation calls save(), rewriting the on-disk
// JSON in full.
type Registry struct {
	mu     sync.RWMutex
	path   string
	cfg    *AppConfig
	logger logs.StructuredLogger
	now    func() time.Time
}

// New loads path, self-healing on a missing or corrupt file.
func New(path string, logger logs.StructuredLogger) (*Registry, error) {
	cfg, err := loadOrInit(path, logger)
	if err != nil {
		return nil, err
	}
	return &Registry{path: path, cfg: cfg, logger: logger, now: time.Now}, nil
}

func (r *Registry) save() error {
	if err := writeConfig(r.path, r.cfg); err != nil {
		r.logger.Errorf("failed to persist registry config: %v", err)
		return apierrors.TransientIO("failed to write config", err)
	}
	return nil
}

// NormalizeMAC strips all non-hex characters, lowercases, and regroups
// into aa:bb:cc:dd:ee:ff (spec.md §4.5, §8 property 3).
func NormalizeMAC(mac string) string {
	var hex strings.Builder
	for _, r := range strings.ToLower(mac) {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') {
			hex.WriteRune(r)
		}
	}
	digits := hex.String()

	var out strings.Builder
	for i := 0; i < len(digits); i += 2 {
		if i > 0 {
			out.WriteByte(':')
		}
		end := i + 2
		if end > len(digits) {
			end = len(digits)
		}
		out.WriteString(digits[i:end])
	}
	return out.String()
}

// Register upserts a client (spec.md §3, §4.5, §8 property 4). On first
// registration active defaults false, and name defaults to "Display <8
// chars>" unless name is non-empty. On update, ip/resolution/last_seen
// refresh but name, active, and display_config are preserved — name is
// only ever taken from the request on the registration that creates the
// client, never on a later re-registration.
func (r *Registry) Register(mac, ip string, width, height int, name string) (*RegisteredClient, error) {
	key := NormalizeMAC(mac)

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().Unix()
	existing, ok := r.cfg.RegisteredClients[key]
	if ok {
		existing.IPAddress = ip
		existing.ResolutionWidth = width
		existing.ResolutionHeight = height
		existing.LastSeen = now
	} else {
		if name == "" {
			name = "Display " + firstN(key, 8)
		}
		existing = &RegisteredClient{
			MACAddress:       key,
			Name:             name,
			IPAddress:        ip,
			ResolutionWidth:  width,
			ResolutionHeight: height,
			Active:           false,
			LastSeen:         now,
			RegisteredAt:     now,
			DisplayConfig:    DisplayConfig{ResolutionWidth: width, ResolutionHeight: height},
		}
		r.cfg.RegisteredClients[key] = existing
	}

	if err := r.save(); err != nil {
		return nil, err
	}
	clone := *existing
	return &clone, nil
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// List returns a snapshot copy of every registered client.
func (r *Registry) List() map[string]RegisteredClient {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]RegisteredClient, len(r.cfg.RegisteredClients))
	for k, v := range r.cfg.RegisteredClients {
		out[k] = *v
	}
	return out
}

// Get returns a copy of the client at mac, or ClientUnknown.
func (r *Registry) Get(mac string) (RegisteredClient, error) {
	key := NormalizeMAC(mac)

	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.cfg.RegisteredClients[key]
	if !ok {
		return RegisteredClient{}, apierrors.ClientUnknown(key)
	}
	return *c, nil
}

// Touch records that the client was observed now, even if it is inactive
// (spec.md §9 design note iii: "inactivity does not stop the liveness
// clock").
func (r *Registry) Touch(mac string) error {
	key := NormalizeMAC(mac)

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cfg.RegisteredClients[key]
	if !ok {
		return apierrors.ClientUnknown(key)
	}
	c.LastSeen = r.now().Unix()
	return r.save()
}

// SetName updates a client's display name.
func (r *Registry) SetName(mac, name string) error {
	key := NormalizeMAC(mac)

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cfg.RegisteredClients[key]
	if !ok {
		return apierrors.ClientUnknown(key)
	}
	c.Name = name
	return r.save()
}

// SetActive flips a client's active flag; only this operation may set it
// true (spec.md §8 property 4).
func (r *Registry) SetActive(mac string, active bool) error {
	key := NormalizeMAC(mac)

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cfg.RegisteredClients[key]
	if !ok {
		return apierrors.ClientUnknown(key)
	}
	c.Active = active
	return r.save()
}

// SetDisplayConfig replaces a client's display layout.
func (r *Registry) SetDisplayConfig(mac string, cfg DisplayConfig) error {
	key := NormalizeMAC(mac)

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cfg.RegisteredClients[key]
	if !ok {
		return apierrors.ClientUnknown(key)
	}
	c.DisplayConfig = cfg
	return r.save()
}

// Remove deletes a client from the registry.
func (r *Registry) Remove(mac string) error {
	key := NormalizeMAC(mac)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cfg.RegisteredClients[key]; !ok {
		return apierrors.ClientUnknown(key)
	}
	delete(r.cfg.RegisteredClients, key)
	return r.save()
}

// SetHTTPPort validates and persists the configured HTTP port (spec.md
// §6, §8 property 10).
func (r *Registry) SetHTTPPort(port int) error {
	if port < 1024 || port > 65535 {
		return apierrors.BadRequest("http_port", fmt.Sprintf("port %d out of range [1024, 65535]", port))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.cfg.HTTPPort = port
	return r.save()
}

// HTTPPort returns the currently configured port.
func (r *Registry) HTTPPort() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg.HTTPPort
}
