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
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sensorbridge/agent/internal/apierrors"
	"github.com/sensorbridge/agent/internal/logs"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	logger, _ := logs.DiscardLogger()
	r, err := New(path, logger)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return r
}

func TestNormalizeMACIdempotentAndCaseInsensitive(t *testing.T) {
	cases := []string{"AA-BB-CC-11-22-33", "aa:bb:cc:11:22:33", "AABBCC112233"}
	for _, in := range cases {
		got := NormalizeMAC(in)
		if got != "aa:bb:cc:11:22:33" {
			t.Fatalf("NormalizeMAC(%q) = %q, want aa:bb:cc:11:22:33", in, got)
		}
		if twice := NormalizeMAC(got); twice != got {
			t.Fatalf("NormalizeMAC not idempotent: NormalizeMAC(%q) = %q, want %q", got, twice, got)
		}
	}
}

func TestRegisterUpsertsSingleEntryAcrossCasings(t *testing.T) {
	r := newTestRegistry(t)

	if _, err := r.Register("AA-BB-CC-11-22-33", "10.0.0.5", 320, 240, ""); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if _, err := r.Register("aa:bb:cc:11:22:33", "10.0.0.6", 640, 480, ""); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	clients := r.List()
	if len(clients) != 1 {
		t.Fatalf("len(List()) = %d, want 1 for the same MAC under different casings", len(clients))
	}
	c := clients["aa:bb:cc:11:22:33"]
	if c.IPAddress != "10.0.0.6" || c.ResolutionWidth != 640 {
		t.Fatalf("second registration did not update ip/resolution: %+v", c)
	}
}

func TestRegisterNeverActivates(t *testing.T) {
	r := newTestRegistry(t)
	c, err := r.Register("aa:bb:cc:11:22:33", "10.0.0.5", 320, 240, "")
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if c.Active {
		t.Fatal("Register() set active=true, want false by default")
	}
	if c.Name != "Display aa:bb:cc" {
		t.Fatalf("Name = %q, want %q", c.Name, "Display aa:bb:cc")
	}

	if err := r.SetActive("aa:bb:cc:11:22:33", true); err != nil {
		t.Fatalf("SetActive() error: %v", err)
	}
	got, err := r.Get("aa:bb:cc:11:22:33")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !got.Active {
		t.Fatal("SetActive(true) did not persist")
	}
}

func TestRegisterPreservesNameAndDisplayConfigOnUpdate(t *testing.T) {
	r := newTestRegistry(t)
	if _, err := r.Register("aa:bb:cc:11:22:33", "10.0.0.5", 320, 240, ""); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if err := r.SetName("aa:bb:cc:11:22:33", "Kitchen"); err != nil {
		t.Fatalf("SetName() error: %v", err)
	}
	cfg := DisplayConfig{ResolutionWidth: 320, ResolutionHeight: 240, Elements: []Element{{ID: "e1", Type: ElementText}}}
	if err := r.SetDisplayConfig("aa:bb:cc:11:22:33", cfg); err != nil {
		t.Fatalf("SetDisplayConfig() error: %v", err)
	}

	if _, err := r.Register("aa:bb:cc:11:22:33", "10.0.0.9", 800, 600, ""); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	got, err := r.Get("aa:bb:cc:11:22:33")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Name != "Kitchen" {
		t.Fatalf("Name = %q, want preserved %q", got.Name, "Kitchen")
	}
	if !cmp.Equal(got.DisplayConfig, cfg) {
		t.Fatalf("DisplayConfig = %+v, want preserved %+v", got.DisplayConfig, cfg)
	}
}

func TestRegisterNameOnlyAppliesOnCreate(t *testing.T) {
	r := newTestRegistry(t)
	c, err := r.Register("aa:bb:cc:11:22:33", "10.0.0.5", 320, 240, "Kitchen Display")
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if c.Name != "Kitchen Display" {
		t.Fatalf("Name after create = %q, want %q", c.Name, "Kitchen Display")
	}

	c, err = r.Register("aa:bb:cc:11:22:33", "10.0.0.9", 800, 600, "Garage Display")
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if c.Name != "Kitchen Display" {
		t.Fatalf("Name after a subsequent registration = %q, want unchanged %q", c.Name, "Kitchen Display")
	}
}

func TestGetUnknownClient(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.Get("aa:bb:cc:11:22:33")
	e, ok := apierrors.As(err)
	if !ok || e.Kind != apierrors.KindClientUnknown {
		t.Fatalf("Get(unknown) error = %v, want a ClientUnknown *apierrors.Error", err)
	}
}

func TestSetHTTPPortValidation(t *testing.T) {
	r := newTestRegistry(t)

	if err := r.SetHTTPPort(1023); err == nil {
		t.Fatal("SetHTTPPort(1023) succeeded, want error below range")
	}
	if err := r.SetHTTPPort(65536); err == nil {
		t.Fatal("SetHTTPPort(65536) succeeded, want error above range")
	}
	if err := r.SetHTTPPort(9090); err != nil {
		t.Fatalf("SetHTTPPort(9090) error: %v", err)
	}
	if got := r.HTTPPort(); got != 9090 {
		t.Fatalf("HTTPPort() = %d, want 9090", got)
	}
}

func TestConfigSelfHealsOnCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not valid json"), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	logger, _ := logs.DiscardLogger()
	r, err := New(path, logger)
	if err != nil {
		t.Fatalf("New() on corrupt file returned error instead of self-healing: %v", err)
	}
	if len(r.List()) != 0 {
		t.Fatalf("List() = %v, want empty defaults after self-heal", r.List())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() after self-heal error: %v", err)
	}
	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("self-healed file is still not valid JSON: %v", err)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	logger, _ := logs.DiscardLogger()
	r, err := New(path, logger)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := r.Register("aa:bb:cc:11:22:33", "10.0.0.5", 320, 240, ""); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if err := r.SetHTTPPort(9999); err != nil {
		t.Fatalf("SetHTTPPort() error: %v", err)
	}

	reloaded, err := New(path, logger)
	if err != nil {
		t.Fatalf("reload New() error: %v", err)
	}
	if !cmp.Equal(r.List(), reloaded.List()) {
		t.Fatalf("reloaded clients = %+v, want %+v", reloaded.List(), r.List())
	}
	if reloaded.HTTPPort() != 9999 {
		t.Fatalf("reloaded HTTPPort() = %d, want 9999", reloaded.HTTPPort())
	}
}
