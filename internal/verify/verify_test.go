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

package verify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sensorbridge/agent/internal/registry"
)

type fakeReacher map[string]bool

func (f fakeReacher) Reachable(path string) bool { return f[path] }

func TestPathVerifierStaticImage(t *testing.T) {
	verifiers := Registry{PathVerifier{client: fakeReacher{"/ok.png": true}}}

	cfg := registry.DisplayConfig{Elements: []registry.Element{
		{Name: "logo", Type: registry.ElementStaticImage, StaticImage: &registry.StaticImageConfig{ImagePath: "/ok.png"}},
	}}
	if err := VerifyDisplayConfig(cfg, verifiers); err != nil {
		t.Fatalf("VerifyDisplayConfig() error = %v, want nil for a reachable path", err)
	}

	cfg.Elements[0].StaticImage.ImagePath = "/missing.png"
	if err := VerifyDisplayConfig(cfg, verifiers); err == nil {
		t.Fatal("VerifyDisplayConfig() = nil, want an error for an unreachable image_path")
	}
}

func TestPathVerifierAggregatesMultipleFailures(t *testing.T) {
	verifiers := Registry{PathVerifier{client: fakeReacher{}}}

	cfg := registry.DisplayConfig{Elements: []registry.Element{
		{Name: "logo", Type: registry.ElementStaticImage, StaticImage: &registry.StaticImageConfig{ImagePath: "/a.png"}},
		{Name: "mood", Type: registry.ElementConditionalImage, ConditionalImage: &registry.ConditionalImageConfig{ImagesPath: "/b.zip"}},
	}}

	err := VerifyDisplayConfig(cfg, verifiers)
	if err == nil {
		t.Fatal("VerifyDisplayConfig() = nil, want aggregated errors for both unreachable elements")
	}
}

func TestReacherLocalFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "present.png")
	if err := os.WriteFile(file, []byte("fake-png"), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	r := NewReacher()
	if !r.Reachable(file) {
		t.Fatalf("Reachable(%q) = false, want true for an existing file", file)
	}
	if r.Reachable(filepath.Join(dir, "absent.png")) {
		t.Fatal("Reachable() = true, want false for a missing file")
	}
}
