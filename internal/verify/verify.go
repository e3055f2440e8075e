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

// Package verify implements configuration verification before a display
// can be activated (spec.md §4.8), replacing the teacher's
// internal/healthchecks registry with one scoped to DisplayConfig
// elements instead of GCP API/port reachability.
package verify

import (
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/sensorbridge/agent/internal/apierrors"
	"github.com/sensorbridge/agent/internal/registry"
)

// reachTimeout bounds the HTTP(S) HEAD probe; the local file-exists stat
// has no timeout (spec.md §5 "Timeouts": HTTP client operations 5s).
const reachTimeout = 5 * time.Second

// Verifier mirrors the teacher's HealthCheck interface, scoped to one
// element instead of one host-wide concern.
type Verifier interface {
	Name() string
	Verify(element registry.Element) error
}

// Registry runs every Verifier applicable to an element's type.
type Registry []Verifier

// Default returns the verifiers for every path-bearing element type.
func Default(client Reacher) Registry {
	return Registry{
		PathVerifier{client: client},
	}
}

// Reacher abstracts path/URL reachability so tests can fake it without a
// real network or filesystem.
type Reacher interface {
	Reachable(path string) bool
}

// httpReacher is the production Reacher: local files via os.Stat, http://
// and https:// URLs via a HEAD request (spec.md §4.8).
type httpReacher struct {
	client *http.Client
}

// NewReacher returns the production Reacher used by the agent.
func NewReacher() Reacher {
	return httpReacher{client: &http.Client{Timeout: reachTimeout}}
}

func (h httpReacher) Reachable(path string) bool {
	if strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "http://") {
		resp, err := h.client.Head(path)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode >= 200 && resp.StatusCode < 400
	}
	return pathExists(path)
}

// PathVerifier checks StaticImage.ImagePath and ConditionalImage.ImagesPath
// exist as a file or HEAD-succeed as an HTTP(S) URL (spec.md §4.8).
type PathVerifier struct {
	client Reacher
}

func (PathVerifier) Name() string { return "path reachability" }

func (v PathVerifier) Verify(element registry.Element) error {
	switch element.Type {
	case registry.ElementStaticImage:
		if element.StaticImage == nil {
			return apierrors.ConfigInvalid(element.Name, "static image element missing its config")
		}
		if !v.client.Reachable(element.StaticImage.ImagePath) {
			return apierrors.ConfigInvalid(element.Name, "image_path is neither a local file nor a reachable URL")
		}
	case registry.ElementConditionalImage:
		if element.ConditionalImage == nil {
			return apierrors.ConfigInvalid(element.Name, "conditional image element missing its config")
		}
		if !v.client.Reachable(element.ConditionalImage.ImagesPath) {
			return apierrors.ConfigInvalid(element.Name, "images_path is neither a local file nor a reachable URL")
		}
	}
	return nil
}

// VerifyDisplayConfig runs every applicable verifier over every element,
// aggregating failures with go-multierror so the caller sees every broken
// element at once instead of stopping at the first (spec.md §4.8).
func VerifyDisplayConfig(cfg registry.DisplayConfig, verifiers Registry) error {
	var result *multierror.Error
	for _, element := range cfg.Elements {
		for _, v := range verifiers {
			if err := v.Verify(element); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	return result.ErrorOrNil()
}
