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

package render

import (
	"image"
	"image/draw"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sensorbridge/agent/internal/apierrors"
	"github.com/sensorbridge/agent/internal/registry"
	"github.com/sensorbridge/agent/internal/sensor"
)

// paintConditionalImage maps the current sensor value to a cached image
// file name — numeric values use nearest-lower-bucket, text values use
// exact case-insensitive match (spec.md §4.4, §9 design note ii) — and
// blits it. A missing match renders blank, not an error.
func (r *Renderer) paintConditionalImage(canvas *image.RGBA, rect image.Rectangle, element registry.Element, snap sensor.Snapshot) error {
	cfg := element.ConditionalImage
	if cfg == nil {
		return apierrors.ConfigInvalid(element.Name, "conditional image element missing its config")
	}

	value, ok := snap.Find(cfg.SensorID)
	if !ok {
		return nil
	}

	dir := r.cache.ElementDir(registry.ElementConditionalImage, element.ID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	path := selectConditionalFile(dir, entries, value)
	if path == "" {
		return nil
	}

	img, err := decodePNGFile(path)
	if err != nil {
		return err
	}
	draw.Draw(canvas, image.Rectangle{Min: rect.Min, Max: rect.Min.Add(img.Bounds().Size())}, img, image.Point{}, draw.Over)
	return nil
}

func selectConditionalFile(dir string, entries []os.DirEntry, value sensor.Value) string {
	if value.Type == sensor.Text {
		target := strings.ToLower(value.Value)
		for _, e := range entries {
			stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
			if strings.ToLower(stem) == target {
				return filepath.Join(dir, e.Name())
			}
		}
		return ""
	}

	target, err := strconv.ParseFloat(value.Value, 64)
	if err != nil {
		return ""
	}

	bestFile := ""
	bestBucket := 0.0
	found := false
	for _, e := range entries {
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		bucket, err := strconv.ParseFloat(stem, 64)
		if err != nil {
			continue
		}
		if bucket <= target && (!found || bucket > bestBucket) {
			bestBucket = bucket
			bestFile = e.Name()
			found = true
		}
	}
	if !found {
		return ""
	}
	return filepath.Join(dir, bestFile)
}
