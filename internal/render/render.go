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

// Package render composites a DisplayConfig's elements against live
// sensor history and the prepared asset cache into a single raster frame
// (spec.md §4.4).
package render

import (
	"bytes"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"

	"github.com/sensorbridge/agent/internal/apierrors"
	"github.com/sensorbridge/agent/internal/assets"
	"github.com/sensorbridge/agent/internal/registry"
	"github.com/sensorbridge/agent/internal/sensor"
)

// Renderer paints one DisplayConfig against a sensor snapshot and history
// window. Fonts are supplied once as a family→bytes map (spec.md §4.4
// input contract); images are read from the asset cache by element id.
type Renderer struct {
	cache *assets.Cache
	fonts map[string][]byte
}

func New(cache *assets.Cache, fonts map[string][]byte) *Renderer {
	return &Renderer{cache: cache, fonts: fonts}
}

// Frame composites cfg against snap (the most recent sensor values) and
// history (for Graph elements), painting in element order so later
// elements overdraw earlier ones (spec.md §4.4).
func (r *Renderer) Frame(cfg registry.DisplayConfig, snap sensor.Snapshot, history *sensor.History) (*image.RGBA, error) {
	canvas := image.NewRGBA(image.Rect(0, 0, cfg.ResolutionWidth, cfg.ResolutionHeight))
	draw.Draw(canvas, canvas.Bounds(), image.Black, image.Point{}, draw.Src)

	for _, element := range cfg.Elements {
		rect := clipRect(element, canvas.Bounds())
		if rect.Empty() {
			continue
		}
		var err error
		switch element.Type {
		case registry.ElementText:
			err = r.paintText(canvas, rect, element, snap)
		case registry.ElementStaticImage:
			err = r.paintStaticImage(canvas, rect, element)
		case registry.ElementGraph:
			err = r.paintGraph(canvas, rect, element, history)
		case registry.ElementConditionalImage:
			err = r.paintConditionalImage(canvas, rect, element, snap)
		}
		if err != nil {
			return nil, err
		}
	}
	return canvas, nil
}

// clipRect bounds an element's rectangle to the canvas, per spec.md §3
// "rendering clips otherwise".
func clipRect(element registry.Element, bounds image.Rectangle) image.Rectangle {
	r := image.Rect(element.X, element.Y, element.X+element.Width, element.Y+element.Height)
	return r.Intersect(bounds)
}

// EncodeJPEG encodes the preview payload at quality 100 (spec.md §4.4).
func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}); err != nil {
		return nil, apierrors.Internal(err)
	}
	return buf.Bytes(), nil
}

// EncodePNG encodes an asset sub-render (spec.md §4.4).
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, apierrors.Internal(err)
	}
	return buf.Bytes(), nil
}
