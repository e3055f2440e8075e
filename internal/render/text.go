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
	"image/color"
	"image/draw"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/sensorbridge/agent/internal/apierrors"
	"github.com/sensorbridge/agent/internal/registry"
	"github.com/sensorbridge/agent/internal/sensor"
)

const notAvailable = "N/A"

// paintText rasterizes the formatted string into a temporary canvas,
// crops to the inked bounding box, then overlays it onto the element
// rectangle per alignment (spec.md §4.4).
func (r *Renderer) paintText(canvas *image.RGBA, rect image.Rectangle, element registry.Element, snap sensor.Snapshot) error {
	cfg := element.Text
	if cfg == nil {
		return apierrors.ConfigInvalid(element.Name, "text element missing its config")
	}

	text := substitute(cfg, snap)
	face, err := r.loadFace(cfg.FontFamily, cfg.FontSize)
	if err != nil {
		return err
	}

	// Work in a local (0,0)-origin coordinate system sized generously
	// enough to hold the whole string, so overflowing glyphs aren't
	// clipped before the bounding-box crop below.
	measured := font.MeasureString(face, text).Ceil()
	metrics := face.Metrics()
	width := measured + rect.Dx()
	height := metrics.Ascent.Ceil() + metrics.Descent.Ceil() + rect.Dy()
	baseline := metrics.Ascent.Ceil()

	textColor := parseHexRGBA(cfg.FontColor)
	glyphCanvas := image.NewRGBA(image.Rect(0, 0, width, height))
	drawer := &font.Drawer{
		Dst:  glyphCanvas,
		Src:  image.NewUniform(textColor),
		Face: face,
		Dot:  fixed.P(0, baseline),
	}
	drawer.DrawString(text)

	bbox := inkBoundingBox(glyphCanvas)
	if bbox.Empty() {
		return nil
	}
	size := bbox.Size()
	cropped := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.Draw(cropped, cropped.Bounds(), glyphCanvas, bbox.Min, draw.Src)

	dest := alignedOrigin(rect, size, cfg.HAlign, cfg.VAlign)
	draw.Draw(canvas, image.Rectangle{Min: dest, Max: dest.Add(size)}, cropped, image.Point{}, draw.Over)
	return nil
}

// substitute fills format's {value} and {unit} placeholders from the
// snapshot, falling back to "N/A" when the sensor id is absent (spec.md
// §4.4).
func substitute(cfg *registry.TextConfig, snap sensor.Snapshot) string {
	v, ok := snap.Find(cfg.SensorID)
	if !ok {
		return notAvailable
	}
	s := strings.ReplaceAll(cfg.Format, "{value}", v.Value)
	s = strings.ReplaceAll(s, "{unit}", v.Unit)
	return s
}

func (r *Renderer) loadFace(family string, size float64) (font.Face, error) {
	data, ok := r.fonts[family]
	if !ok {
		return nil, apierrors.AssetMissing("no cached font blob for family " + family)
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, apierrors.AssetMissing("parsing font " + family + ": " + err.Error())
	}
	if size <= 0 {
		size = 16
	}
	return opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// inkBoundingBox scans img for non-transparent pixels and returns their
// bounding rectangle, or an empty rectangle if img is entirely
// transparent (spec.md §4.4 "compute the glyph bounding box").
func inkBoundingBox(img *image.RGBA) image.Rectangle {
	bounds := img.Bounds()
	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X, bounds.Min.Y
	found := false

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			found = true
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if !found {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// alignedOrigin positions a size-sized box inside rect according to h/v
// alignment (spec.md §4.4 "left/center/right horizontally, top/center/bottom
// vertically").
func alignedOrigin(rect image.Rectangle, size image.Point, h, v registry.Alignment) image.Point {
	x := rect.Min.X
	switch h {
	case registry.AlignCenter:
		x = rect.Min.X + (rect.Dx()-size.X)/2
	case registry.AlignEnd:
		x = rect.Max.X - size.X
	}
	y := rect.Min.Y
	switch v {
	case registry.AlignCenter:
		y = rect.Min.Y + (rect.Dy()-size.Y)/2
	case registry.AlignEnd:
		y = rect.Max.Y - size.Y
	}
	return image.Pt(x, y)
}

// parseHexRGBA parses a "#RRGGBBAA" (or "#RRGGBB") string, defaulting to
// opaque white on a malformed value.
func parseHexRGBA(hex string) color.RGBA {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	r, err1 := strconv.ParseUint(hex[0:2], 16, 8)
	g, err2 := strconv.ParseUint(hex[2:4], 16, 8)
	b, err3 := strconv.ParseUint(hex[4:6], 16, 8)
	a, err4 := strconv.ParseUint(hex[6:8], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a)}
}
