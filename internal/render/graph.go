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

	"github.com/sensorbridge/agent/internal/apierrors"
	"github.com/sensorbridge/agent/internal/registry"
	"github.com/sensorbridge/agent/internal/sensor"
)

// paintGraph extracts sensor_id's value sequence from history (newest
// first) and renders a line plot within rect, newest value at the right
// edge so the plot reads left-to-right as time passing (spec.md §4.4).
// When the configured min_value and max_value are both zero, the axis
// auto-scales to the observed window instead of collapsing to [0,0]
// (§4 supplement, grounded on original_source/src-tauri/src/lcd_preview.rs).
func (r *Renderer) paintGraph(canvas *image.RGBA, rect image.Rectangle, element registry.Element, history *sensor.History) error {
	cfg := element.Graph
	if cfg == nil {
		return apierrors.ConfigInvalid(element.Name, "graph element missing its config")
	}
	if history == nil {
		return nil
	}

	series := history.Series(cfg.SensorID)
	if len(series) == 0 {
		return nil
	}

	points := make([]float64, 0, len(series))
	for _, v := range series {
		f, err := strconv.ParseFloat(v.Value, 64)
		if err != nil {
			continue
		}
		points = append(points, f)
	}
	if len(points) == 0 {
		return nil
	}

	minV, maxV := cfg.MinValue, cfg.MaxValue
	if minV == 0 && maxV == 0 {
		minV, maxV = points[0], points[0]
		for _, p := range points {
			if p < minV {
				minV = p
			}
			if p > maxV {
				maxV = p
			}
		}
		if minV == maxV {
			maxV = minV + 1
		}
	}

	lineColor := parseHexRGBA(cfg.Color)
	if cfg.Color == "" {
		lineColor = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	}

	prevX, prevY := -1, -1
	n := len(points)
	for i, v := range points {
		// index 0 is newest; map it to the rightmost column.
		x := rect.Max.X - 1 - int(float64(i)/float64(maxInt(n-1, 1))*float64(rect.Dx()-1))
		frac := (v - minV) / (maxV - minV)
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
		y := rect.Max.Y - 1 - int(frac*float64(rect.Dy()-1))

		if prevX >= 0 {
			drawLine(canvas, prevX, prevY, x, y, lineColor)
		}
		prevX, prevY = x, y
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// drawLine is a simple Bresenham-style line rasterizer; graph lines are
// thin and need no anti-aliasing for this agent's small displays.
func drawLine(canvas draw.Image, x0, y0, x1, y1 int, c color.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		canvas.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
