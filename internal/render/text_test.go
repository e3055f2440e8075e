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
	"testing"

	"github.com/sensorbridge/agent/internal/registry"
	"github.com/sensorbridge/agent/internal/sensor"
)

func TestSubstituteFillsValueAndUnit(t *testing.T) {
	cfg := &registry.TextConfig{SensorID: "cpu_temp_package", Format: "{value}{unit}"}
	snap := sensor.Snapshot{{ID: "cpu_temp_package", Value: "71.00", Unit: "°C"}}

	if got := substitute(cfg, snap); got != "71.00°C" {
		t.Fatalf("substitute() = %q, want %q", got, "71.00°C")
	}
}

func TestSubstituteFallsBackToNA(t *testing.T) {
	cfg := &registry.TextConfig{SensorID: "missing", Format: "{value}{unit}"}
	if got := substitute(cfg, sensor.Snapshot{}); got != notAvailable {
		t.Fatalf("substitute() = %q, want %q", got, notAvailable)
	}
}

func TestParseHexRGBA(t *testing.T) {
	cases := []struct {
		in   string
		want color.RGBA
	}{
		{"#FF000080", color.RGBA{R: 255, A: 128}},
		{"#00FF00", color.RGBA{G: 255, A: 255}},
		{"not-a-color", color.RGBA{R: 255, G: 255, B: 255, A: 255}},
	}
	for _, c := range cases {
		if got := parseHexRGBA(c.in); got != c.want {
			t.Fatalf("parseHexRGBA(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestAlignedOrigin(t *testing.T) {
	rect := image.Rect(10, 10, 110, 60) // 100x50
	size := image.Pt(20, 10)

	cases := []struct {
		h, v registry.Alignment
		want image.Point
	}{
		{registry.AlignStart, registry.AlignStart, image.Pt(10, 10)},
		{registry.AlignCenter, registry.AlignCenter, image.Pt(50, 30)},
		{registry.AlignEnd, registry.AlignEnd, image.Pt(90, 50)},
	}
	for _, c := range cases {
		if got := alignedOrigin(rect, size, c.h, c.v); got != c.want {
			t.Fatalf("alignedOrigin(h=%s, v=%s) = %v, want %v", c.h, c.v, got, c.want)
		}
	}
}

func TestInkBoundingBoxEmptyCanvas(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if bbox := inkBoundingBox(img); !bbox.Empty() {
		t.Fatalf("inkBoundingBox() on a blank canvas = %v, want empty", bbox)
	}
}

func TestInkBoundingBoxFindsPaintedRegion(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	img.Set(3, 4, color.RGBA{R: 255, A: 255})
	img.Set(6, 2, color.RGBA{R: 255, A: 255})

	bbox := inkBoundingBox(img)
	want := image.Rect(3, 2, 7, 5)
	if bbox != want {
		t.Fatalf("inkBoundingBox() = %v, want %v", bbox, want)
	}
}
