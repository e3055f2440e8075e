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
	"testing"

	"github.com/sensorbridge/agent/internal/registry"
	"github.com/sensorbridge/agent/internal/sensor"
)

func TestPaintGraphAutoScalesWhenBoundsAreZero(t *testing.T) {
	history := sensor.NewHistory(10)
	history.Insert(sensor.Snapshot{{ID: "cpu_load", Value: "10"}})
	history.Insert(sensor.Snapshot{{ID: "cpu_load", Value: "90"}})

	r := &Renderer{}
	canvas := image.NewRGBA(image.Rect(0, 0, 100, 50))
	element := registry.Element{
		Name: "cpu graph",
		Type: registry.ElementGraph,
		X:    0, Y: 0, Width: 100, Height: 50,
		Graph: &registry.GraphConfig{SensorID: "cpu_load"},
	}

	if err := r.paintGraph(canvas, canvas.Bounds(), element, history); err != nil {
		t.Fatalf("paintGraph() error: %v", err)
	}

	painted := false
	for y := 0; y < 50 && !painted; y++ {
		for x := 0; x < 100; x++ {
			if _, _, _, a := canvas.At(x, y).RGBA(); a != 0 {
				painted = true
				break
			}
		}
	}
	if !painted {
		t.Fatal("paintGraph() produced a blank canvas, want a plotted line")
	}
}

func TestPaintGraphMissingConfig(t *testing.T) {
	r := &Renderer{}
	canvas := image.NewRGBA(image.Rect(0, 0, 10, 10))
	element := registry.Element{Name: "broken", Type: registry.ElementGraph}

	if err := r.paintGraph(canvas, canvas.Bounds(), element, sensor.NewHistory(10)); err == nil {
		t.Fatal("paintGraph() with nil Graph config returned nil error, want ConfigInvalid")
	}
}
