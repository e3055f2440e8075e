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

// Package registry holds the display-client registry and the on-disk
// AppConfig it is persisted as (spec.md §3, §4.5, §6).
package registry

// ElementType tags which variant-specific config field of Element is set.
type ElementType string

const (
	ElementText             ElementType = "text"
	ElementStaticImage      ElementType = "static_image"
	ElementGraph            ElementType = "graph"
	ElementConditionalImage ElementType = "conditional_image"
)

// Alignment is shared by the Text element's horizontal and vertical axes.
type Alignment string

const (
	AlignStart  Alignment = "start"
	AlignCenter Alignment = "center"
	AlignEnd    Alignment = "end"
)

// TextConfig is the Text element's variant-specific config (spec.md §3).
type TextConfig struct {
	SensorID   string    `json:"sensor_id"`
	FontFamily string    `json:"font_family"`
	FontSize   float64   `json:"font_size"`
	FontColor  string    `json:"font_color"` // hex RGBA, e.g. "#FFFFFFFF"
	Format     string    `json:"format"`     // template with {value} and {unit}
	HAlign     Alignment `json:"h_align"`
	VAlign     Alignment `json:"v_align"`
}

// StaticImageConfig is the StaticImage element's variant-specific config.
type StaticImageConfig struct {
	ImagePath string `json:"image_path"` // filesystem path or HTTPS URL
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// GraphConfig is the Graph element's variant-specific config. MinValue and
// MaxValue both zero means auto-scale to the observed window (§4 supplement,
// grounded on original_source/src-tauri/src/lcd_preview.rs).
type GraphConfig struct {
	SensorID  string  `json:"sensor_id"`
	MinValue  float64 `json:"min_value"`
	MaxValue  float64 `json:"max_value"`
	Color     string  `json:"color"`
	LineWidth float64 `json:"line_width"`
}

// ConditionalImageConfig is the ConditionalImage element's variant-specific
// config.
type ConditionalImageConfig struct {
	SensorID   string `json:"sensor_id"`
	ImagesPath string `json:"images_path"` // zip file, filesystem path, or HTTPS URL
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

// Element is one drawable unit of a DisplayConfig (spec.md §3). Exactly one
// of Text, StaticImage, Graph, ConditionalImage is non-nil, selected by
// Type; this mirrors a tagged union the way Go JSON APIs commonly encode
// one (pointer-per-variant) rather than an interface, so the config
// round-trips through encoding/json without a custom codec.
type Element struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Type   ElementType `json:"type"`
	X      int         `json:"x"`
	Y      int         `json:"y"`
	Width  int         `json:"width"`
	Height int         `json:"height"`

	Text             *TextConfig             `json:"text,omitempty"`
	StaticImage      *StaticImageConfig      `json:"static_image,omitempty"`
	Graph            *GraphConfig            `json:"graph,omitempty"`
	ConditionalImage *ConditionalImageConfig `json:"conditional_image,omitempty"`
}

// DisplayConfig is the layout served to one client (spec.md §3).
type DisplayConfig struct {
	ResolutionWidth  int       `json:"resolution_width"`
	ResolutionHeight int       `json:"resolution_height"`
	Elements         []Element `json:"elements"`
}

// RegisteredClient is one entry in the registry, keyed by normalized MAC
// (spec.md §3, §4.5).
type RegisteredClient struct {
	MACAddress       string        `json:"mac_address"`
	Name             string        `json:"name"`
	IPAddress        string        `json:"ip_address"`
	ResolutionWidth  int           `json:"resolution_width"`
	ResolutionHeight int           `json:"resolution_height"`
	Active           bool          `json:"active"`
	LastSeen         int64         `json:"last_seen"`     // unix seconds
	RegisteredAt     int64         `json:"registered_at"` // unix seconds
	DisplayConfig    DisplayConfig `json:"display_config"`
}

// AppConfig is the on-disk JSON document (spec.md §3, §6).
type AppConfig struct {
	RegisteredClients map[string]*RegisteredClient `json:"registered_clients"`
	HTTPPort          int                          `json:"http_port"`
}

// DefaultHTTPPort is the agent API's authoritative default (spec.md §4.6).
const DefaultHTTPPort = 8080

func defaultConfig() *AppConfig {
	return &AppConfig{
		RegisteredClients: make(map[string]*RegisteredClient),
		HTTPPort:          DefaultHTTPPort,
	}
}
