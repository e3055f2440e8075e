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

// Package transport holds the binary wire shapes shared by the HTTP
// registration response and the push-mode worker protocol (spec.md §6).
// No pack example retrieved here grounds a third-party binary codec for
// this narrow concern, so both are encoded with the standard library's
// encoding/gob (see DESIGN.md).
package transport

import (
	"bytes"
	"encoding/gob"

	"github.com/sensorbridge/agent/internal/apierrors"
	"github.com/sensorbridge/agent/internal/registry"
)

// AssetBundle is the tagged record bundled on successful registration so
// a display client can cache fonts and images before entering the frame
// loop (spec.md §4.6).
type AssetBundle struct {
	TextData             map[string][]byte
	StaticImageData      map[string][]byte
	ConditionalImageData map[string][]byte
}

func EncodeAssetBundle(b AssetBundle) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(b); err != nil {
		return nil, apierrors.Internal(err)
	}
	return buf.Bytes(), nil
}

func DecodeAssetBundle(data []byte) (AssetBundle, error) {
	var b AssetBundle
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&b); err != nil {
		return AssetBundle{}, apierrors.Internal(err)
	}
	return b, nil
}

// Type distinguishes envelope payloads in the push-mode protocol
// (spec.md §6, §9 "two-level envelope").
type Type string

const (
	PrepareText             Type = "prepare_text"
	PrepareStaticImage      Type = "prepare_static_image"
	PrepareConditionalImage Type = "prepare_conditional_image"
	RenderImage             Type = "render_image"
)

// Envelope is the two-level wire frame: a tag plus an opaque payload, so
// future transport types can be added without breaking the wire format
// (spec.md §9). Unknown Type values are rejected by the receiver with
// BadRequest.
type Envelope struct {
	Type Type
	Data []byte
}

func EncodeEnvelope(e Envelope) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		return nil, apierrors.Internal(err)
	}
	return buf.Bytes(), nil
}

func DecodeEnvelope(data []byte) (Envelope, error) {
	var e Envelope
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&e); err != nil {
		return Envelope{}, apierrors.Internal(err)
	}
	if e.Type != PrepareText && e.Type != PrepareStaticImage && e.Type != PrepareConditionalImage && e.Type != RenderImage {
		return Envelope{}, apierrors.BadRequest("transport_type", "unknown transport type "+string(e.Type))
	}
	return e, nil
}

// RenderFrame is what RenderImage.Data decodes to (spec.md §6).
type RenderFrame struct {
	DisplayConfig registry.DisplayConfig
	SensorValues  []SensorValueWire
}

// SensorValueWire mirrors sensor.Value without importing internal/sensor,
// so this package stays a leaf the worker and httpapi both depend on
// without a cycle back through sensor.
type SensorValueWire struct {
	ID    string
	Label string
	Value string
	Unit  string
	Type  int
}

func EncodeRenderFrame(f RenderFrame) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(f); err != nil {
		return nil, apierrors.Internal(err)
	}
	return buf.Bytes(), nil
}

func DecodeRenderFrame(data []byte) (RenderFrame, error) {
	var f RenderFrame
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&f); err != nil {
		return RenderFrame{}, apierrors.Internal(err)
	}
	return f, nil
}
