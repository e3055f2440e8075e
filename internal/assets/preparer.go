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

package assets

import (
	"context"

	"github.com/hashicorp/go-multierror"

	"github.com/sensorbridge/agent/internal/logs"
	"github.com/sensorbridge/agent/internal/registry"
)

// Preparer pre-processes one element type into the cache (spec.md §4.3).
// Graph has no Preparer: it reads live history at render time.
type Preparer interface {
	Prepare(ctx context.Context, cache *Cache, element registry.Element) error
}

// Preparers dispatches by element type to the concrete Preparer.
type Preparers struct {
	Text             Preparer
	StaticImage      Preparer
	ConditionalImage Preparer
	logger           logs.StructuredLogger
}

// NewPreparers wires the default preparer set (spec.md §4.3).
func NewPreparers(logger logs.StructuredLogger) *Preparers {
	return &Preparers{
		Text:             TextPreparer{},
		StaticImage:      ImagePreparer{},
		ConditionalImage: ConditionalImagePreparer{},
		logger:           logger,
	}
}

func (p *Preparers) forType(t registry.ElementType) Preparer {
	switch t {
	case registry.ElementText:
		return p.Text
	case registry.ElementStaticImage:
		return p.StaticImage
	case registry.ElementConditionalImage:
		return p.ConditionalImage
	default:
		return nil
	}
}

// PrepareAll prepares every element of cfg. One element's failure does not
// abort the others (spec.md §4.3 "Failure policy"); failures are
// aggregated with go-multierror, mirroring the teacher's error-aggregation
// idiom in internal/healthchecks.
func (p *Preparers) PrepareAll(ctx context.Context, cache *Cache, elements []registry.Element) error {
	var result *multierror.Error
	for _, element := range elements {
		preparer := p.forType(element.Type)
		if preparer == nil {
			continue
		}
		if err := preparer.Prepare(ctx, cache, element); err != nil {
			p.logger.Warnf("failed to prepare element %q (%s): %v", element.Name, element.Type, err)
			result = multierror.Append(result, err)
			continue
		}
		p.logger.Infof("prepared element %q (%s)", element.Name, element.Type)
	}
	return result.ErrorOrNil()
}
