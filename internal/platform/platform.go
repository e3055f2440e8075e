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

// Package platform detects which OS the agent is running on, so that
// sensor providers can present themselves unconditionally and the
// dispatch never branches on OS at the aggregator (spec.md §9).
package platform

import (
	"context"
	"fmt"
	"log"

	"github.com/shirou/gopsutil/v3/host"
)

type Type int

const (
	Linux Type = 1 << iota
	Windows
	All = Linux | Windows
)

type Platform struct {
	Type     Type
	HostInfo *host.InfoStat
}

type platformKeyType struct{}

// platformKey is a singleton Context key for retrieving the current platform.
var platformKey = platformKeyType{}

func (p Platform) TestContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, platformKey, p)
}

var detectedPlatform = detect()

func FromContext(ctx context.Context) Platform {
	if opt := ctx.Value(platformKey); opt != nil {
		return opt.(Platform)
	}
	return detectedPlatform
}

func detect() Platform {
	info, err := host.Info()
	if err != nil {
		log.Printf("could not detect host info: %v", err)
		info = &host.InfoStat{}
	}
	p := Platform{HostInfo: info}
	p.detectPlatform()
	return p
}

func (p Platform) Hostname() string {
	return p.HostInfo.Hostname
}

func (p Platform) Name() string {
	switch p.Type {
	case Windows:
		return "windows"
	case Linux:
		return "linux"
	default:
		panic(fmt.Sprintf("unknown platform type %v", p.Type))
	}
}

func (p Platform) Is(t Type) bool {
	return p.Type&t != 0
}
