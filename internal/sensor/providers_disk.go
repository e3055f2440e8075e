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

package sensor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	psdisk "github.com/shirou/gopsutil/v3/disk"
)

// defaultSectorSize is used when the OS-reported sector size for a block
// device can't be read (spec.md §4.1 "using the OS-reported sector size").
const defaultSectorSize = 512

// DiskProvider reports per-block-device read/write rates in sectors per
// second, converting the byte counters with the OS-reported sector size,
// sampled over sampleWindow.
type DiskProvider struct{}

func (DiskProvider) Name() string { return "disk" }

func (d DiskProvider) Collect(ctx context.Context) []Value {
	before, err := psdisk.IOCountersWithContext(ctx)
	if err != nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return nil
	case <-time.After(sampleWindow):
	}
	after, err := psdisk.IOCountersWithContext(ctx)
	if err != nil {
		return nil
	}

	var values []Value
	scale := time.Second.Seconds() / sampleWindow.Seconds()
	for name, cur := range after {
		prev, ok := before[name]
		if !ok {
			continue
		}
		sectorSize := sectorSizeBytes(name)
		readSectorsPerSec := float64(cur.ReadBytes-prev.ReadBytes) * scale / float64(sectorSize)
		writeSectorsPerSec := float64(cur.WriteBytes-prev.WriteBytes) * scale / float64(sectorSize)
		values = append(values,
			Value{ID: fmt.Sprintf("disk_%s_read", name), Label: fmt.Sprintf("%s Read", name), Value: fmt.Sprintf("%.2f", readSectorsPerSec), Unit: "sectors/s", Type: Number},
			Value{ID: fmt.Sprintf("disk_%s_write", name), Label: fmt.Sprintf("%s Write", name), Value: fmt.Sprintf("%.2f", writeSectorsPerSec), Unit: "sectors/s", Type: Number},
		)
	}
	return values
}

// sectorSizeBytes reads /sys/block/<dev>/queue/hw_sector_size on Linux,
// falling back to defaultSectorSize everywhere else or on any error.
func sectorSizeBytes(device string) int {
	name := filepath.Base(device)
	path := filepath.Join("/sys/block", name, "queue", "hw_sector_size")
	data, err := os.ReadFile(path)
	if err != nil {
		return defaultSectorSize
	}
	size, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || size <= 0 {
		return defaultSectorSize
	}
	return size
}
