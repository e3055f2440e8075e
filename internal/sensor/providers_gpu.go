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

	"github.com/sensorbridge/agent/internal/platform"
)

const sysClassDRM = "/sys/class/drm"

// GPUProvider walks /sys/class/drm/card<N> entries, reading GPU busy
// percent, VRAM usage/total, and the active frequency (marked with a
// trailing "*" in multi-line freq files), per spec.md §4.1. /sys/class/drm
// only exists on Linux, so Collect consults the platform carried on ctx
// and skips the walk outright on Windows rather than relying on
// os.ReadDir to fail.
type GPUProvider struct{}

func (GPUProvider) Name() string { return "gpu" }

func (GPUProvider) Collect(ctx context.Context) []Value {
	if platform.FromContext(ctx).Is(platform.Windows) {
		return nil
	}

	entries, err := os.ReadDir(sysClassDRM)
	if err != nil {
		return nil
	}

	var values []Value
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "card") || strings.Contains(name, "-") {
			continue
		}
		cardPath := filepath.Join(sysClassDRM, name)
		deviceDir := filepath.Join(cardPath, "device")

		if busy, ok := readIntFile(filepath.Join(deviceDir, "gpu_busy_percent")); ok {
			values = append(values, Value{
				ID:    fmt.Sprintf("gpu_%s_busy", name),
				Label: fmt.Sprintf("GPU %s Busy", name),
				Value: fmt.Sprintf("%d", busy),
				Unit:  "%",
				Type:  Number,
			})
		}
		if used, ok := readIntFile(filepath.Join(deviceDir, "mem_info_vram_used")); ok {
			values = append(values, Value{
				ID:    fmt.Sprintf("gpu_%s_vram_used", name),
				Label: fmt.Sprintf("GPU %s VRAM Used", name),
				Value: humanizeBytes(used),
				Type:  Text,
			})
		}
		if total, ok := readIntFile(filepath.Join(deviceDir, "mem_info_vram_total")); ok {
			values = append(values, Value{
				ID:    fmt.Sprintf("gpu_%s_vram_total", name),
				Label: fmt.Sprintf("GPU %s VRAM Total", name),
				Value: humanizeBytes(total),
				Type:  Text,
			})
		}
		if freq, ok := activeFrequencyLine(filepath.Join(deviceDir, "pp_dpm_sclk")); ok {
			values = append(values, Value{
				ID:    fmt.Sprintf("gpu_%s_freq", name),
				Label: fmt.Sprintf("GPU %s Frequency", name),
				Value: freq,
				Type:  Text,
			})
		}
	}
	return values
}

func readIntFile(path string) (int64, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	v, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// activeFrequencyLine finds the line ending in "*" in a multi-line sysfs
// frequency-states file, e.g.:
//
//	0: 300Mhz
//	1: 800Mhz *
//	2: 1900Mhz
func activeFrequencyLine(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasSuffix(line, "*") {
			return strings.TrimSpace(strings.TrimSuffix(line, "*")), true
		}
	}
	return "", false
}

// humanizeBytes converts a byte count into a human-readable string
// (spec.md §4.1 "converts bytes to human-readable units").
func humanizeBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

// HasGPU reports whether the host exposes any PCI GPU device from NVIDIA,
// AMD or Intel, adapted from the teacher's NVIDIA vendor-ID sysfs scan.
// Nothing in the agent calls it at present.
func HasGPU() (bool, error) {
	const sysDevicesPath = "/sys/bus/pci/devices"
	devices, err := os.ReadDir(sysDevicesPath)
	if err != nil {
		return false, err
	}
	knownGPUVendors := map[string]bool{
		"0x10de": true, // NVIDIA
		"0x1002": true, // AMD
		"0x8086": true, // Intel
	}
	for _, device := range devices {
		vendorFile := filepath.Join(sysDevicesPath, device.Name(), "vendor")
		vendor, err := os.ReadFile(vendorFile)
		if err != nil {
			continue
		}
		if knownGPUVendors[strings.ToLower(strings.TrimSpace(string(vendor)))] {
			return true, nil
		}
	}
	return false, nil
}
