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
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// sampleWindow is the fixed delta window spec.md §4.1 mandates for rate
// sensors (CPU load, network throughput, disk I/O).
const sampleWindow = 250 * time.Millisecond

// CPUProvider reports per-core and aggregate CPU load plus package
// temperature (spec.md §4.1).
type CPUProvider struct{}

func (CPUProvider) Name() string { return "cpu" }

func (CPUProvider) Collect(ctx context.Context) []Value {
	total, err := cpu.PercentWithContext(ctx, sampleWindow, false)
	if err != nil || len(total) == 0 {
		return nil
	}
	values := []Value{
		{ID: "cpu_load_total", Label: "CPU Load", Value: fmt.Sprintf("%.2f", total[0]), Unit: "%", Type: Number},
	}

	perCore, err := cpu.PercentWithContext(ctx, 0, true)
	if err == nil {
		for i, pct := range perCore {
			values = append(values, Value{
				ID:    fmt.Sprintf("cpu_load_core_%d", i),
				Label: fmt.Sprintf("CPU Core %d Load", i),
				Value: fmt.Sprintf("%.2f", pct),
				Unit:  "%",
				Type:  Number,
			})
		}
	}

	temps, err := host.SensorsTemperaturesWithContext(ctx)
	if err == nil {
		for _, t := range temps {
			if !isPackageTempSensor(t.SensorKey) {
				continue
			}
			values = append(values, Value{
				ID:    "cpu_temp_package",
				Label: "CPU Package Temperature",
				Value: fmt.Sprintf("%.2f", t.Temperature),
				Unit:  "°C",
				Type:  Number,
			})
			break
		}
	}
	return values
}

func isPackageTempSensor(key string) bool {
	switch key {
	case "coretemp_packageid0", "k10temp_tctl", "acpitz_temp1", "cpu_thermal_thermal_zone0":
		return true
	default:
		return len(key) > 0
	}
}

// MemProvider reports total/used/free memory (spec.md §4.1).
type MemProvider struct{}

func (MemProvider) Name() string { return "mem" }

func (MemProvider) Collect(ctx context.Context) []Value {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil
	}
	return []Value{
		{ID: "mem_total", Label: "Memory Total", Value: fmt.Sprintf("%.0f", float64(vm.Total)/1e6), Unit: "MB", Type: Number},
		{ID: "mem_used", Label: "Memory Used", Value: fmt.Sprintf("%.0f", float64(vm.Used)/1e6), Unit: "MB", Type: Number},
		{ID: "mem_free", Label: "Memory Free", Value: fmt.Sprintf("%.0f", float64(vm.Free)/1e6), Unit: "MB", Type: Number},
		{ID: "mem_used_percent", Label: "Memory Used Percent", Value: fmt.Sprintf("%.2f", vm.UsedPercent), Unit: "%", Type: Number},
	}
}

// UptimeProvider reports host uptime (spec.md §4.1).
type UptimeProvider struct{}

func (UptimeProvider) Name() string { return "uptime" }

func (UptimeProvider) Collect(ctx context.Context) []Value {
	uptime, err := host.UptimeWithContext(ctx)
	if err != nil {
		return nil
	}
	d := time.Duration(uptime) * time.Second
	return []Value{
		{ID: "uptime", Label: "Uptime", Value: d.String(), Unit: "", Type: Text},
	}
}
