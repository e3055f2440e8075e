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

	psnet "github.com/shirou/gopsutil/v3/net"
)

// NetProvider reports per-interface RX/TX throughput and one address per
// interface (spec.md §4.1): the first address the OS lists for it, which
// may be IPv4 or IPv6. Further addresses of the interface are not
// reported. Throughput is a delta over sampleWindow, like the CPU and disk
// providers.
type NetProvider struct{}

func (NetProvider) Name() string { return "net" }

func (n NetProvider) Collect(ctx context.Context) []Value {
	before, err := psnet.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return nil
	case <-time.After(sampleWindow):
	}
	after, err := psnet.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil
	}

	beforeByName := make(map[string]psnet.IOCountersStat, len(before))
	for _, s := range before {
		beforeByName[s.Name] = s
	}

	ifaces, _ := psnet.InterfacesWithContext(ctx)
	addrsByName := make(map[string][]string, len(ifaces))
	for _, iface := range ifaces {
		for _, addr := range iface.Addrs {
			addrsByName[iface.Name] = append(addrsByName[iface.Name], addr.Addr)
		}
	}

	var values []Value
	scale := time.Second.Seconds() / sampleWindow.Seconds()
	for _, cur := range after {
		prev, ok := beforeByName[cur.Name]
		if !ok {
			continue
		}
		rxRate := float64(cur.BytesRecv-prev.BytesRecv) * scale / 1e6
		txRate := float64(cur.BytesSent-prev.BytesSent) * scale / 1e6
		values = append(values,
			Value{ID: fmt.Sprintf("net_%s_rx", cur.Name), Label: fmt.Sprintf("%s RX", cur.Name), Value: fmt.Sprintf("%.2f", rxRate), Unit: "MB/s", Type: Number},
			Value{ID: fmt.Sprintf("net_%s_tx", cur.Name), Label: fmt.Sprintf("%s TX", cur.Name), Value: fmt.Sprintf("%.2f", txRate), Unit: "MB/s", Type: Number},
		)
		if addrs, ok := addrsByName[cur.Name]; ok && len(addrs) > 0 {
			values = append(values, Value{
				ID:    fmt.Sprintf("net_%s_addr", cur.Name),
				Label: fmt.Sprintf("%s Address", cur.Name),
				Value: addrs[0],
				Type:  Text,
			})
		}
	}
	return values
}
