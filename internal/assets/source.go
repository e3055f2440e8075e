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
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sensorbridge/agent/internal/apierrors"
)

// sourceTimeout bounds fetching a StaticImage/ConditionalImage source over
// HTTPS (spec.md §5 "Timeouts").
const sourceTimeout = 5 * time.Second

var httpClient = &http.Client{Timeout: sourceTimeout}

// loadSource reads path as a local file or, if it looks like a URL, fetches
// it over HTTP(S) (spec.md §4.3 "load source (file or HTTPS)").
func loadSource(path string) ([]byte, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		resp, err := httpClient.Get(path)
		if err != nil {
			return nil, apierrors.TransientIO("fetching "+path, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, apierrors.AssetMissing("fetching " + path + ": status " + resp.Status)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, apierrors.TransientIO("reading body of "+path, err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apierrors.AssetMissing("reading " + path + ": " + err.Error())
	}
	return data, nil
}
