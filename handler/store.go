// Copyright 2025-2026
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package handler

import (
	"sync"

	"github.com/Kled0u/Dashboard-Investments/fund"
)

// The handlers serve whichever report the refresh loop published last. The
// report itself is immutable; only the pointer is swapped.
var (
	reportMu      sync.RWMutex
	currentReport *fund.Report
)

// SetReport publishes a freshly computed report to the API handlers.
func SetReport(r *fund.Report) {
	reportMu.Lock()
	defer reportMu.Unlock()
	currentReport = r
}

func getReport() *fund.Report {
	reportMu.RLock()
	defer reportMu.RUnlock()
	return currentReport
}
