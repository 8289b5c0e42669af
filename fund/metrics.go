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

package fund

import (
	"math"

	json "github.com/goccy/go-json"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates whole-portfolio statistics over the daily series.
// Return-based figures are computed on the unit price rather than the total
// value so that new deposits don't masquerade as performance.
type Summary struct {
	FinalBalance         float64
	TotalDeposited       float64
	CagrSinceInception   float64
	AnnualizedVolatility float64
	MaxDrawDown          float64
	NumDays              int
}

// MarshalJSON renders figures that need more history than the series carries
// as null. JSON has no NaN, so the in-memory sentinel cannot cross the wire.
func (s *Summary) MarshalJSON() ([]byte, error) {
	finite := func(v float64) *float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return &v
	}

	return json.Marshal(&struct {
		FinalBalance         *float64 `json:"finalBalance"`
		TotalDeposited       float64  `json:"totalDeposited"`
		CagrSinceInception   *float64 `json:"cagrSinceInception"`
		AnnualizedVolatility *float64 `json:"annualizedVolatility"`
		MaxDrawDown          *float64 `json:"maxDrawDown"`
		NumDays              int      `json:"numDays"`
	}{
		FinalBalance:         finite(s.FinalBalance),
		TotalDeposited:       s.TotalDeposited,
		CagrSinceInception:   finite(s.CagrSinceInception),
		AnnualizedVolatility: finite(s.AnnualizedVolatility),
		MaxDrawDown:          finite(s.MaxDrawDown),
		NumDays:              s.NumDays,
	})
}

// ComputeSummary derives portfolio summary statistics from the daily
// snapshots and the unit ledger. Figures that need more history than the
// series carries are reported as NaN, not zero.
func ComputeSummary(snapshots []*DailySnapshot, rows []*LedgerRow) *Summary {
	summary := &Summary{
		FinalBalance:         math.NaN(),
		TotalDeposited:       0.0,
		CagrSinceInception:   math.NaN(),
		AnnualizedVolatility: math.NaN(),
		MaxDrawDown:          math.NaN(),
		NumDays:              len(rows),
	}
	if len(snapshots) == 0 || len(rows) == 0 {
		return summary
	}

	summary.FinalBalance = snapshots[len(snapshots)-1].TotalValue
	for _, pos := range rows[len(rows)-1].Investors {
		summary.TotalDeposited += pos.Capital
	}

	navFirst := rows[0].NavPerUnit
	navLast := rows[len(rows)-1].NavPerUnit
	if len(rows) > 1 && navFirst > 0 && navLast > 0 {
		years := float64(len(rows)-1) / 365.25
		if years > 0 {
			summary.CagrSinceInception = math.Pow(navLast/navFirst, 1.0/years) - 1.0
		}
	}

	if len(rows) > 2 {
		returns := make([]float64, 0, len(rows)-1)
		for ii := 1; ii < len(rows); ii++ {
			prev := rows[ii-1].NavPerUnit
			if prev > 0 {
				returns = append(returns, rows[ii].NavPerUnit/prev-1.0)
			}
		}
		if len(returns) > 1 {
			summary.AnnualizedVolatility = stat.StdDev(returns, nil) * math.Sqrt(365.25)
		}
	}

	peak := math.Inf(-1)
	maxDrawDown := 0.0
	for _, row := range rows {
		if row.NavPerUnit > peak {
			peak = row.NavPerUnit
		}
		if peak > 0 {
			dd := row.NavPerUnit/peak - 1.0
			if dd < maxDrawDown {
				maxDrawDown = dd
			}
		}
	}
	summary.MaxDrawDown = maxDrawDown

	return summary
}
