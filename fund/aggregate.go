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
	"sort"
	"strings"
	"time"

	"github.com/Kled0u/Dashboard-Investments/data"
)

// DailySnapshot is the whole portfolio's value on one calendar day, broken
// down by placement source.
type DailySnapshot struct {
	Date       time.Time          `json:"date"`
	PerSource  map[string]float64 `json:"perSource"`
	TotalValue float64            `json:"totalValue"`
}

// Midnight truncates t to the start of its calendar day in UTC.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Calendar builds the continuous daily date range from start through end,
// both inclusive.
func Calendar(start, end time.Time) ([]time.Time, error) {
	start = Midnight(start)
	end = Midnight(end)
	if start.After(end) {
		return nil, ErrTimeInverted
	}

	days := make([]time.Time, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days, nil
}

// BuildDailyValues computes the portfolio's value for every calendar day from
// the first contribution through today inclusive.
//
// The externally priced source is forward-filled from its sparse valuation
// feed: each day carries the latest feed value dated on or before it, and 0
// before the first known point. Every other source is cash-like and is valued
// at its cumulative net contributions through that day.
func BuildDailyValues(ds *data.Dataset, today time.Time) ([]*DailySnapshot, error) {
	if len(ds.Contributions) == 0 {
		return nil, ErrNoContributions
	}

	calendar, err := Calendar(ds.Contributions[0].Date, today)
	if err != nil {
		return nil, err
	}
	if len(calendar) == 0 {
		return nil, ErrEmptyCalendar
	}

	// per-source per-day contribution sums for the cash-like sources
	sourceInflows := make(map[string]map[time.Time]float64)
	for _, c := range ds.Contributions {
		if strings.EqualFold(c.Source, ds.ValuationSource) {
			continue
		}
		byDay, ok := sourceInflows[c.Source]
		if !ok {
			byDay = make(map[time.Time]float64)
			sourceInflows[c.Source] = byDay
		}
		byDay[c.Date] += c.Amount
	}

	sources := make([]string, 0, len(sourceInflows))
	for name := range sourceInflows {
		sources = append(sources, name)
	}
	sort.Strings(sources)

	snapshots := make([]*DailySnapshot, 0, len(calendar))
	running := make(map[string]float64, len(sources))
	feedIdx := 0
	feedValue := 0.0
	for _, day := range calendar {
		// carry the last known feed value forward; 0 before the first point
		for feedIdx < len(ds.Valuations) && !ds.Valuations[feedIdx].Date.After(day) {
			feedValue = ds.Valuations[feedIdx].Value
			feedIdx++
		}

		snap := &DailySnapshot{
			Date:      day,
			PerSource: make(map[string]float64, len(sources)+1),
		}
		snap.PerSource[ds.ValuationSource] = feedValue
		snap.TotalValue = feedValue

		for _, name := range sources {
			running[name] += sourceInflows[name][day]
			snap.PerSource[name] = running[name]
			snap.TotalValue += running[name]
		}

		snapshots = append(snapshots, snap)
	}

	return snapshots, nil
}
