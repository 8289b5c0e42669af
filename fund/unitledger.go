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
	"time"

	"github.com/Kled0u/Dashboard-Investments/data"
	"github.com/rs/zerolog/log"
)

// InvestorPosition is one investor's state at the end of one day.
type InvestorPosition struct {
	Units      float64 `json:"units"`
	Capital    float64 `json:"capital"`
	GrossValue float64 `json:"grossValue"`
}

// LedgerRow is one day of the unit ledger. Fund-wide unit price and units
// outstanding, plus every investor's position.
type LedgerRow struct {
	Date       time.Time                    `json:"date"`
	NavPerUnit float64                      `json:"navPerUnit"`
	TotalUnits float64                      `json:"totalUnits"`
	Investors  map[string]*InvestorPosition `json:"investors"`
}

// InflowSeries aligns the contribution ledger onto the daily calendar: one
// map per day holding each investor's total inflow for that day, all sources
// combined. Several contributions by the same investor on the same day are
// summed here, before the unit ledger runs, so that unit issuance is
// independent of intra-day ordering.
//
// Contributions dated outside the calendar are dropped with a warning.
func InflowSeries(contributions []*data.Contribution, calendar []time.Time) []map[string]float64 {
	if len(calendar) == 0 {
		return nil
	}

	dayIdx := make(map[time.Time]int, len(calendar))
	for ii, day := range calendar {
		dayIdx[day] = ii
	}

	inflows := make([]map[string]float64, len(calendar))
	for ii := range inflows {
		inflows[ii] = make(map[string]float64)
	}
	for _, c := range contributions {
		ii, ok := dayIdx[c.Date]
		if !ok {
			log.Warn().Time("ContributionDate", c.Date).Str("Investor", c.Investor).Float64("Amount", c.Amount).Msg("contribution dated outside the daily calendar; ignored")
			continue
		}
		inflows[ii][c.Investor] += c.Amount
	}
	return inflows
}

// BuildUnitLedger runs the day-by-day unit accounting simulation. The fund is
// seeded at a unit price of 1.0. Each day an investor's inflow buys units at
// the previous day's price, then the day's price is re-struck so that units
// outstanding times price equals the day's total portfolio value.
//
// The recurrence is inherently sequential: each day's price depends on the
// prior day's cumulative unit count. When the previous price is zero or
// negative while new cash arrives, units are issued 1:1 with cash; that keeps
// the simulation defined over an insolvent fund and is reported as a
// diagnostic, not a failure. A fund with no outstanding units holds its last
// known price.
//
// snapshots and inflows must cover the same days in the same order.
func BuildUnitLedger(snapshots []*DailySnapshot, inflows []map[string]float64, investors []string) ([]*LedgerRow, error) {
	if len(snapshots) == 0 {
		return nil, ErrEmptyCalendar
	}
	if len(snapshots) != len(inflows) {
		return nil, ErrMisalignedSeries
	}

	rows := make([]*LedgerRow, 0, len(snapshots))
	navPrev := 1.0
	unitsPrev := make(map[string]float64, len(investors))
	capitalPrev := make(map[string]float64, len(investors))

	for ii, snap := range snapshots {
		row := &LedgerRow{
			Date:      snap.Date,
			Investors: make(map[string]*InvestorPosition, len(investors)),
		}

		for _, inv := range investors {
			inflow := inflows[ii][inv]
			if inflow < 0 {
				return nil, ErrNegativeInflow
			}

			newUnits := 0.0
			if inflow > 0 {
				if navPrev > 0 {
					newUnits = inflow / navPrev
				} else {
					// insolvent fund: issue units 1:1 with cash
					newUnits = inflow
					log.Warn().Time("Date", snap.Date).Str("Investor", inv).Float64("NavPrev", navPrev).Float64("Inflow", inflow).Msg("degenerate unit price; issuing units at par")
				}
			}

			pos := &InvestorPosition{
				Units:   unitsPrev[inv] + newUnits,
				Capital: capitalPrev[inv] + inflow,
			}
			row.Investors[inv] = pos
			row.TotalUnits += pos.Units
		}

		if row.TotalUnits > 0 {
			row.NavPerUnit = snap.TotalValue / row.TotalUnits
		} else {
			row.NavPerUnit = navPrev
		}

		for _, pos := range row.Investors {
			pos.GrossValue = pos.Units * row.NavPerUnit
		}

		navPrev = row.NavPerUnit
		for inv, pos := range row.Investors {
			unitsPrev[inv] = pos.Units
			capitalPrev[inv] = pos.Capital
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// HasInvestor reports whether name appears in the investor set. Matching is
// exact; investor names are identifiers, not display strings.
func HasInvestor(investors []string, name string) bool {
	for _, inv := range investors {
		if inv == name {
			return true
		}
	}
	return false
}
