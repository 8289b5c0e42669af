// Copyright 2025-2026
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fund_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	json "github.com/goccy/go-json"

	"github.com/Kled0u/Dashboard-Investments/fund"
)

// navLedger builds ledger rows from a unit price path for a single investor
// holding a constant 1000 of capital.
func navLedger(navs ...float64) []*fund.LedgerRow {
	rows := make([]*fund.LedgerRow, len(navs))
	for idx, nav := range navs {
		rows[idx] = &fund.LedgerRow{
			Date:       day(idx),
			NavPerUnit: nav,
			TotalUnits: 1000,
			Investors: map[string]*fund.InvestorPosition{
				"alice": {Units: 1000, Capital: 1000, GrossValue: 1000 * nav},
			},
		}
	}
	return rows
}

var _ = Describe("Portfolio summary", func() {
	It("reports NaN, not zero, for an empty history", func() {
		summary := fund.ComputeSummary(nil, nil)
		Expect(summary.NumDays).To(Equal(0))
		Expect(math.IsNaN(summary.FinalBalance)).To(BeTrue())
		Expect(math.IsNaN(summary.CagrSinceInception)).To(BeTrue())
		Expect(math.IsNaN(summary.AnnualizedVolatility)).To(BeTrue())
		Expect(math.IsNaN(summary.MaxDrawDown)).To(BeTrue())
	})

	It("takes the final balance from the last snapshot", func() {
		rows := navLedger(1.0, 1.1)
		snaps := snapshotSeries(1000, 1100)
		summary := fund.ComputeSummary(snaps, rows)
		Expect(summary.FinalBalance).To(Equal(1100.0))
		Expect(summary.TotalDeposited).To(Equal(1000.0))
		Expect(summary.NumDays).To(Equal(2))
	})

	It("computes growth on the unit price, not the total value", func() {
		// a deposit doubles the balance while the unit price is flat
		rows := navLedger(1.0, 1.0, 1.0)
		rows[2].Investors["alice"].Capital = 2000
		rows[2].Investors["alice"].GrossValue = 2000
		snaps := snapshotSeries(1000, 1000, 2000)

		summary := fund.ComputeSummary(snaps, rows)
		Expect(summary.CagrSinceInception).To(BeNumerically("~", 0, 1e-12))
	})

	It("annualizes the unit price growth", func() {
		rows := navLedger(1.0, 1.0, 1.21)
		snaps := snapshotSeries(1000, 1000, 1210)
		summary := fund.ComputeSummary(snaps, rows)

		years := 2.0 / 365.25
		Expect(summary.CagrSinceInception).To(BeNumerically("~", math.Pow(1.21, 1/years)-1, 1e-9))
	})

	It("reports zero volatility for a constant unit price", func() {
		rows := navLedger(1.0, 1.0, 1.0, 1.0)
		snaps := snapshotSeries(1000, 1000, 1000, 1000)
		summary := fund.ComputeSummary(snaps, rows)
		Expect(summary.AnnualizedVolatility).To(BeNumerically("~", 0, 1e-12))
	})

	It("measures the max drawdown from the running peak", func() {
		rows := navLedger(1.0, 1.25, 1.0, 1.1)
		snaps := snapshotSeries(1000, 1250, 1000, 1100)
		summary := fund.ComputeSummary(snaps, rows)
		Expect(summary.MaxDrawDown).To(BeNumerically("~", 1.0/1.25-1.0, 1e-12))
	})

	It("marshals a one-day-old fund's summary as JSON", func() {
		rows := navLedger(1.0)
		snaps := snapshotSeries(1000)
		summary := fund.ComputeSummary(snaps, rows)

		raw, err := json.Marshal(summary)
		Expect(err).To(BeNil())

		var decoded struct {
			FinalBalance         *float64 `json:"finalBalance"`
			TotalDeposited       float64  `json:"totalDeposited"`
			CagrSinceInception   *float64 `json:"cagrSinceInception"`
			AnnualizedVolatility *float64 `json:"annualizedVolatility"`
			MaxDrawDown          *float64 `json:"maxDrawDown"`
			NumDays              int      `json:"numDays"`
		}
		Expect(json.Unmarshal(raw, &decoded)).To(Succeed())
		Expect(*decoded.FinalBalance).To(Equal(1000.0))
		Expect(decoded.TotalDeposited).To(Equal(1000.0))
		Expect(decoded.CagrSinceInception).To(BeNil())
		Expect(decoded.AnnualizedVolatility).To(BeNil())
		Expect(decoded.NumDays).To(Equal(1))
	})

	It("sums deposits across investors", func() {
		rows := navLedger(1.0, 1.0)
		rows[1].Investors["bob"] = &fund.InvestorPosition{Units: 500, Capital: 500, GrossValue: 500}
		snaps := snapshotSeries(1000, 1500)
		summary := fund.ComputeSummary(snaps, rows)
		Expect(summary.TotalDeposited).To(Equal(1500.0))
	})
})
