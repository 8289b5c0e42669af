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
	"context"
	"time"

	"github.com/Kled0u/Dashboard-Investments/data"
	"github.com/Kled0u/Dashboard-Investments/observability/opentelemetry"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
)

// Options parameterizes one report run. Today is injectable so runs are
// reproducible; the zero value means time.Now.
type Options struct {
	Today time.Time
	Fees  FeeConfig
}

// InvestorSummary is an investor's position on the last day of the series.
type InvestorSummary struct {
	Name          string  `json:"name"`
	Capital       float64 `json:"capital"`
	GrossValue    float64 `json:"grossValue"`
	NetValue      float64 `json:"netValue"`
	GrossGain     float64 `json:"grossGain"`
	NetGain       float64 `json:"netGain"`
	GrossGainPct  float64 `json:"grossGainPct"`
	NetGainPct    float64 `json:"netGainPct"`
	LatentTax     float64 `json:"latentTax"`
	ManagementFee float64 `json:"managementFee"`
}

// InvestorDay pairs a date with one investor's net state for per-investor
// series extraction.
type InvestorDay struct {
	Date time.Time `json:"date"`
	*InvestorNet
}

// Report is the finished output of one full pipeline run. Every table is
// recomputed from the source dataset; nothing is carried over between runs.
type Report struct {
	ID         uuid.UUID `json:"id"`
	ComputedOn time.Time `json:"computedOn"`
	Through    time.Time `json:"through"`
	Investors  []string  `json:"investors"`
	Fees       FeeConfig `json:"fees"`

	Snapshots []*DailySnapshot `json:"snapshots"`
	Ledger    []*LedgerRow     `json:"ledger"`
	Net       []*NetRow        `json:"net"`

	InvestorSummaries []*InvestorSummary      `json:"investorSummaries"`
	Portfolio         *Summary                `json:"portfolio"`
	Positions         *data.PositionsSnapshot `json:"positions,omitempty"`
}

// BuildReport runs the full pipeline: aggregate daily portfolio values, run
// the unit ledger, apply the fee and tax overlay, then derive the summary
// tables. Stages run strictly in order; each consumes the previous stage's
// finished output.
func BuildReport(ctx context.Context, ds *data.Dataset, opts Options) (*Report, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "fund.BuildReport")
	defer span.End()

	today := opts.Today
	if today.IsZero() {
		today = time.Now()
	}
	today = Midnight(today)

	snapshots, err := BuildDailyValues(ds, today)
	if err != nil {
		return nil, err
	}

	_, ledgerSpan := otel.Tracer(opentelemetry.Name).Start(ctx, "fund.BuildUnitLedger")
	calendar := make([]time.Time, len(snapshots))
	for ii, snap := range snapshots {
		calendar[ii] = snap.Date
	}
	inflows := InflowSeries(ds.Contributions, calendar)
	ledger, err := BuildUnitLedger(snapshots, inflows, ds.Investors)
	ledgerSpan.End()
	if err != nil {
		return nil, err
	}

	net := ApplyFeesAndTaxes(ledger, opts.Fees)

	report := &Report{
		ID:         uuid.New(),
		ComputedOn: time.Now(),
		Through:    today,
		Investors:  ds.Investors,
		Fees:       opts.Fees,
		Snapshots:  snapshots,
		Ledger:     ledger,
		Net:        net,
		Portfolio:  ComputeSummary(snapshots, ledger),
		Positions:  ds.Snapshot,
	}
	report.InvestorSummaries = buildInvestorSummaries(ds.Investors, net)

	log.Info().Str("ReportID", report.ID.String()).Time("Through", today).Int("NumDays", len(snapshots)).Int("NumInvestors", len(ds.Investors)).Msg("report computed")
	return report, nil
}

func buildInvestorSummaries(investors []string, net []*NetRow) []*InvestorSummary {
	if len(net) == 0 {
		return nil
	}
	last := net[len(net)-1]

	summaries := make([]*InvestorSummary, 0, len(investors))
	for _, inv := range investors {
		pos, ok := last.Investors[inv]
		if !ok {
			continue
		}
		s := &InvestorSummary{
			Name:          inv,
			Capital:       pos.Capital,
			GrossValue:    pos.GrossValue,
			NetValue:      pos.NetValue,
			GrossGain:     pos.GrossGain,
			NetGain:       pos.NetValue - pos.Capital,
			LatentTax:     pos.LatentTax,
			ManagementFee: pos.ManagementFee,
		}
		if pos.Capital > 0 {
			s.GrossGainPct = s.GrossGain / pos.Capital * 100
			s.NetGainPct = s.NetGain / pos.Capital * 100
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// InvestorSeries extracts one investor's daily net series from the report.
func (r *Report) InvestorSeries(name string) ([]*InvestorDay, error) {
	if !HasInvestor(r.Investors, name) {
		return nil, ErrInvestorNotFound
	}

	series := make([]*InvestorDay, 0, len(r.Net))
	for _, row := range r.Net {
		if pos, ok := row.Investors[name]; ok {
			series = append(series, &InvestorDay{Date: row.Date, InvestorNet: pos})
		}
	}
	return series, nil
}

// NavSeries returns the daily unit price, oldest first.
func (r *Report) NavSeries() []float64 {
	nav := make([]float64, len(r.Ledger))
	for ii, row := range r.Ledger {
		nav[ii] = row.NavPerUnit
	}
	return nav
}
