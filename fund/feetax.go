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
	"fmt"
	"time"
)

// FeePolicy names the rule that determines the annual management fee base.
type FeePolicy string

const (
	// FeePolicyProfit charges the fee on positive annual profit only; a
	// flat or losing year accrues no fee.
	FeePolicyProfit FeePolicy = "profit"

	// FeePolicyProfitOrCapital charges the fee on annual profit when there
	// is one and on total contributed capital otherwise.
	FeePolicyProfitOrCapital FeePolicy = "profit-or-capital"
)

// ParseFeePolicy maps a configuration string to a FeePolicy.
func ParseFeePolicy(s string) (FeePolicy, error) {
	switch FeePolicy(s) {
	case FeePolicyProfit:
		return FeePolicyProfit, nil
	case FeePolicyProfitOrCapital:
		return FeePolicyProfitOrCapital, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFeePolicy, s)
}

// FeeConfig carries the rates and policy of the fee and tax overlay.
type FeeConfig struct {
	TaxRate float64   `json:"taxRate"`
	FeeRate float64   `json:"feeRate"`
	Policy  FeePolicy `json:"policy"`
}

// InvestorNet is one investor's after-tax, after-fee state on one day.
type InvestorNet struct {
	Capital       float64 `json:"capital"`
	GrossValue    float64 `json:"grossValue"`
	GrossGain     float64 `json:"grossGain"`
	LatentTax     float64 `json:"latentTax"`
	ManagementFee float64 `json:"managementFee"`
	NetValue      float64 `json:"netValue"`
}

// NetRow is one day of the net valuation table.
type NetRow struct {
	Date      time.Time               `json:"date"`
	Investors map[string]*InvestorNet `json:"investors"`
}

// yearOpen records an investor's state on the first ledger row of a calendar
// year; annual profit is measured against it.
type yearOpen struct {
	grossValue float64
	capital    float64
}

func daysInYear(year int) float64 {
	if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
		return 366
	}
	return 365
}

// ApplyFeesAndTaxes layers the latent capital-gains tax and the daily-accrued
// annual management fee over the unit ledger.
//
// The latent tax is a flat rate on the positive part of the investor's gross
// gain since inception. The management fee accrues daily against an annual
// base: the year's profit is the investor's value change since the year's
// first day minus the new money added since then, so deposits alone never
// look like performance. How a non-positive profit year is charged depends on
// the configured FeePolicy.
func ApplyFeesAndTaxes(rows []*LedgerRow, cfg FeeConfig) []*NetRow {
	netRows := make([]*NetRow, 0, len(rows))
	opens := make(map[string]*yearOpen)
	currentYear := -1

	for _, row := range rows {
		year := row.Date.Year()
		if year != currentYear {
			currentYear = year
			for inv, pos := range row.Investors {
				opens[inv] = &yearOpen{grossValue: pos.GrossValue, capital: pos.Capital}
			}
		}

		net := &NetRow{
			Date:      row.Date,
			Investors: make(map[string]*InvestorNet, len(row.Investors)),
		}

		dayOfYear := float64(row.Date.YearDay())
		yearDays := daysInYear(year)

		for inv, pos := range row.Investors {
			open := opens[inv]
			grossGain := pos.GrossValue - pos.Capital

			latentTax := 0.0
			if grossGain > 0 {
				latentTax = grossGain * cfg.TaxRate
			}

			// value appreciation during the year, net of new money
			yearInflows := pos.Capital - open.capital
			yearValueChange := pos.GrossValue - open.grossValue
			profit := yearValueChange - yearInflows

			var feeBase float64
			switch cfg.Policy {
			case FeePolicyProfitOrCapital:
				if profit > 0 {
					feeBase = profit * cfg.FeeRate
				} else {
					feeBase = pos.Capital * cfg.FeeRate
				}
			default:
				if profit > 0 {
					feeBase = profit * cfg.FeeRate
				}
			}
			fee := feeBase * dayOfYear / yearDays

			net.Investors[inv] = &InvestorNet{
				Capital:       pos.Capital,
				GrossValue:    pos.GrossValue,
				GrossGain:     grossGain,
				LatentTax:     latentTax,
				ManagementFee: fee,
				NetValue:      pos.GrossValue - latentTax - fee,
			}
		}

		netRows = append(netRows, net)
	}

	return netRows
}
