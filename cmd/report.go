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

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/Kled0u/Dashboard-Investments/common"
	"github.com/Kled0u/Dashboard-Investments/data"
	"github.com/Kled0u/Dashboard-Investments/fund"

	"github.com/goccy/go-json"
	"github.com/guptarohit/asciigraph"
	dataframe "github.com/rocketlaunchr/dataframe-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	reportJSON  bool
	reportTable bool
)

func init() {
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Print the full report as JSON")
	reportCmd.Flags().BoolVar(&reportTable, "table", false, "Print the complete daily table")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compute the fund ledger and print per-investor valuations",
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
		ctx := context.Background()

		policy, err := fund.ParseFeePolicy(viper.GetString("fees.policy"))
		if err != nil {
			log.Fatal().Err(err).Msg("invalid fee policy in configuration")
		}

		ds, err := data.NewManager().Load(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load source data")
		}

		report, err := fund.BuildReport(ctx, ds, fund.Options{
			Fees: fund.FeeConfig{
				TaxRate: viper.GetFloat64("fees.tax_rate"),
				FeeRate: viper.GetFloat64("fees.fee_rate"),
				Policy:  policy,
			},
		})
		if err != nil {
			log.Fatal().Err(err).Msg("could not compute report")
		}

		if reportJSON {
			raw, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				log.Fatal().Err(err).Msg("could not marshal report")
			}
			fmt.Println(string(raw))
			return
		}

		printReport(report)
	},
}

func printReport(report *fund.Report) {
	fmt.Printf("Fund report through %s (%d days, %d investors)\n\n",
		report.Through.Format("2006-01-02"), len(report.Snapshots), len(report.Investors))

	fmt.Println(asciigraph.Plot(report.NavSeries(),
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("NAV per unit")))
	fmt.Println()

	for _, s := range report.InvestorSummaries {
		fmt.Printf("%s\n", s.Name)
		fmt.Printf("  Capital contributed: %12.2f\n", s.Capital)
		fmt.Printf("  Gross value:         %12.2f  (%+.2f%%)\n", s.GrossValue, s.GrossGainPct)
		fmt.Printf("  Latent tax:          %12.2f\n", s.LatentTax)
		fmt.Printf("  Management fee:      %12.2f\n", s.ManagementFee)
		fmt.Printf("  Net value:           %12.2f  (%+.2f%%)\n", s.NetValue, s.NetGainPct)
		fmt.Println()
	}

	p := report.Portfolio
	fmt.Printf("Portfolio: balance %.2f, deposited %.2f, CAGR %.2f%%, volatility %.2f%%, max drawdown %.2f%%\n",
		p.FinalBalance, p.TotalDeposited, p.CagrSinceInception*100, p.AnnualizedVolatility*100, p.MaxDrawDown*100)

	if report.Positions != nil {
		fmt.Printf("\nPositions snapshot %s (total %.2f):\n", report.Positions.FileName, report.Positions.TotalValue)
		for _, h := range report.Positions.Holdings {
			fmt.Printf("  %-30s %12.2f\n", h.Name, h.Value)
		}
	}

	if reportTable {
		fmt.Println()
		fmt.Println(dailyTable(report).Table())
	}
}

// dailyTable renders the fund-wide daily series as a dataframe for printing.
func dailyTable(report *fund.Report) *dataframe.DataFrame {
	n := len(report.Ledger)
	dates := make([]time.Time, n)
	totals := make([]float64, n)
	navs := make([]float64, n)
	units := make([]float64, n)
	for ii, row := range report.Ledger {
		dates[ii] = row.Date
		totals[ii] = report.Snapshots[ii].TotalValue
		navs[ii] = row.NavPerUnit
		units[ii] = row.TotalUnits
	}

	return dataframe.NewDataFrame(
		dataframe.NewSeriesTime("DATE", &dataframe.SeriesInit{Size: n}, dates),
		dataframe.NewSeriesFloat64("TOTAL VALUE", &dataframe.SeriesInit{Size: n}, totals),
		dataframe.NewSeriesFloat64("NAV", &dataframe.SeriesInit{Size: n}, navs),
		dataframe.NewSeriesFloat64("UNITS", &dataframe.SeriesInit{Size: n}, units),
	)
}
