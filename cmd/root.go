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
	"fmt"
	"os"

	"github.com/Kled0u/Dashboard-Investments/common"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Data sources
	viper.SetDefault("data.contributions", "data/apports_investisseurs.csv")
	viper.BindEnv("data.contributions", "FUNDLEDGER_CONTRIBUTIONS")
	rootCmd.PersistentFlags().String("contributions", "", "Path to the contribution ledger CSV")
	viper.BindPFlag("data.contributions", rootCmd.PersistentFlags().Lookup("contributions"))

	viper.SetDefault("data.valuations", "data/performance_pea.csv")
	viper.BindEnv("data.valuations", "FUNDLEDGER_VALUATIONS")
	rootCmd.PersistentFlags().String("valuations", "", "Path to the external valuation feed CSV")
	viper.BindPFlag("data.valuations", rootCmd.PersistentFlags().Lookup("valuations"))

	viper.SetDefault("data.positions_dir", "data/Positions")
	viper.BindEnv("data.positions_dir", "FUNDLEDGER_POSITIONS_DIR")
	rootCmd.PersistentFlags().String("positions-dir", "", "Directory holding monthly positions snapshot CSVs")
	viper.BindPFlag("data.positions_dir", rootCmd.PersistentFlags().Lookup("positions-dir"))

	viper.SetDefault("data.valuation_source", "PEA")
	rootCmd.PersistentFlags().String("valuation-source", "", "Name of the externally priced placement source")
	viper.BindPFlag("data.valuation_source", rootCmd.PersistentFlags().Lookup("valuation-source"))

	// Fee and tax overlay
	viper.SetDefault("fees.tax_rate", 0.30)
	viper.SetDefault("fees.fee_rate", 0.02)
	viper.SetDefault("fees.policy", "profit")
	rootCmd.PersistentFlags().String("fee-policy", "", "Annual fee base policy: profit or profit-or-capital")
	viper.BindPFlag("fees.policy", rootCmd.PersistentFlags().Lookup("fee-policy"))

	// Cache
	viper.SetDefault("cache.local_size", 4)

	// Logging configuration
	viper.SetDefault("log.level", "warning")
	viper.BindEnv("log.level", "FUNDLEDGER_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "warning", "Logging level")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.BindEnv("log.report_caller", "FUNDLEDGER_LOG_REPORT_CALLER")
	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller"))

	viper.SetDefault("log.output", "stderr")
	viper.BindEnv("log.output", "FUNDLEDGER_LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "stderr", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output"))

	rootCmd.PersistentFlags().Bool("log-pretty", false, "Print logs through the console writer")
	viper.BindPFlag("log.pretty", rootCmd.PersistentFlags().Lookup("log-pretty"))

	// Tracing
	viper.BindEnv("otlp.endpoint", "OTLP_ENDPOINT")
}

var rootCmd = &cobra.Command{
	Use:     "fundledger",
	Version: common.CurrentVersion.String(),
	Short:   "fundledger tracks a pooled investment fund across multiple investors",
	Long: `Unit-based accounting for a pooled investment fund. Contributions buy
fund units at the prevailing unit price so that gains and losses are shared
fairly between investors who enter at different times and amounts.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
