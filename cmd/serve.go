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
	"os"
	"os/signal"
	"time"

	"github.com/Kled0u/Dashboard-Investments/common"
	"github.com/Kled0u/Dashboard-Investments/data"
	"github.com/Kled0u/Dashboard-Investments/fund"
	"github.com/Kled0u/Dashboard-Investments/handler"
	"github.com/Kled0u/Dashboard-Investments/middleware"
	"github.com/Kled0u/Dashboard-Investments/observability/opentelemetry"
	"github.com/Kled0u/Dashboard-Investments/router"

	"github.com/go-co-op/gocron"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	viper.BindEnv("server.port", "PORT")
	viper.SetDefault("server.port", 3000)
	serveCmd.Flags().IntP("port", "p", 3000, "Port to run application server on")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))

	viper.SetDefault("server.refresh_interval", time.Hour)
	serveCmd.Flags().Duration("refresh-interval", time.Hour, "How often to reload source files and recompute the report")
	viper.BindPFlag("server.refresh_interval", serveCmd.Flags().Lookup("refresh-interval"))

	rootCmd.AddCommand(serveCmd)
}

// refreshReport reloads the source files and recomputes the report, reusing
// the cached result when the sources haven't changed since the last refresh.
func refreshReport(ctx context.Context) error {
	manager := data.NewManager()

	fingerprint, err := manager.Fingerprint()
	if err == nil {
		if cached, ok := common.CacheGet(fingerprint); ok {
			handler.SetReport(cached.(*fund.Report))
			log.Debug().Str("Fingerprint", fingerprint).Msg("sources unchanged; serving cached report")
			return nil
		}
	}

	ds, err := manager.Load(ctx)
	if err != nil {
		return err
	}

	policy, err := fund.ParseFeePolicy(viper.GetString("fees.policy"))
	if err != nil {
		return err
	}

	report, err := fund.BuildReport(ctx, ds, fund.Options{
		Fees: fund.FeeConfig{
			TaxRate: viper.GetFloat64("fees.tax_rate"),
			FeeRate: viper.GetFloat64("fees.fee_rate"),
			Policy:  policy,
		},
	})
	if err != nil {
		return err
	}

	handler.SetReport(report)
	if fingerprint != "" {
		common.CacheSet(fingerprint, report)
	}
	return nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the fund ledger API server",
	Long:  `Run an HTTP server that exposes the computed fund ledger as a JSON API`,
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
		common.SetupCache()
		log.Info().Msg("initialized logging")

		if viper.GetString("otlp.endpoint") != "" {
			shutdown, err := opentelemetry.Setup()
			if err != nil {
				log.Error().Err(err).Msg("could not initialize trace exporter")
			} else {
				defer func() {
					if err := shutdown(context.Background()); err != nil {
						log.Error().Err(err).Msg("could not shutdown trace exporter")
					}
				}()
			}
		}

		if err := refreshReport(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("could not compute initial report")
		}

		// Create new Fiber instance. Investor names carry spaces and
		// accents, so route parameters must be unescaped before lookup.
		app := fiber.New(fiber.Config{
			JSONEncoder:  json.Marshal,
			JSONDecoder:  json.Unmarshal,
			UnescapePath: true,
		})

		// shutdown cleanly on interrupt
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		go func() {
			sig := <-c // block until signal is read
			fmt.Printf("Received signal: '%s'; shutting down...\n", sig.String())
			if err := app.Shutdown(); err != nil {
				log.Fatal().Err(err).Msg("could not shutdown fiber app")
			}
		}()

		// Configure CORS
		corsConfig := cors.Config{
			AllowOrigins: "*",
			AllowHeaders: "*",
			AllowMethods: "GET,HEAD",
		}
		app.Use(cors.New(corsConfig))

		// Setup logging middleware
		app.Use(middleware.NewLogger())

		// Setup routes
		router.SetupRoutes(app)

		// Periodically reload source files and refresh the report
		scheduler := gocron.NewScheduler(time.UTC)
		scheduler.Every(viper.GetDuration("server.refresh_interval")).Do(func() {
			if err := refreshReport(context.Background()); err != nil {
				log.Error().Err(err).Msg("scheduled report refresh failed; keeping previous report")
			}
		})
		scheduler.StartAsync()

		// Start server
		err := app.Listen(fmt.Sprintf(":%d", viper.GetInt("server.port")))
		if err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	},
}
