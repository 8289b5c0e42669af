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
	"github.com/Kled0u/Dashboard-Investments/fund"
	"github.com/gofiber/fiber/v2"
)

type portfolioResponse struct {
	ReportID  string                `json:"reportId"`
	Through   string                `json:"through"`
	NumDays   int                   `json:"numDays"`
	Snapshots []*fund.DailySnapshot `json:"snapshots"`
}

// GetPortfolio returns the daily total portfolio value with its per-source
// breakdown.
func GetPortfolio(c *fiber.Ctx) error {
	report := getReport()
	if report == nil {
		return fiber.ErrServiceUnavailable
	}

	return c.JSON(portfolioResponse{
		ReportID:  report.ID.String(),
		Through:   report.Through.Format("2006-01-02"),
		NumDays:   len(report.Snapshots),
		Snapshots: report.Snapshots,
	})
}

// GetPortfolioSummary returns whole-portfolio statistics over the daily
// series.
func GetPortfolioSummary(c *fiber.Ctx) error {
	report := getReport()
	if report == nil {
		return fiber.ErrServiceUnavailable
	}
	return c.JSON(report.Portfolio)
}
