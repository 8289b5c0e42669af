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
	"errors"

	"github.com/Kled0u/Dashboard-Investments/fund"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type investorListResponse struct {
	Investors []*fund.InvestorSummary `json:"investors"`
}

type investorResponse struct {
	Name    string                `json:"name"`
	Summary *fund.InvestorSummary `json:"summary"`
	Series  []*fund.InvestorDay   `json:"series"`
}

// ListInvestors returns every investor's last-day summary.
func ListInvestors(c *fiber.Ctx) error {
	report := getReport()
	if report == nil {
		return fiber.ErrServiceUnavailable
	}
	return c.JSON(investorListResponse{Investors: report.InvestorSummaries})
}

// GetInvestor returns one investor's full daily net series.
func GetInvestor(c *fiber.Ctx) error {
	report := getReport()
	if report == nil {
		return fiber.ErrServiceUnavailable
	}

	name := c.Params("name")
	series, err := report.InvestorSeries(name)
	if err != nil {
		if errors.Is(err, fund.ErrInvestorNotFound) {
			return fiber.ErrNotFound
		}
		log.Warn().Err(err).Str("Investor", name).Msg("could not extract investor series")
		return fiber.ErrInternalServerError
	}

	var summary *fund.InvestorSummary
	for _, s := range report.InvestorSummaries {
		if s.Name == name {
			summary = s
			break
		}
	}

	return c.JSON(investorResponse{
		Name:    name,
		Summary: summary,
		Series:  series,
	})
}
