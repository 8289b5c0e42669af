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

package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gofiber/fiber/v2"

	json "github.com/goccy/go-json"

	"github.com/Kled0u/Dashboard-Investments/data"
	"github.com/Kled0u/Dashboard-Investments/fund"
	"github.com/Kled0u/Dashboard-Investments/handler"
	"github.com/Kled0u/Dashboard-Investments/router"
)

func buildTestReport() *fund.Report {
	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	ds := &data.Dataset{
		Contributions: []*data.Contribution{
			{Date: base, Investor: "alice", Amount: 1000, Source: "PEA"},
			{Date: base.AddDate(0, 0, 2), Investor: "bob", Amount: 500, Source: "Livret A"},
		},
		Investors: []string{"alice", "bob"},
		Valuations: []*data.ValuationPoint{
			{Date: base, Value: 1000},
			{Date: base.AddDate(0, 0, 3), Value: 1650},
		},
		ValuationSource: "PEA",
	}

	report, err := fund.BuildReport(context.Background(), ds, fund.Options{
		Today: base.AddDate(0, 0, 3),
		Fees:  fund.FeeConfig{TaxRate: 0.30, FeeRate: 0.02, Policy: fund.FeePolicyProfit},
	})
	Expect(err).To(BeNil())
	return report
}

func decodeBody(resp *http.Response, into any) {
	raw, err := io.ReadAll(resp.Body)
	Expect(err).To(BeNil())
	Expect(json.Unmarshal(raw, into)).To(Succeed())
}

var _ = Describe("API endpoints", func() {
	var app *fiber.App

	BeforeEach(func() {
		app = fiber.New(fiber.Config{UnescapePath: true})
		router.SetupRoutes(app)
		handler.SetReport(buildTestReport())
	})

	get := func(path string) *http.Response {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req, -1)
		Expect(err).To(BeNil())
		return resp
	}

	Describe("ping", func() {
		It("responds with success", func() {
			resp := get("/v1/ping")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body map[string]string
			decodeBody(resp, &body)
			Expect(body["status"]).To(Equal("success"))
			Expect(body["message"]).To(Equal("API is alive"))
		})
	})

	Describe("portfolio", func() {
		It("returns the daily series", func() {
			resp := get("/v1/portfolio/")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body struct {
				ReportID  string `json:"reportId"`
				Through   string `json:"through"`
				NumDays   int    `json:"numDays"`
				Snapshots []struct {
					TotalValue float64 `json:"totalValue"`
				} `json:"snapshots"`
			}
			decodeBody(resp, &body)
			Expect(body.ReportID).ToNot(BeEmpty())
			Expect(body.Through).To(Equal("2024-03-04"))
			Expect(body.NumDays).To(Equal(4))
			Expect(body.Snapshots).To(HaveLen(4))
			Expect(body.Snapshots[3].TotalValue).To(BeNumerically("~", 2150, 1e-6))
		})

		It("returns the summary statistics", func() {
			resp := get("/v1/portfolio/summary")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body struct {
				FinalBalance   float64 `json:"finalBalance"`
				TotalDeposited float64 `json:"totalDeposited"`
				NumDays        int     `json:"numDays"`
			}
			decodeBody(resp, &body)
			Expect(body.FinalBalance).To(BeNumerically("~", 2150, 1e-6))
			Expect(body.TotalDeposited).To(BeNumerically("~", 1500, 1e-6))
			Expect(body.NumDays).To(Equal(4))
		})
	})

	Describe("investors", func() {
		It("lists every investor's summary", func() {
			resp := get("/v1/investors/")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body struct {
				Investors []struct {
					Name    string  `json:"name"`
					Capital float64 `json:"capital"`
				} `json:"investors"`
			}
			decodeBody(resp, &body)
			Expect(body.Investors).To(HaveLen(2))
			Expect(body.Investors[0].Name).To(Equal("alice"))
			Expect(body.Investors[1].Name).To(Equal("bob"))
		})

		It("returns one investor's daily series", func() {
			resp := get("/v1/investors/alice")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body struct {
				Name   string `json:"name"`
				Series []struct {
					GrossValue float64 `json:"grossValue"`
				} `json:"series"`
			}
			decodeBody(resp, &body)
			Expect(body.Name).To(Equal("alice"))
			Expect(body.Series).To(HaveLen(4))
			Expect(body.Series[0].GrossValue).To(BeNumerically("~", 1000, 1e-6))
		})

		It("unescapes investor names containing spaces", func() {
			report := buildTestReport()
			report.Investors = append(report.Investors, "Jean Dupont")
			for _, row := range report.Net {
				row.Investors["Jean Dupont"] = row.Investors["alice"]
			}
			handler.SetReport(report)

			resp := get("/v1/investors/Jean%20Dupont")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body struct {
				Name string `json:"name"`
			}
			decodeBody(resp, &body)
			Expect(body.Name).To(Equal("Jean Dupont"))
		})

		It("responds 404 for an unknown investor", func() {
			resp := get("/v1/investors/mallory")
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		})
	})

	Describe("positions", func() {
		It("reports an absent snapshot as unavailable", func() {
			resp := get("/v1/positions")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body struct {
				Available bool `json:"available"`
			}
			decodeBody(resp, &body)
			Expect(body.Available).To(BeFalse())
		})

		It("serves the snapshot when one was loaded", func() {
			report := buildTestReport()
			report.Positions = &data.PositionsSnapshot{
				FileName:   "Mars_2024.csv",
				Month:      time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
				Holdings:   []*data.Holding{{Name: "TotalEnergies", Quantity: 10, LastPrice: 58.5, Value: 585}},
				TotalValue: 585,
			}
			handler.SetReport(report)

			resp := get("/v1/positions")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body struct {
				Available bool `json:"available"`
				Snapshot  struct {
					FileName   string  `json:"FileName"`
					TotalValue float64 `json:"TotalValue"`
				} `json:"snapshot"`
			}
			decodeBody(resp, &body)
			Expect(body.Available).To(BeTrue())
			Expect(body.Snapshot.TotalValue).To(BeNumerically("~", 585, 1e-6))
		})
	})

	Context("before the first report is computed", func() {
		BeforeEach(func() {
			handler.SetReport(nil)
		})

		It("responds 503 on every data route", func() {
			for _, path := range []string{"/v1/portfolio/", "/v1/portfolio/summary", "/v1/investors/", "/v1/investors/alice", "/v1/positions"} {
				resp := get(path)
				Expect(resp.StatusCode).To(Equal(http.StatusServiceUnavailable), path)
			}
		})
	})
})
