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

package data_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Kled0u/Dashboard-Investments/data"
)

var _ = Describe("Contribution ledger", func() {
	Context("with a well-formed feed", func() {
		var (
			contributions []*data.Contribution
			investors     []string
			err           error
		)

		BeforeEach(func() {
			fn := writeFixture("apports.csv", `date,investisseur,montant,source
2024-03-05,bob,500,Livret A
2024-03-01,alice,1000,PEA
2024-03-01,alice,250,Livret A
`)
			contributions, investors, err = data.LoadContributions(fn)
			Expect(err).To(BeNil())
		})

		It("returns the rows in ascending date order", func() {
			Expect(contributions).To(HaveLen(3))
			Expect(contributions[0].Date).To(Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)))
			Expect(contributions[2].Date).To(Equal(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)))
			Expect(contributions[2].Investor).To(Equal("bob"))
		})

		It("derives the sorted investor roster", func() {
			Expect(investors).To(Equal([]string{"alice", "bob"}))
		})

		It("stamps each row with a stable source id", func() {
			Expect(contributions[0].SourceID).To(HaveLen(32))
			Expect(contributions[1].SourceID).ToNot(Equal(contributions[0].SourceID))
		})

		It("keeps same-day duplicates as separate rows", func() {
			Expect(contributions[0].Date).To(Equal(contributions[1].Date))
			Expect(contributions[0].Amount + contributions[1].Amount).To(Equal(1250.0))
		})
	})

	It("parses French amount formatting", func() {
		fn := writeFixture("apports.csv", `date,investisseur,montant,source
2024-03-01,alice,"1 234,56",PEA
`)
		contributions, _, err := data.LoadContributions(fn)
		Expect(err).To(BeNil())
		Expect(contributions[0].Amount).To(BeNumerically("~", 1234.56, 1e-9))
	})

	It("accepts day/month/year dates", func() {
		fn := writeFixture("apports.csv", `date,investisseur,montant,source
05/03/2024,alice,100,PEA
`)
		contributions, _, err := data.LoadContributions(fn)
		Expect(err).To(BeNil())
		Expect(contributions[0].Date).To(Equal(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)))
	})

	It("truncates timestamps to midnight UTC", func() {
		fn := writeFixture("apports.csv", `date,investisseur,montant,source
2024-03-01 14:32:05,alice,100,PEA
`)
		contributions, _, err := data.LoadContributions(fn)
		Expect(err).To(BeNil())
		Expect(contributions[0].Date).To(Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)))
	})

	Context("with a broken feed", func() {
		It("reports a missing file", func() {
			_, _, err := data.LoadContributions("does-not-exist.csv")
			Expect(err).To(MatchError(data.ErrMissingDataSource))
		})

		It("rejects the whole feed on an unparsable date", func() {
			fn := writeFixture("apports.csv", `date,investisseur,montant,source
2024-03-01,alice,1000,PEA
not-a-date,bob,500,PEA
`)
			_, _, err := data.LoadContributions(fn)
			Expect(err).To(MatchError(data.ErrMalformedRecord))
		})

		It("rejects the whole feed on an unparsable amount", func() {
			fn := writeFixture("apports.csv", `date,investisseur,montant,source
2024-03-01,alice,abc,PEA
`)
			_, _, err := data.LoadContributions(fn)
			Expect(err).To(MatchError(data.ErrMalformedRecord))
		})

		It("rejects a negative amount", func() {
			fn := writeFixture("apports.csv", `date,investisseur,montant,source
2024-03-01,alice,-100,PEA
`)
			_, _, err := data.LoadContributions(fn)
			Expect(err).To(MatchError(data.ErrNegativeAmount))
		})

		It("rejects an empty investor name", func() {
			fn := writeFixture("apports.csv", `date,investisseur,montant,source
2024-03-01,,100,PEA
`)
			_, _, err := data.LoadContributions(fn)
			Expect(err).To(MatchError(data.ErrMalformedRecord))
		})

		It("rejects a header-only file", func() {
			fn := writeFixture("apports.csv", "date,investisseur,montant,source\n")
			_, _, err := data.LoadContributions(fn)
			Expect(err).To(MatchError(data.ErrNoContributions))
		})
	})
})

var _ = Describe("Cell parsing", func() {
	DescribeTable("amounts",
		func(cell string, want float64) {
			got, err := data.ParseAmount(cell)
			Expect(err).To(BeNil())
			Expect(got).To(BeNumerically("~", want, 1e-9))
		},
		Entry("plain integer", "1000", 1000.0),
		Entry("decimal point", "1000.50", 1000.50),
		Entry("comma decimal", "1000,50", 1000.50),
		Entry("space thousands", "1 234,56", 1234.56),
		Entry("euro suffix", "250€", 250.0),
		Entry("thousands comma with point decimal", "1,234.56", 1234.56),
	)

	It("rejects garbage amounts", func() {
		_, err := data.ParseAmount("12x34")
		Expect(err).To(MatchError(data.ErrMalformedRecord))
	})

	It("rejects garbage dates", func() {
		_, err := data.ParseDate("March 1st")
		Expect(err).To(MatchError(data.ErrMalformedRecord))
	})
})
