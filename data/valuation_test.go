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

var _ = Describe("External valuation feed", func() {
	It("returns points sorted by date", func() {
		fn := writeFixture("perf.csv", `date,valeur
2024-03-10,1100
2024-03-01,1000
2024-03-05,1050
`)
		points, err := data.LoadValuations(fn)
		Expect(err).To(BeNil())
		Expect(points).To(HaveLen(3))
		Expect(points[0].Date).To(Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)))
		Expect(points[0].Value).To(Equal(1000.0))
		Expect(points[2].Date).To(Equal(time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)))
	})

	It("keeps the last point when a day repeats", func() {
		fn := writeFixture("perf.csv", `date,valeur
2024-03-01,1000
2024-03-01,1025
`)
		points, err := data.LoadValuations(fn)
		Expect(err).To(BeNil())
		Expect(points).To(HaveLen(1))
		Expect(points[0].Value).To(Equal(1025.0))
	})

	It("parses French value formatting", func() {
		fn := writeFixture("perf.csv", `date,valeur
2024-03-01,"12 500,75"
`)
		points, err := data.LoadValuations(fn)
		Expect(err).To(BeNil())
		Expect(points[0].Value).To(BeNumerically("~", 12500.75, 1e-9))
	})

	It("reports a missing file", func() {
		_, err := data.LoadValuations("does-not-exist.csv")
		Expect(err).To(MatchError(data.ErrMissingDataSource))
	})

	It("rejects the whole feed on a malformed row", func() {
		fn := writeFixture("perf.csv", `date,valeur
2024-03-01,1000
2024-03-02,not-a-number
`)
		_, err := data.LoadValuations(fn)
		Expect(err).To(MatchError(data.ErrMalformedRecord))
	})

	It("rejects a header-only file", func() {
		fn := writeFixture("perf.csv", "date,valeur\n")
		_, err := data.LoadValuations(fn)
		Expect(err).To(MatchError(data.ErrNoValuations))
	})
})
