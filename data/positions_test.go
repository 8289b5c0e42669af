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
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Kled0u/Dashboard-Investments/data"
)

var _ = Describe("Positions snapshot", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	write := func(name, content string) {
		Expect(os.WriteFile(filepath.Join(dir, name), []byte(content), 0600)).To(Succeed())
	}

	It("loads the holdings from a semicolon-delimited export", func() {
		write("Juillet_2025.csv", "name;quantity;lastPrice\nTotalEnergies;10;58,50\nAir Liquide;2;180,00\n")

		snapshot, err := data.LoadPositions(dir)
		Expect(err).To(BeNil())
		Expect(snapshot.FileName).To(Equal("Juillet_2025.csv"))
		Expect(snapshot.Month).To(Equal(time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)))
		Expect(snapshot.Holdings).To(HaveLen(2))
		Expect(snapshot.Holdings[0].Value).To(BeNumerically("~", 585, 1e-9))
		Expect(snapshot.TotalValue).To(BeNumerically("~", 585+360, 1e-9))
	})

	It("strips a UTF-8 byte order mark", func() {
		write("Juillet_2025.csv", "\uFEFFname;quantity;lastPrice\nTotalEnergies;10;58,50\n")

		snapshot, err := data.LoadPositions(dir)
		Expect(err).To(BeNil())
		Expect(snapshot.Holdings).To(HaveLen(1))
		Expect(snapshot.Holdings[0].Name).To(Equal("TotalEnergies"))
	})

	It("picks the most recent month when several exports exist", func() {
		write("Juillet_2025.csv", "name;quantity;lastPrice\nOld;1;1\n")
		write("Aout_2025.csv", "name;quantity;lastPrice\nNew;1;1\n")
		write("Decembre_2024.csv", "name;quantity;lastPrice\nOlder;1;1\n")

		snapshot, err := data.LoadPositions(dir)
		Expect(err).To(BeNil())
		Expect(snapshot.FileName).To(Equal("Aout_2025.csv"))
		Expect(snapshot.Holdings[0].Name).To(Equal("New"))
	})

	It("skips files that don't follow the month naming scheme", func() {
		write("notes.csv", "name;quantity;lastPrice\nIgnored;1;1\n")
		write("Juillet_2025.csv", "name;quantity;lastPrice\nKept;1;1\n")

		snapshot, err := data.LoadPositions(dir)
		Expect(err).To(BeNil())
		Expect(snapshot.FileName).To(Equal("Juillet_2025.csv"))
	})

	It("degrades to no snapshot for an empty directory", func() {
		_, err := data.LoadPositions(dir)
		Expect(err).To(MatchError(data.ErrNoSnapshot))
	})

	It("degrades to no snapshot when required columns are missing", func() {
		write("Juillet_2025.csv", "isin;units\nFR0000120271;10\n")

		_, err := data.LoadPositions(dir)
		Expect(err).To(MatchError(data.ErrNoSnapshot))
	})
})
