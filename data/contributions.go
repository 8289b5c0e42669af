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

package data

import (
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/zeebo/blake3"
)

// Contribution is a single cash deposit made by an investor into one of the
// fund's placement sources. Contributions are immutable facts; several may
// share the same date, investor and source.
type Contribution struct {
	SourceID string
	Date     time.Time
	Investor string
	Amount   float64
	Source   string
}

var contributionDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006",
}

// ParseDate interprets a date cell from one of the source files. Dates are
// truncated to midnight UTC so every series indexes on whole calendar days.
func ParseDate(cell string) (time.Time, error) {
	cell = strings.TrimSpace(cell)
	for _, layout := range contributionDateLayouts {
		if d, err := time.Parse(layout, cell); err == nil {
			return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparsable date %q", ErrMalformedRecord, cell)
}

// ParseAmount interprets a money cell. Exports from the source spreadsheets
// use French formatting (comma decimal separator, space or non-breaking space
// thousands separators), so those are normalized before parsing.
func ParseAmount(cell string) (float64, error) {
	cleaned := strings.TrimSpace(cell)
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "€", "")
	if strings.Contains(cleaned, ",") && !strings.Contains(cleaned, ".") {
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}
	val, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("%w: unparsable amount %q", ErrMalformedRecord, cell)
	}
	f, _ := val.Float64()
	return f, nil
}

// LoadContributions reads the contribution ledger CSV. Expected columns:
// date, investor name, amount, placement source; the first row is a header.
// The whole feed is rejected on any malformed row since silently skipped rows
// would corrupt every cumulative sum computed downstream.
//
// Returns the contributions in ascending date order together with the sorted
// set of investor names found in the ledger.
func LoadContributions(fn string) ([]*Contribution, []string, error) {
	fh, err := os.Open(fn)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingDataSource, fn)
		}
		return nil, nil, fmt.Errorf("%w: %s: %s", ErrMissingDataSource, fn, err)
	}
	defer fh.Close()

	r := csv.NewReader(fh)
	r.FieldsPerRecord = 4
	r.TrimLeadingSpace = true

	contributions := make([]*Contribution, 0, 64)
	investorSet := make(map[string]bool)

	for line := 0; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s line %d: %s", ErrMalformedRecord, fn, line+1, err)
		}
		if line == 0 {
			// header row
			continue
		}

		date, err := ParseDate(record[0])
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", fn, line+1, err)
		}
		investor := strings.TrimSpace(record[1])
		if investor == "" {
			return nil, nil, fmt.Errorf("%w: %s line %d: empty investor name", ErrMalformedRecord, fn, line+1)
		}
		amount, err := ParseAmount(record[2])
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", fn, line+1, err)
		}
		if amount < 0 {
			return nil, nil, fmt.Errorf("%w: %s line %d: %f", ErrNegativeAmount, fn, line+1, amount)
		}
		source := strings.TrimSpace(record[3])
		if source == "" {
			return nil, nil, fmt.Errorf("%w: %s line %d: empty placement source", ErrMalformedRecord, fn, line+1)
		}

		c := &Contribution{
			Date:     date,
			Investor: investor,
			Amount:   amount,
			Source:   source,
		}
		if err := computeContributionSourceID(c); err != nil {
			log.Warn().Stack().Err(err).Time("ContributionDate", date).Str("Investor", investor).Msg("couldn't compute SourceID for contribution")
		}
		contributions = append(contributions, c)
		investorSet[investor] = true
	}

	if len(contributions) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoContributions, fn)
	}

	sort.SliceStable(contributions, func(i, j int) bool {
		return contributions[i].Date.Before(contributions[j].Date)
	})

	investors := make([]string, 0, len(investorSet))
	for name := range investorSet {
		investors = append(investors, name)
	}
	sort.Strings(investors)

	log.Info().Int("NumContributions", len(contributions)).Int("NumInvestors", len(investors)).Str("FileName", fn).Msg("loaded contribution ledger")
	return contributions, investors, nil
}

// computeContributionSourceID calculates a 16-byte blake3 hash over the fields
// that identify a ledger row; used for de-duplication and diagnostics.
func computeContributionSourceID(c *Contribution) error {
	h := blake3.New()

	d, err := c.Date.UTC().MarshalText()
	if err != nil {
		return err
	}
	if _, err := h.Write(d); err != nil {
		log.Error().Stack().Err(err).Msg("could not write date to blake3 hasher")
		return err
	}
	if _, err := h.Write([]byte(c.Investor)); err != nil {
		log.Error().Stack().Err(err).Msg("could not write investor to blake3 hasher")
		return err
	}
	if _, err := h.Write([]byte(c.Source)); err != nil {
		log.Error().Stack().Err(err).Msg("could not write source to blake3 hasher")
		return err
	}
	if _, err := h.Write([]byte(fmt.Sprintf("%.5f", c.Amount))); err != nil {
		log.Error().Stack().Err(err).Msg("could not write amount to blake3 hasher")
		return err
	}

	digest := h.Digest()
	buf := make([]byte, 16)
	n, err := digest.Read(buf)
	if err != nil {
		return err
	}
	if n != 16 {
		return ErrGenerateHash
	}

	c.SourceID = hex.EncodeToString(buf)
	return nil
}
