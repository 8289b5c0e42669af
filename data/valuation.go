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
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
)

// ValuationPoint is one observation from the external valuation feed of an
// independently priced source. The feed is sparse; it does not carry one
// point per calendar day.
type ValuationPoint struct {
	Date  time.Time
	Value float64
}

// LoadValuations reads the external valuation feed CSV. Expected columns:
// date, value; the first row is a header. Like the contribution ledger, any
// malformed row rejects the whole feed.
//
// Points are returned in ascending date order. When the feed carries several
// points for the same day the last one read wins.
func LoadValuations(fn string) ([]*ValuationPoint, error) {
	fh, err := os.Open(fn)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingDataSource, fn)
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrMissingDataSource, fn, err)
	}
	defer fh.Close()

	r := csv.NewReader(fh)
	r.FieldsPerRecord = 2
	r.TrimLeadingSpace = true

	byDate := make(map[time.Time]float64)
	for line := 0; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %s", ErrMalformedRecord, fn, line+1, err)
		}
		if line == 0 {
			// header row
			continue
		}

		date, err := ParseDate(record[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", fn, line+1, err)
		}
		value, err := ParseAmount(record[1])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", fn, line+1, err)
		}
		byDate[date] = value
	}

	if len(byDate) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoValuations, fn)
	}

	points := make([]*ValuationPoint, 0, len(byDate))
	for date, value := range byDate {
		points = append(points, &ValuationPoint{Date: date, Value: value})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	log.Info().Int("NumPoints", len(points)).Str("FileName", fn).Time("FirstDate", points[0].Date).Time("LastDate", points[len(points)-1].Date).Msg("loaded external valuation feed")
	return points, nil
}
