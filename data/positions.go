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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Holding is one line of a brokerage positions snapshot.
type Holding struct {
	Name      string
	Quantity  float64
	LastPrice float64
	Value     float64
}

// PositionsSnapshot decomposes the externally priced source's total into its
// named holdings at one point in time. It enriches reports only; the unit
// ledger never consumes it.
type PositionsSnapshot struct {
	FileName   string
	Month      time.Time
	Holdings   []*Holding
	TotalValue float64
}

// snapshot files are exported monthly and named after the French month,
// e.g. Juillet_2025.csv
var frenchMonths = map[string]time.Month{
	"janvier":   time.January,
	"fevrier":   time.February,
	"mars":      time.March,
	"avril":     time.April,
	"mai":       time.May,
	"juin":      time.June,
	"juillet":   time.July,
	"aout":      time.August,
	"septembre": time.September,
	"octobre":   time.October,
	"novembre":  time.November,
	"decembre":  time.December,
}

// latestPositionsFile finds the most recent snapshot in dir based on the
// month/year encoded in the file name. Files that don't match the naming
// scheme are skipped.
func latestPositionsFile(dir string) (string, time.Time, error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil || len(entries) == 0 {
		return "", time.Time{}, fmt.Errorf("%w: no snapshot files in %s", ErrNoSnapshot, dir)
	}

	var latestFile string
	var latestDate time.Time
	for _, fn := range entries {
		base := strings.TrimSuffix(filepath.Base(fn), ".csv")
		parts := strings.Split(base, "_")
		if len(parts) != 2 {
			continue
		}
		month, ok := frenchMonths[strings.ToLower(parts[0])]
		if !ok {
			continue
		}
		var year int
		if _, err := fmt.Sscanf(parts[1], "%d", &year); err != nil {
			continue
		}
		fileDate := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		if fileDate.After(latestDate) {
			latestDate = fileDate
			latestFile = fn
		}
	}

	if latestFile == "" {
		return "", time.Time{}, fmt.Errorf("%w: no parseable snapshot file names in %s", ErrNoSnapshot, dir)
	}
	return latestFile, latestDate, nil
}

// LoadPositions reads the most recent positions snapshot from dir. Snapshot
// exports use a semicolon delimiter, a comma decimal separator and may start
// with a UTF-8 BOM.
//
// Snapshots are optional enrichment data; callers should treat any error as
// "no snapshot available" rather than aborting.
func LoadPositions(dir string) (*PositionsSnapshot, error) {
	fn, month, err := latestPositionsFile(dir)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(fn)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrNoSnapshot, fn, err)
	}
	content := strings.TrimPrefix(string(raw), "\uFEFF")

	r := csv.NewReader(strings.NewReader(content))
	r.Comma = ';'
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrNoSnapshot, fn, err)
	}
	nameIdx, qtyIdx, priceIdx := -1, -1, -1
	for ii, col := range header {
		switch strings.TrimSpace(col) {
		case "name":
			nameIdx = ii
		case "quantity":
			qtyIdx = ii
		case "lastPrice":
			priceIdx = ii
		}
	}
	if nameIdx == -1 || qtyIdx == -1 || priceIdx == -1 {
		return nil, fmt.Errorf("%w: %s: required columns not found", ErrNoSnapshot, fn)
	}

	snapshot := &PositionsSnapshot{
		FileName: filepath.Base(fn),
		Month:    month,
	}
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %s", ErrNoSnapshot, fn, line, err)
		}
		if len(record) <= nameIdx || len(record) <= qtyIdx || len(record) <= priceIdx {
			return nil, fmt.Errorf("%w: %s line %d: too few columns", ErrNoSnapshot, fn, line)
		}

		qty, err := ParseAmount(record[qtyIdx])
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %s", ErrNoSnapshot, fn, line, err)
		}
		price, err := ParseAmount(record[priceIdx])
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %s", ErrNoSnapshot, fn, line, err)
		}

		h := &Holding{
			Name:      strings.TrimSpace(record[nameIdx]),
			Quantity:  qty,
			LastPrice: price,
			Value:     qty * price,
		}
		snapshot.Holdings = append(snapshot.Holdings, h)
		snapshot.TotalValue += h.Value
	}

	log.Info().Str("FileName", snapshot.FileName).Int("NumHoldings", len(snapshot.Holdings)).Float64("TotalValue", snapshot.TotalValue).Msg("loaded positions snapshot")
	return snapshot, nil
}
