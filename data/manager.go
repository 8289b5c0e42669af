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
	"context"
	"encoding/hex"
	"os"

	"github.com/Kled0u/Dashboard-Investments/observability/opentelemetry"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/zeebo/blake3"
	"go.opentelemetry.io/otel"
)

// Manager locates and loads the source feeds. A Manager holds paths only; the
// loaded Dataset is returned by ownership to the caller and never cached
// behind the caller's back — every run re-reads the sources in full.
type Manager struct {
	ContributionsPath string
	ValuationsPath    string
	PositionsDir      string
	ValuationSource   string
}

// Dataset is one run's immutable snapshot of every source feed.
type Dataset struct {
	Contributions   []*Contribution
	Investors       []string
	Valuations      []*ValuationPoint
	ValuationSource string

	// Snapshot is nil when no parseable positions file exists; that is not
	// an error.
	Snapshot *PositionsSnapshot
}

// NewManager creates a Manager from the application configuration.
func NewManager() *Manager {
	return &Manager{
		ContributionsPath: viper.GetString("data.contributions"),
		ValuationsPath:    viper.GetString("data.valuations"),
		PositionsDir:      viper.GetString("data.positions_dir"),
		ValuationSource:   viper.GetString("data.valuation_source"),
	}
}

// Load reads every source feed. The contribution ledger and the valuation
// feed are on the critical path: a failure in either aborts the load with no
// partial result. The positions snapshot degrades to absent.
func (m *Manager) Load(ctx context.Context) (*Dataset, error) {
	_, span := otel.Tracer(opentelemetry.Name).Start(ctx, "data.Load")
	defer span.End()

	contributions, investors, err := LoadContributions(m.ContributionsPath)
	if err != nil {
		return nil, err
	}

	valuations, err := LoadValuations(m.ValuationsPath)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		Contributions:   contributions,
		Investors:       investors,
		Valuations:      valuations,
		ValuationSource: m.ValuationSource,
	}

	snapshot, err := LoadPositions(m.PositionsDir)
	if err != nil {
		log.Warn().Err(err).Str("PositionsDir", m.PositionsDir).Msg("positions snapshot unavailable; continuing without it")
	} else {
		ds.Snapshot = snapshot
	}

	return ds, nil
}

// Fingerprint hashes the bytes of the required source files plus the latest
// positions snapshot when one exists. Unchanged sources hash to the same
// value, which lets serve mode skip recomputing a report nothing has
// invalidated; a freshly exported monthly snapshot changes the hash even
// while the required feeds stay the same.
func (m *Manager) Fingerprint() (string, error) {
	h := blake3.New()
	for _, fn := range []string{m.ContributionsPath, m.ValuationsPath} {
		raw, err := os.ReadFile(fn)
		if err != nil {
			return "", err
		}
		if _, err := h.Write(raw); err != nil {
			return "", err
		}
	}

	// the snapshot is optional; its absence is part of the fingerprint too
	if fn, _, err := latestPositionsFile(m.PositionsDir); err == nil {
		raw, err := os.ReadFile(fn)
		if err != nil {
			return "", err
		}
		if _, err := h.Write([]byte(fn)); err != nil {
			return "", err
		}
		if _, err := h.Write(raw); err != nil {
			return "", err
		}
	}

	digest := h.Digest()
	buf := make([]byte, 16)
	n, err := digest.Read(buf)
	if err != nil {
		return "", err
	}
	if n != 16 {
		return "", ErrGenerateHash
	}
	return hex.EncodeToString(buf), nil
}
