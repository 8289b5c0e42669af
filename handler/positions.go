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
	"github.com/Kled0u/Dashboard-Investments/data"
	"github.com/gofiber/fiber/v2"
)

type positionsResponse struct {
	Available bool                    `json:"available"`
	Snapshot  *data.PositionsSnapshot `json:"snapshot,omitempty"`
}

// GetPositions returns the most recent holdings snapshot when one exists.
// Absence is a normal condition, not an error.
func GetPositions(c *fiber.Ctx) error {
	report := getReport()
	if report == nil {
		return fiber.ErrServiceUnavailable
	}

	return c.JSON(positionsResponse{
		Available: report.Positions != nil,
		Snapshot:  report.Positions,
	})
}
