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

package fund

import "errors"

var (
	ErrEmptyCalendar    = errors.New("daily calendar is empty")
	ErrNegativeInflow   = errors.New("negative inflow; withdrawals are not modeled")
	ErrMisalignedSeries = errors.New("value and inflow series cover different days")
	ErrUnknownFeePolicy = errors.New("unknown fee policy")
	ErrNoContributions  = errors.New("no contributions fall within the daily calendar")
	ErrTimeInverted     = errors.New("start date occurs after through date")
	ErrInvestorNotFound = errors.New("investor not present in the ledger")
)
