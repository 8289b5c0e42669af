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

import "errors"

var (
	ErrMissingDataSource = errors.New("required data source is missing")
	ErrMalformedRecord   = errors.New("malformed record in data source")
	ErrNegativeAmount    = errors.New("contribution amount may not be negative")
	ErrNoContributions   = errors.New("contribution ledger is empty")
	ErrNoValuations      = errors.New("valuation feed is empty")
	ErrNoSnapshot        = errors.New("no positions snapshot available")
	ErrGenerateHash      = errors.New("could not create a new hash")
)
