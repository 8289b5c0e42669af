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

package common

import (
	"os"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var cache *lru.Cache

// SetupCache creates the in-process report cache. The cache lives for the
// process and is keyed by source-file fingerprints, so a key can only ever
// map to one value; eviction is the sole invalidation mechanism.
func SetupCache() {
	var err error
	cache, err = lru.New(viper.GetInt("cache.local_size"))
	if err != nil {
		log.Error().Err(err).Msg("could not create LRU cache")
		os.Exit(1)
	}
}

func CacheSet(key string, value interface{}) {
	if cache == nil {
		return
	}
	cache.Add(key, value)
}

func CacheGet(key string) (interface{}, bool) {
	if cache == nil {
		return nil, false
	}
	return cache.Get(key)
}
