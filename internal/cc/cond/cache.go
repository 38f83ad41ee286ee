// Copyright 2026 The ccpp Authors. All rights reserved.
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

package cond

import (
	"sync"

	"github.com/ccpp/ccpp/internal/cc/lexer"
)

type skipCacheKey struct {
	file lexer.FileID
	pos  int
}

// SkipCache memoizes, per (file, directive position), the next top-level
// #elif/#else/#endif reached by skipping a false branch. It is the one
// component in this package meant to be shared across Machines -- e.g. a
// second pass over the same file, or a build that revisits an included
// header with an identical macro state -- so every access is guarded by a
// mutex.
type SkipCache struct {
	mu sync.RWMutex
	m  map[skipCacheKey]SkipResult
}

// NewSkipCache returns an empty cache.
func NewSkipCache() *SkipCache {
	return &SkipCache{m: make(map[skipCacheKey]SkipResult)}
}

func (c *SkipCache) store(file lexer.FileID, pos int, result SkipResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := skipCacheKey{file, pos}
	if _, exists := c.m[key]; !exists {
		c.m[key] = result
	}
}

func (c *SkipCache) lookupFull(file lexer.FileID, pos int) (SkipResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.m[skipCacheKey{file, pos}]
	return r, ok
}

// Lookup returns the byte offset of the next branch directive previously
// recorded for (file, pos), and whether an entry exists.
func (c *SkipCache) Lookup(file lexer.FileID, pos int) (int, bool) {
	r, ok := c.lookupFull(file, pos)
	if !ok {
		return 0, false
	}
	return r.Pos, true
}

// Len reports the number of memoized jumps, for tests.
func (c *SkipCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
