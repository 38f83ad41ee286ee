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

// Package ccfind discovers translation units for the cmd/ccpp smoke driver
// using doublestar glob patterns (the same glob engine the teacher used to
// expand BUILD-file glob() attributes), independent of any directory-walk
// cache.
package ccfind

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ccpp/ccpp/internal/collections"
)

// Find expands include (e.g. "src/**/*.c") against fsys, drops any match
// also matched by an exclude pattern (e.g. "**/*_test.c"), and returns the
// survivors sorted lexicographically. Invalid patterns -- in either list --
// are reported together via errors.Join rather than failing on the first
// one, matching this module's general "collect every bad input before
// returning" error convention.
func Find(fsys fs.FS, include, exclude []string) ([]string, error) {
	validIncludes, errs := validatePatterns(include)
	validExcludes, excludeErrs := validatePatterns(exclude)
	errs = append(errs, excludeErrs...)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	seen := collections.Set[string]{}
	var matches []string
	for _, pattern := range validIncludes {
		found, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			errs = append(errs, fmt.Errorf("glob %q: %w", pattern, err))
			continue
		}
		for _, path := range found {
			if !seen.Contains(path) {
				seen.Add(path)
				matches = append(matches, path)
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	survivors := collections.FilterSlice(matches, func(path string) bool {
		return !matchesAny(validExcludes, path)
	})
	sort.Strings(survivors)
	return survivors, nil
}

func matchesAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if doublestar.MatchUnvalidated(pattern, path) {
			return true
		}
	}
	return false
}

func validatePatterns(patterns []string) ([]string, []error) {
	var valid []string
	var errs []error
	for _, pattern := range patterns {
		if doublestar.ValidatePattern(pattern) {
			valid = append(valid, pattern)
		} else {
			errs = append(errs, fmt.Errorf("invalid glob pattern %q", pattern))
		}
	}
	return valid, errs
}
