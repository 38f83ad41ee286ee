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

package ccfind

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeFS() fstest.MapFS {
	return fstest.MapFS{
		"src/main.c":          {Data: []byte("")},
		"src/util.c":          {Data: []byte("")},
		"src/util_test.c":     {Data: []byte("")},
		"src/nested/helper.c": {Data: []byte("")},
		"include/api.h":       {Data: []byte("")},
	}
}

func TestFindMatchesGlobPattern(t *testing.T) {
	got, err := Find(fakeFS(), []string{"src/**/*.c"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/main.c", "src/nested/helper.c", "src/util.c", "src/util_test.c"}, got)
}

func TestFindAppliesExcludes(t *testing.T) {
	got, err := Find(fakeFS(), []string{"src/**/*.c"}, []string{"**/*_test.c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/main.c", "src/nested/helper.c", "src/util.c"}, got)
}

func TestFindDeduplicatesOverlappingIncludes(t *testing.T) {
	got, err := Find(fakeFS(), []string{"src/*.c", "src/**/*.c"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/main.c", "src/nested/helper.c", "src/util.c", "src/util_test.c"}, got)
}

func TestFindRejectsInvalidPattern(t *testing.T) {
	_, err := Find(fakeFS(), []string{"src/[.c"}, nil)
	assert.Error(t, err)
}
