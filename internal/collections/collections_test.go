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

package collections

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAddAndContains(t *testing.T) {
	s := make(Set[string])
	assert.False(t, s.Contains("a"))
	s.Add("a")
	s.Add("a")
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains("b"))
	assert.Len(t, s, 1)
}

func TestFindDuplicates(t *testing.T) {
	assert.Nil(t, FindDuplicates([]string{"a", "b", "c"}))
	assert.Equal(t, []string{"a"}, FindDuplicates([]string{"a", "b", "a"}))
	assert.Equal(t, []string{"a", "b"}, FindDuplicates([]string{"a", "b", "a", "b"}))
}

func TestFilterSlice(t *testing.T) {
	got := FilterSlice([]int{1, 2, 3, 4}, func(i int) bool { return i%2 == 0 })
	assert.Equal(t, []int{2, 4}, got)
}

func TestFilterSliceEmptyInput(t *testing.T) {
	got := FilterSlice([]int{}, func(i int) bool { return true })
	assert.Equal(t, []int{}, got)
}
