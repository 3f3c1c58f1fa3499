// Copyright 2025 walteh LLC
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

package cmap

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	m := NewMap[string, *int]()

	one, two := 1, 2
	m.Set("a", &one)
	m.Set("b", &two)

	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, *v)

	_, ok = m.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 2, m.Len())

	other := 1
	assert.False(t, m.CompareAndDelete("a", &other), "different pointer must not delete")
	assert.True(t, m.CompareAndDelete("a", &one))
	assert.Equal(t, 1, m.Len())

	m.Delete("b")
	m.Delete("b")
	assert.Zero(t, m.Len())
}

func TestMapClearAndRange(t *testing.T) {
	m := NewMap[int, string]()
	for i := 0; i < 10; i++ {
		m.Set(i, "x")
	}

	seen := 0
	m.Range(func(k int, v string) bool {
		seen++
		return true
	})
	assert.Equal(t, 10, seen)

	m.Clear()
	assert.Zero(t, m.Len())
}

func TestMapConcurrentAccess(t *testing.T) {
	m := NewMap[int, int]()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				m.Set(i, g)
				m.Get(i)
				if i%3 == 0 {
					m.Delete(i)
				}
			}
		}(g)
	}
	wg.Wait()
	assert.LessOrEqual(t, m.Len(), 100)
}
