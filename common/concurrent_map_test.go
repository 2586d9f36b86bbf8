package common

import (
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func put[V any](m *ConcurrentMap[V], key string, value V) {
	m.Compute(key, func(V, bool) (V, bool) {
		return value, true
	})
}

func TestConcurrentMap(t *testing.T) {
	currentMap := NewConcurrentMapWithShard[int](0)
	wg := sync.WaitGroup{}
	count := 100
	wg.Add(count)
	for i := 0; i < count; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				put(currentMap, "1", 1)
				val, ok := currentMap.Get("1")
				assert.True(t, ok)
				assert.EqualValues(t, 1, val)

				put(currentMap, "2", 2)
				val, ok = currentMap.Get("2")
				assert.True(t, ok)
				assert.EqualValues(t, 2, val)

				currentMap.RemoveIf("3", func(int) bool { return true })
				assert.EqualValues(t, 2, currentMap.Count())
			}
		}()
	}
	wg.Wait()
	_, ok := currentMap.Get("3")
	assert.False(t, ok)
	assert.EqualValues(t, defaultConcurrentMapShardCount, len(currentMap.shards))
}

func TestConcurrentMapCompute(t *testing.T) {
	m := NewConcurrentMapWithShard[int](4)
	wg := sync.WaitGroup{}
	wg.Add(50)
	for i := 0; i < 50; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Compute("hot", func(old int, exist bool) (int, bool) {
					return old + 1, true
				})
			}
		}()
	}
	wg.Wait()
	v, ok := m.Get("hot")
	assert.True(t, ok)
	assert.Equal(t, 5000, v)

	m.Compute("hot", func(old int, exist bool) (int, bool) {
		return 0, false
	})
	_, ok = m.Get("hot")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Count())
}

func TestConcurrentMapRemoveIf(t *testing.T) {
	m := NewConcurrentMapWithShard[int](2)
	put(m, "a", 1)
	assert.False(t, m.RemoveIf("a", func(v int) bool { return v == 2 }))
	assert.False(t, m.RemoveIf("b", func(v int) bool { return true }))
	assert.True(t, m.RemoveIf("a", func(v int) bool { return v == 1 }))
	_, ok := m.Get("a")
	assert.False(t, ok)
}

func TestConcurrentMapKeys(t *testing.T) {
	m := NewConcurrentMapWithShard[int](8)

	var want []string
	for i := 0; i < 100; i++ {
		k := "k" + strconv.Itoa(i)
		want = append(want, k)
		put(m, k, i)
	}
	keys := m.Keys()
	sort.Strings(keys)
	sort.Strings(want)
	assert.Equal(t, want, keys)
	assert.Equal(t, 100, m.Count())
}
