package common

import (
	"sync"
)

const (
	defaultConcurrentMapShardCount = 32
)

type concurrentMapShard[V any] struct {
	items map[string]V
	sync.RWMutex
}

// ConcurrentMap 按key的哈希值分片的并发安全map,锁的范围是单个分片,不同分片的key互不竞争
type ConcurrentMap[V any] struct {
	shardCount uint
	shards     []*concurrentMapShard[V]
}

// NewConcurrentMapWithShard 创建shardCount个分片的ConcurrentMap,shardCount为0时使用默认值
func NewConcurrentMapWithShard[V any](shardCount uint) *ConcurrentMap[V] {
	if shardCount == 0 {
		shardCount = defaultConcurrentMapShardCount
	}

	shards := make([]*concurrentMapShard[V], shardCount)
	for i := range shards {
		shards[i] = &concurrentMapShard[V]{items: make(map[string]V)}
	}
	return &ConcurrentMap[V]{shardCount: shardCount, shards: shards}
}

func (m *ConcurrentMap[V]) getShard(key string) *concurrentMapShard[V] {
	return m.shards[uint(Fnv32Hashcode(key))%m.shardCount]
}

// Compute 在key所在分片的写锁内调用fn,fn返回的keep为true时保存newVal,否则删除key
func (m *ConcurrentMap[V]) Compute(key string, fn func(old V, exist bool) (newVal V, keep bool)) V {
	shard := m.getShard(key)
	shard.Lock()
	defer shard.Unlock()
	old, exist := shard.items[key]
	newVal, keep := fn(old, exist)
	if keep {
		shard.items[key] = newVal
	} else {
		delete(shard.items, key)
	}
	return newVal
}

// Get Retrieves an element from map under given key.
func (m *ConcurrentMap[V]) Get(key string) (V, bool) {
	shard := m.getShard(key)
	shard.RLock()
	defer shard.RUnlock()
	val, ok := shard.items[key]
	return val, ok
}

// Count Returns the number of elements within the map.
func (m *ConcurrentMap[V]) Count() int {
	count := 0
	for _, shard := range m.shards {
		shard.RLock()
		count += len(shard.items)
		shard.RUnlock()
	}
	return count
}

// RemoveIf 当key存在且cond返回true时删除key,返回是否删除
func (m *ConcurrentMap[V]) RemoveIf(key string, cond func(V) bool) bool {
	shard := m.getShard(key)
	shard.Lock()
	defer shard.Unlock()
	v, ok := shard.items[key]
	if !ok || !cond(v) {
		return false
	}
	delete(shard.items, key)
	return true
}

// Keys 返回当前所有key的快照,每个分片单独加读锁,不保证是整个map某一时刻的快照
func (m *ConcurrentMap[V]) Keys() []string {
	keys := make([]string, 0, m.Count())
	for _, shard := range m.shards {
		shard.RLock()
		for key := range shard.items {
			keys = append(keys, key)
		}
		shard.RUnlock()
	}
	return keys
}
