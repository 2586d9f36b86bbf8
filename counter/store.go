// Package counter supply named integer counters with compare-and-swap updates
package counter

import (
	"iter"
	"math"
	"sort"

	c "github.com/d0ngw/namedcounter/common"
	"go.uber.org/atomic"
)

// tombstone marks a slot whose counter has been deleted, live values are never negative
const tombstone int64 = -1

// ReasonNegativeCondition is the InvalidArgument reason for a condition below zero
const ReasonNegativeCondition = "condition can never be less than zero"

// ReasonOverflow is the Conflict reason when an increment would overflow int64
const ReasonOverflow = "counter is at its maximum value"

type slot struct {
	value atomic.Int64
}

// Store holds the counters.
//
// Each counter lives in a slot holding an atomic int64, all value changes are CAS on the slot.
// The sharded map is only locked to look up, insert or unlink slots, so counters in
// different shards never contend and counters in the same shard only share a read lock
// while being updated.
type Store struct {
	counters *c.ConcurrentMap[*slot]
}

// NewStore create a store with the default shard count
func NewStore() *Store {
	return NewStoreWithShard(0)
}

// NewStoreWithShard create a store whose map has shardCount shards, 0 means default
func NewStoreWithShard(shardCount uint) *Store {
	return &Store{counters: c.NewConcurrentMapWithShard[*slot](shardCount)}
}

// lookup returns the live slot of name and the value it held when read
func (p *Store) lookup(name string) (s *slot, value int64, ok bool) {
	s, ok = p.counters.Get(name)
	if !ok {
		return nil, 0, false
	}
	value = s.value.Load()
	if value == tombstone {
		return nil, 0, false
	}
	return s, value, true
}

// unlink removes s from the map unless name was already re-initialized with another slot
func (p *Store) unlink(name string, s *slot) {
	p.counters.RemoveIf(name, func(cur *slot) bool {
		return cur == s
	})
}

// Len returns the number of counters, deletes in progress may still be counted
func (p *Store) Len() int {
	return p.counters.Count()
}

// List returns the counters in name order.
//
// The names are captured once when iteration starts, each value is read again as it is
// yielded. A counter deleted in between is skipped, so the result is not a snapshot of
// the whole store.
func (p *Store) List() iter.Seq2[string, int64] {
	return func(yield func(string, int64) bool) {
		names := p.counters.Keys()
		sort.Strings(names)
		for _, name := range names {
			_, value, ok := p.lookup(name)
			if !ok {
				continue
			}
			if !yield(name, value) {
				return
			}
		}
	}
}

// Init creates the counter with value 0.
// It is Created when the counter is absent or already at 0, Conflict otherwise.
func (p *Store) Init(name string) Outcome {
	if _, value, ok := p.lookup(name); ok {
		return initOutcome(value)
	}

	var current int64
	p.counters.Compute(name, func(old *slot, exist bool) (*slot, bool) {
		if exist {
			if v := old.value.Load(); v != tombstone {
				current = v
				return old, true
			}
		}
		return &slot{}, true
	})
	return initOutcome(current)
}

func initOutcome(current int64) Outcome {
	if current == 0 {
		return createdOutcome
	}
	return conflictOutcome
}

// Read returns Ok with the value, or NotFound
func (p *Store) Read(name string) Outcome {
	if _, value, ok := p.lookup(name); ok {
		return okOutcome(value)
	}
	return notFoundOutcome
}

// Delete removes the counter and returns Ok with the removed value, or NotFound
func (p *Store) Delete(name string) Outcome {
	for {
		s, value, ok := p.lookup(name)
		if !ok {
			return notFoundOutcome
		}
		if s.value.CompareAndSwap(value, tombstone) {
			p.unlink(name, s)
			return okOutcome(value)
		}
	}
}

// DeleteCAS removes the counter only if it holds condition
func (p *Store) DeleteCAS(name string, condition int64) Outcome {
	if condition < 0 {
		return invalidArgument(ReasonNegativeCondition)
	}
	for {
		s, value, ok := p.lookup(name)
		if !ok {
			return notFoundOutcome
		}
		if value != condition {
			return preconditionFailed(value)
		}
		if s.value.CompareAndSwap(condition, tombstone) {
			p.unlink(name, s)
			return okOutcome(condition)
		}
	}
}

// Increment adds one to the counter and returns Ok with the new value
func (p *Store) Increment(name string) Outcome {
	for {
		s, value, ok := p.lookup(name)
		if !ok {
			return notFoundOutcome
		}
		if value == math.MaxInt64 {
			return Outcome{Kind: Conflict, Reason: ReasonOverflow}
		}
		if s.value.CompareAndSwap(value, value+1) {
			return okOutcome(value + 1)
		}
	}
}

// IncrementCAS sets the counter to condition+1 only if it holds condition
func (p *Store) IncrementCAS(name string, condition int64) Outcome {
	if condition < 0 {
		return invalidArgument(ReasonNegativeCondition)
	}
	for {
		s, value, ok := p.lookup(name)
		if !ok {
			return notFoundOutcome
		}
		if value != condition {
			return preconditionFailed(value)
		}
		if value == math.MaxInt64 {
			return Outcome{Kind: Conflict, Reason: ReasonOverflow}
		}
		if s.value.CompareAndSwap(condition, condition+1) {
			return okOutcome(condition + 1)
		}
	}
}
