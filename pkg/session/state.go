// Package session holds the per-session key-value state that survives page
// transitions and, through Store, process restarts.
//
// One process owns one session. The invariant-bearing key families (the
// per-target completed/total counters driving progress) have typed
// accessors; everything else pages write goes through the generic
// Get/Set passthrough.
package session

import (
	"reflect"
	"strconv"
	"sync"

	"github.com/vanderheijden86/trailhead/pkg/debug"
)

// Reserved keys and key families.
const (
	// SuffixCompleted and SuffixTotal form the per-target progress counters:
	// "<target>_completed" / "<target>_total".
	SuffixCompleted = "_completed"
	SuffixTotal     = "_total"

	// SuffixDerived marks keys computed from other state for display only;
	// they are never persisted.
	SuffixDerived = "_derived"

	// KeyAutorefresh is the UI refresh tick key, never persisted.
	KeyAutorefresh = "autorefresh"

	// KeyLastState tracks the last persisted serialization for diff-based
	// writes. Bookkeeping, not user state; stripped before persisting.
	KeyLastState = "last_state"

	// keyLoaded marks that durable state was merged into this session once.
	keyLoaded = "_loaded"
)

// State is the mutable session-state map. All methods are safe for
// concurrent use; the UI loop, the task runner and watcher callbacks all
// touch it.
type State struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewState returns an empty session state.
func NewState() *State {
	return &State{values: make(map[string]any)}
}

// Get returns the value for key and whether it is set.
func (s *State) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores a value under key.
func (s *State) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Delete removes key from the state.
func (s *State) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Ensure sets key to value only when the current value differs, so repeated
// renders of an unchanged page do not dirty the state.
func (s *State) Ensure(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.values[key]; ok && reflect.DeepEqual(cur, value) {
		return
	}
	s.values[key] = value
	debug.Log("session state updated: %s = %v", key, value)
}

// Merge copies every entry of m into the state, overwriting existing keys.
func (s *State) Merge(m map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range m {
		s.values[k] = v
	}
}

// Snapshot returns a shallow copy of the state map.
func (s *State) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Len returns the number of keys currently set.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Completed returns the completed-task counter for a target, 0 when unset.
func (s *State) Completed(target string) int {
	v, ok := s.Get(target + SuffixCompleted)
	if !ok {
		return 0
	}
	n, _ := asInt(v)
	return n
}

// SetCompleted records the completed-task counter for a target.
// The write goes through Ensure so unchanged values do not dirty the state.
func (s *State) SetCompleted(target string, n int) {
	s.Ensure(target+SuffixCompleted, n)
}

// Total returns the total-task counter for a target and whether it is set.
func (s *State) Total(target string) (int, bool) {
	v, ok := s.Get(target + SuffixTotal)
	if !ok {
		return 0, false
	}
	return asInt(v)
}

// SetTotal records the total-task counter for a target.
func (s *State) SetTotal(target string, n int) {
	s.Ensure(target+SuffixTotal, n)
}

// Loaded reports whether durable state was already merged into this session.
func (s *State) Loaded() bool {
	_, ok := s.Get(keyLoaded)
	return ok
}

func (s *State) markLoaded() {
	s.Set(keyLoaded, true)
}

// asInt coerces the numeric representations a JSON round-trip can produce.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
