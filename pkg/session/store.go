package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/trailhead/pkg/debug"
	"github.com/vanderheijden86/trailhead/pkg/metrics"
)

// Retry defaults for durable-storage I/O.
const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = time.Second
)

// LoadError is a terminal state-load failure after retry exhaustion.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("cannot load state file %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SaveError is a terminal state-save failure after retry exhaustion.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("cannot save state file %s: %v", e.Path, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// Store persists session state to a single JSON document.
//
// MaxAttempts and RetryDelay are explicit so tests can run with zero-delay
// retries. Saves within one process are serialized by an internal mutex;
// concurrent processes writing the same document get last-writer-wins, which
// is acceptable because each session owns disjoint keys in the common case.
type Store struct {
	Path        string
	MaxAttempts int
	RetryDelay  time.Duration

	mu sync.Mutex
}

// NewStore returns a Store for path with the default retry bounds.
func NewStore(path string) *Store {
	return &Store{
		Path:        path,
		MaxAttempts: DefaultMaxAttempts,
		RetryDelay:  DefaultRetryDelay,
	}
}

// Load merges the durable state document into state, storage winning over
// any keys already set. It is idempotent per session: once a load has
// succeeded the session is permanently LOADED and further calls are no-ops.
//
// A missing document is an empty session, not an error. Transient read or
// parse failures are retried MaxAttempts times with RetryDelay between
// attempts; exhaustion yields a *LoadError wrapping the last cause. The
// hosting application may recover from that by proceeding with empty state.
func (st *Store) Load(state *State) error {
	if state.Loaded() {
		return nil
	}
	defer metrics.Timer(metrics.StateLoad)()

	var lastErr error
	for attempt := 1; attempt <= st.maxAttempts(); attempt++ {
		data, err := os.ReadFile(st.Path)
		if err != nil {
			if os.IsNotExist(err) {
				debug.Log("state file %s does not exist, starting with empty state", st.Path)
				state.markLoaded()
				return nil
			}
			lastErr = err
		} else {
			var loaded map[string]any
			if err := json.Unmarshal(data, &loaded); err != nil {
				lastErr = fmt.Errorf("parsing state document: %w", err)
			} else {
				state.Merge(loaded)
				state.markLoaded()
				debug.Log("loaded %d state keys from %s", len(loaded), st.Path)
				return nil
			}
		}

		if attempt < st.maxAttempts() {
			debug.Log("state load attempt %d/%d failed: %v", attempt, st.maxAttempts(), lastErr)
			time.Sleep(st.RetryDelay)
		}
	}

	return &LoadError{Path: st.Path, Err: lastErr}
}

// Save persists a snapshot of state to the durable document.
//
// Ephemeral keys are stripped first: the autorefresh tick, every key ending
// in the derived suffix, and the last_state bookkeeping key. The snapshot is
// serialized as indented JSON for human diffability and compared against the
// serialization recorded under last_state; when nothing changed the write is
// skipped entirely. Otherwise the parent directory is created if missing and
// the document written with the same retry bounds as Load, failing with a
// *SaveError after exhaustion.
func (st *Store) Save(state *State) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	defer metrics.Timer(metrics.StateSave)()

	snap := state.Snapshot()
	lastState, _ := snap[KeyLastState].(string)
	delete(snap, KeyLastState)
	delete(snap, KeyAutorefresh)
	for key := range snap {
		if strings.HasSuffix(key, SuffixDerived) {
			delete(snap, key)
		}
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return &SaveError{Path: st.Path, Err: err}
	}

	if string(data) == lastState {
		debug.Log("state unchanged, skipping save")
		return nil
	}

	var lastErr error
	for attempt := 1; attempt <= st.maxAttempts(); attempt++ {
		if err := os.MkdirAll(filepath.Dir(st.Path), 0o755); err != nil {
			lastErr = err
		} else if err := os.WriteFile(st.Path, data, 0o644); err != nil {
			lastErr = err
		} else {
			state.Set(KeyLastState, string(data))
			debug.Log("saved %d state keys to %s", len(snap), st.Path)
			return nil
		}

		if attempt < st.maxAttempts() {
			debug.Log("state save attempt %d/%d failed: %v", attempt, st.maxAttempts(), lastErr)
			time.Sleep(st.RetryDelay)
		}
	}

	return &SaveError{Path: st.Path, Err: lastErr}
}

func (st *Store) maxAttempts() int {
	if st.MaxAttempts < 1 {
		return DefaultMaxAttempts
	}
	return st.MaxAttempts
}
