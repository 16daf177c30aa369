package testutil

import (
	"testing"

	"github.com/vanderheijden86/trailhead/pkg/session"
	"github.com/vanderheijden86/trailhead/pkg/sidebar"
)

// AssertValid verifies the sidebar passes validation.
func AssertValid(t *testing.T, sb *sidebar.Sidebar) {
	t.Helper()
	if err := sb.Validate(); err != nil {
		t.Errorf("sidebar invalid: %v", err)
	}
}

// AssertPageCount verifies the flattened navigation order has the expected
// number of pages.
func AssertPageCount(t *testing.T, sb *sidebar.Sidebar, expected int) {
	t.Helper()
	if got := len(sb.PageList()); got != expected {
		t.Errorf("expected %d pages, got %d", expected, got)
	}
}

// AssertPageOrder verifies the flattened navigation order exactly.
func AssertPageOrder(t *testing.T, sb *sidebar.Sidebar, expected []string) {
	t.Helper()
	got := sb.PageList()
	if len(got) != len(expected) {
		t.Fatalf("expected %d pages, got %d: %v", len(expected), len(got), got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("page %d: got %s, want %s", i, got[i], expected[i])
		}
	}
}

// AssertPrevNext verifies the navigation neighbors of a page.
func AssertPrevNext(t *testing.T, sb *sidebar.Sidebar, page, wantPrev, wantNext string) {
	t.Helper()
	prev, next, err := sb.PrevAndNext(page)
	if err != nil {
		t.Fatalf("PrevAndNext(%q): %v", page, err)
	}
	if prev != wantPrev {
		t.Errorf("PrevAndNext(%q) prev = %q, want %q", page, prev, wantPrev)
	}
	if next != wantNext {
		t.Errorf("PrevAndNext(%q) next = %q, want %q", page, next, wantNext)
	}
}

// AssertStateKey verifies a state key holds the expected value.
func AssertStateKey(t *testing.T, st *session.State, key string, want any) {
	t.Helper()
	got, ok := st.Get(key)
	if !ok {
		t.Errorf("state key %q not set, want %v", key, want)
		return
	}
	if got != want {
		t.Errorf("state key %q = %v, want %v", key, got, want)
	}
}

// AssertStateAbsent verifies a state key is not set.
func AssertStateAbsent(t *testing.T, st *session.State, key string) {
	t.Helper()
	if v, ok := st.Get(key); ok {
		t.Errorf("state key %q unexpectedly set to %v", key, v)
	}
}
