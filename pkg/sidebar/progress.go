package sidebar

import (
	"fmt"

	"github.com/vanderheijden86/trailhead/pkg/debug"
	"github.com/vanderheijden86/trailhead/pkg/metrics"
)

// Progress markers rendered next to menu items.
const (
	ProgressCompleted  = "✅"
	ProgressNotStarted = "*(not started)*"
	progressFormat     = "*(%d/%d)*"
)

// StateReader is the view of session state the progress calculator needs.
// *session.State satisfies it.
type StateReader interface {
	// Completed returns the completed-task count for a target (0 when unset).
	Completed(target string) int
	// Total returns the total-task count for a target and whether it is set.
	Total(target string) (int, bool)
}

// ProgressString renders the progress marker for a menu item: empty when the
// item hides progress, the not-started marker before any task total is
// recorded, a checkmark when every task is done, and a (completed/total)
// fraction in between.
//
// This sits on every sidebar render, so it never fails: a panicking or nil
// state degrades to the not-started marker with a logged warning.
func ProgressString(item MenuItem, state StateReader) (out string) {
	if !item.ShowProgress {
		return ""
	}
	defer metrics.Timer(metrics.ProgressRender)()
	defer func() {
		if r := recover(); r != nil {
			debug.Log("progress read for %q panicked: %v", item.Target, r)
			out = ProgressNotStarted
		}
	}()

	if state == nil {
		return ProgressNotStarted
	}

	total, ok := state.Total(item.Target)
	if !ok {
		return ProgressNotStarted
	}
	if completed := state.Completed(item.Target); completed != total {
		return fmt.Sprintf(progressFormat, completed, total)
	}
	return ProgressCompleted
}

// FullLabel returns the item label followed by its progress marker. The
// trailing space before the marker is only present when the marker is
// non-empty.
func FullLabel(item MenuItem, state StateReader) string {
	progress := ProgressString(item, state)
	if progress == "" {
		return item.Label
	}
	return item.Label + " " + progress
}
