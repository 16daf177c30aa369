package sidebar

import "testing"

// fakeState is a minimal StateReader for progress tests.
type fakeState struct {
	completed map[string]int
	total     map[string]int
}

func (f *fakeState) Completed(target string) int {
	return f.completed[target]
}

func (f *fakeState) Total(target string) (int, bool) {
	n, ok := f.total[target]
	return n, ok
}

// panicState simulates a broken state backend.
type panicState struct{}

func (panicState) Completed(string) int     { panic("boom") }
func (panicState) Total(string) (int, bool) { panic("boom") }

func TestProgressString(t *testing.T) {
	state := &fakeState{
		completed: map[string]int{"done": 3, "partial": 1, "zero": 0},
		total:     map[string]int{"done": 3, "partial": 3, "zero": 2, "empty": 0},
	}

	tests := []struct {
		name string
		item MenuItem
		want string
	}{
		{"all_done", MenuItem{Target: "done", ShowProgress: true}, ProgressCompleted},
		{"partial", MenuItem{Target: "partial", ShowProgress: true}, "*(1/3)*"},
		{"none_done", MenuItem{Target: "zero", ShowProgress: true}, "*(0/2)*"},
		{"no_total_recorded", MenuItem{Target: "unseen", ShowProgress: true}, ProgressNotStarted},
		{"zero_total_is_done", MenuItem{Target: "empty", ShowProgress: true}, ProgressCompleted},
		{"progress_hidden", MenuItem{Target: "done", ShowProgress: false}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProgressString(tt.item, state); got != tt.want {
				t.Errorf("ProgressString(%q) = %q, want %q", tt.item.Target, got, tt.want)
			}
		})
	}
}

func TestProgressStringNilState(t *testing.T) {
	item := MenuItem{Target: "x", ShowProgress: true}
	if got := ProgressString(item, nil); got != ProgressNotStarted {
		t.Errorf("nil state: got %q, want %q", got, ProgressNotStarted)
	}
}

func TestProgressStringDegradesOnPanic(t *testing.T) {
	item := MenuItem{Target: "x", ShowProgress: true}
	if got := ProgressString(item, panicState{}); got != ProgressNotStarted {
		t.Errorf("panicking state: got %q, want %q", got, ProgressNotStarted)
	}
}

func TestFullLabel(t *testing.T) {
	state := &fakeState{
		completed: map[string]int{"done": 2},
		total:     map[string]int{"done": 2},
	}

	item := MenuItem{Label: "Overview", Target: "done", ShowProgress: true}
	if got, want := FullLabel(item, state), "Overview "+ProgressCompleted; got != want {
		t.Errorf("FullLabel = %q, want %q", got, want)
	}

	hidden := MenuItem{Label: "Overview", Target: "done", ShowProgress: false}
	if got := FullLabel(hidden, state); got != "Overview" {
		t.Errorf("FullLabel without marker = %q, want %q", got, "Overview")
	}
}
