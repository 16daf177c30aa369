package tasks

import (
	"errors"
	"testing"

	"github.com/vanderheijden86/trailhead/pkg/i18n"
	"github.com/vanderheijden86/trailhead/pkg/session"
)

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register("ok", func() (any, error) { return true, nil })

	if _, ok := reg.Lookup("ok"); !ok {
		t.Error("registered check not found")
	}
	if _, ok := reg.Lookup("missing"); ok {
		t.Error("unregistered check found")
	}

	defer func() {
		if recover() == nil {
			t.Error("duplicate registration should panic")
		}
	}()
	reg.Register("ok", func() (any, error) { return nil, nil })
}

func bundleWith(tasks ...i18n.Task) *i18n.Bundle {
	return &i18n.Bundle{
		Messages:     map[string]string{"not_ready": "Not ready yet."},
		TasksOnetime: tasks,
	}
}

func TestEvaluatePageAllPassing(t *testing.T) {
	reg := NewRegistry()
	reg.Register("always", func() (any, error) { return "yes", nil })
	runner := &Runner{Registry: reg}

	bundle := bundleWith(
		i18n.Task{Name: "First", Check: "always"},
		i18n.Task{Name: "Second", Check: "always"},
	)
	st := session.NewState()

	out := runner.EvaluatePage("demo", bundle, st)
	if out.Completed != 2 || out.Total != 2 {
		t.Errorf("completed/total = %d/%d, want 2/2", out.Completed, out.Total)
	}
	if !out.Done() {
		t.Error("page should be done")
	}
	for _, res := range out.Tasks {
		if res.Status != StatusDone {
			t.Errorf("task %q status = %v, want done", res.Task.Name, res.Status)
		}
	}

	// Counters land in session state under the page's keys.
	if got := st.Completed("demo"); got != 2 {
		t.Errorf("state completed = %d", got)
	}
	if total, _ := st.Total("demo"); total != 2 {
		t.Errorf("state total = %d", total)
	}
}

func TestEvaluatePageBlocksAfterFirstIncomplete(t *testing.T) {
	reg := NewRegistry()
	reg.Register("pass", func() (any, error) { return nil, nil })
	reg.Register("fail", func() (any, error) { return nil, Fail("not_ready") })
	calls := 0
	reg.Register("later", func() (any, error) { calls++; return nil, nil })
	runner := &Runner{Registry: reg}

	bundle := bundleWith(
		i18n.Task{Name: "Done", Check: "pass"},
		i18n.Task{Name: "Stuck", Check: "fail"},
		i18n.Task{Name: "Later", Check: "later"},
	)

	out := runner.EvaluatePage("demo", bundle, session.NewState())
	if out.Completed != 1 || out.Total != 3 {
		t.Errorf("completed/total = %d/%d, want 1/3", out.Completed, out.Total)
	}

	statuses := []Status{StatusDone, StatusWaiting, StatusBlocked}
	for i, want := range statuses {
		if out.Tasks[i].Status != want {
			t.Errorf("task %d status = %v, want %v", i, out.Tasks[i].Status, want)
		}
	}
	if calls != 0 {
		t.Error("blocked check must not run")
	}
	// The expected failure surfaces its localized message.
	if out.Tasks[1].Message != "Not ready yet." {
		t.Errorf("waiting message = %q", out.Tasks[1].Message)
	}
}

func TestManualTaskAcknowledgement(t *testing.T) {
	runner := &Runner{Registry: NewRegistry()}
	bundle := bundleWith(i18n.Task{Name: "Read the docs"})
	st := session.NewState()

	out := runner.EvaluatePage("demo", bundle, st)
	res := out.Tasks[0]
	if !res.Manual {
		t.Fatal("task without check should be manual")
	}
	if res.Status != StatusWaiting {
		t.Errorf("status = %v, want waiting", res.Status)
	}
	if res.AckKey != "demo_task_read_the_docs" {
		t.Errorf("ack key = %q", res.AckKey)
	}

	st.Set(res.AckKey, true)
	out = runner.EvaluatePage("demo", bundle, st)
	if out.Tasks[0].Status != StatusDone {
		t.Error("acknowledged task should be done")
	}
}

func TestUnknownCheckDegradesToManual(t *testing.T) {
	runner := &Runner{Registry: NewRegistry()}
	bundle := bundleWith(i18n.Task{Name: "Step", Check: "never_registered"})

	out := runner.EvaluatePage("demo", bundle, session.NewState())
	if !out.Tasks[0].Manual {
		t.Error("unknown check should degrade to manual acknowledgement")
	}
}

func TestCheckResultCaching(t *testing.T) {
	calls := 0
	reg := NewRegistry()
	reg.Register("counted", func() (any, error) {
		calls++
		return calls, nil
	})
	runner := &Runner{Registry: reg}
	bundle := bundleWith(i18n.Task{Name: "Step", Check: "counted"})
	st := session.NewState()

	runner.EvaluatePage("demo", bundle, st)
	runner.EvaluatePage("demo", bundle, st)
	if calls != 1 {
		t.Errorf("passed check ran %d times, want 1", calls)
	}

	// The cache key is scoped per page, so another page runs the check again.
	runner.EvaluatePage("other", bundle, st)
	if calls != 2 {
		t.Errorf("check ran %d times after second page, want 2", calls)
	}
}

func TestFailedCheckIsNotCached(t *testing.T) {
	calls := 0
	reg := NewRegistry()
	reg.Register("flaky", func() (any, error) {
		calls++
		if calls == 1 {
			return nil, Fail("not_ready")
		}
		return nil, nil
	})
	runner := &Runner{Registry: reg}
	bundle := bundleWith(i18n.Task{Name: "Step", Check: "flaky"})
	st := session.NewState()

	if out := runner.EvaluatePage("demo", bundle, st); out.Completed != 0 {
		t.Error("first pass should fail")
	}
	if out := runner.EvaluatePage("demo", bundle, st); out.Completed != 1 {
		t.Error("second pass should succeed")
	}
	if calls != 2 {
		t.Errorf("check ran %d times, want 2", calls)
	}
}

func TestCheckMalfunctionSurfacesError(t *testing.T) {
	reg := NewRegistry()
	reg.Register("broken", func() (any, error) {
		return nil, errors.New("disk on fire")
	})
	runner := &Runner{Registry: reg}
	bundle := bundleWith(i18n.Task{Name: "Step", Check: "broken"})

	out := runner.EvaluatePage("demo", bundle, session.NewState())
	if out.Tasks[0].Status != StatusWaiting {
		t.Errorf("status = %v, want waiting", out.Tasks[0].Status)
	}
	if out.Tasks[0].Message != "disk on fire" {
		t.Errorf("message = %q", out.Tasks[0].Message)
	}
}

func TestResponseTemplate(t *testing.T) {
	reg := NewRegistry()
	reg.Register("lookup", func() (any, error) { return "/tmp/hello.txt", nil })
	runner := &Runner{Registry: reg}

	tests := []struct {
		name     string
		response string
		want     string
	}{
		{"renders_result", "Found {{.Result}}.", "Found /tmp/hello.txt."},
		{"empty_template", "", ""},
		{"malformed_degrades_to_raw", "Found {{.Result", "Found {{.Result"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bundle := bundleWith(i18n.Task{Name: "Step", Check: "lookup", Response: tt.response})
			out := runner.EvaluatePage("page_"+tt.name, bundle, session.NewState())
			if got := out.Tasks[0].Response; got != tt.want {
				t.Errorf("response = %q, want %q", got, tt.want)
			}
		})
	}
}
