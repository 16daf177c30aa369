// Package tasks validates tutorial steps.
//
// A step is either validated by a registered check function or acknowledged
// manually. Passing check results are cached in session state under
// "<page>_<check>" so an expensive check runs at most once per page, and the
// cache survives restarts along with the rest of the session state.
package tasks

import (
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/vanderheijden86/trailhead/pkg/debug"
	"github.com/vanderheijden86/trailhead/pkg/i18n"
	"github.com/vanderheijden86/trailhead/pkg/metrics"
	"github.com/vanderheijden86/trailhead/pkg/session"
	"github.com/vanderheijden86/trailhead/pkg/sidebar"
)

// CheckFunc validates one tutorial step. The returned value is exposed to
// the task's response template. An expected failure is reported by
// returning a *FailError; any other error counts as a check malfunction and
// is surfaced to the user verbatim.
type CheckFunc func() (any, error)

// FailError marks an expected check failure. MessageKey is looked up in the
// page's message catalog; when absent the key itself is shown.
type FailError struct {
	MessageKey string
}

func (e *FailError) Error() string {
	return "check failed: " + e.MessageKey
}

// Fail returns a FailError carrying a catalog message key.
func Fail(messageKey string) error {
	return &FailError{MessageKey: messageKey}
}

// Registry maps check names (as referenced by page catalogs) to functions.
// It is populated at startup and read-only afterwards.
type Registry struct {
	checks map[string]CheckFunc
}

// NewRegistry returns an empty check registry.
func NewRegistry() *Registry {
	return &Registry{checks: make(map[string]CheckFunc)}
}

// Register adds a named check. Registering the same name twice panics; it is
// a programming error in page wiring.
func (r *Registry) Register(name string, fn CheckFunc) {
	if _, dup := r.checks[name]; dup {
		panic(fmt.Sprintf("tasks: duplicate check %q", name))
	}
	r.checks[name] = fn
}

// Lookup returns the named check, or false when unknown.
func (r *Registry) Lookup(name string) (CheckFunc, bool) {
	fn, ok := r.checks[name]
	return fn, ok
}

// Status is the evaluated condition of one task.
type Status int

const (
	// StatusDone means the task's check passed or it was acknowledged.
	StatusDone Status = iota
	// StatusWaiting means the task is current and incomplete.
	StatusWaiting
	// StatusBlocked means an earlier task is still incomplete.
	StatusBlocked
)

// TaskResult pairs a task with its evaluated status for rendering.
type TaskResult struct {
	Task    i18n.Task
	Status  Status
	Manual  bool   // completes by acknowledgement, not by a check
	AckKey  string // session key the acknowledgement toggles
	Message string // localized info message from the check, if any
	// Response is the rendered response template, present once done.
	Response string
}

// PageOutcome summarizes one evaluation pass over a page's task list.
type PageOutcome struct {
	Tasks     []TaskResult
	Completed int
	Total     int
}

// Done reports whether every task on the page completed.
func (o PageOutcome) Done() bool {
	return o.Completed == o.Total
}

// Runner evaluates page task lists against the check registry and session
// state.
type Runner struct {
	Registry *Registry
}

// EvaluatePage walks the page's task list in order, stopping at the first
// incomplete task (later tasks are blocked). It records the page's
// completed/total counters in session state; the progress markers in the
// sidebar read exactly these counters.
func (r *Runner) EvaluatePage(page string, bundle *i18n.Bundle, state *session.State) PageOutcome {
	all := bundle.Tasks()
	out := PageOutcome{
		Tasks: make([]TaskResult, 0, len(all)),
		Total: len(all),
	}

	blocked := false
	for _, task := range all {
		res := r.evaluate(page, task, bundle, state, blocked)
		if res.Status == StatusDone {
			out.Completed++
		} else {
			blocked = true
		}
		out.Tasks = append(out.Tasks, res)
	}

	state.SetCompleted(page, out.Completed)
	state.SetTotal(page, out.Total)
	return out
}

func (r *Runner) evaluate(page string, task i18n.Task, bundle *i18n.Bundle, state *session.State, blocked bool) TaskResult {
	res := TaskResult{Task: task}

	fn, haveCheck := r.Registry.Lookup(task.Check)
	if task.Check != "" && !haveCheck {
		debug.Log("page %s references unknown check %q, treating as manual", page, task.Check)
	}
	res.Manual = !haveCheck
	if res.Manual {
		res.AckKey = page + "_task_" + sidebar.Slugify(task.Name)
	}

	if blocked {
		res.Status = StatusBlocked
		return res
	}

	var passed bool
	var result any
	if res.Manual {
		v, _ := state.Get(res.AckKey)
		passed, _ = v.(bool)
	} else {
		var msgKey string
		passed, msgKey, result = r.runCheck(page, task.Check, fn, state)
		if msgKey != "" {
			res.Message = bundle.GetOr(msgKey, msgKey)
		}
	}

	if !passed {
		res.Status = StatusWaiting
		return res
	}

	res.Status = StatusDone
	res.Response = renderResponse(task, result)
	return res
}

// runCheck runs a check with pass-result caching: a check that has passed
// once for this session is never re-run.
func (r *Runner) runCheck(page, name string, fn CheckFunc, state *session.State) (passed bool, msgKey string, result any) {
	cacheKey := page + "_" + name

	if cached, ok := state.Get(cacheKey); ok {
		if entry, ok := cached.(map[string]any); ok {
			return true, "", entry["result"]
		}
		return true, "", cached
	}

	defer metrics.Timer(metrics.CheckRun)()
	result, err := fn()
	if err != nil {
		var fail *FailError
		if errors.As(err, &fail) {
			return false, fail.MessageKey, nil
		}
		debug.Log("check %s malfunctioned on page %s: %v", name, page, err)
		return false, err.Error(), nil
	}

	state.Set(cacheKey, map[string]any{"result": result})
	return true, "", result
}

// renderResponse renders the task's response template with the check result.
// A malformed template degrades to the raw template text; a missing one to
// the empty string.
func renderResponse(task i18n.Task, result any) string {
	if task.Response == "" {
		return ""
	}
	tpl, err := template.New("response").Parse(task.Response)
	if err != nil {
		debug.Log("task %q has malformed response template: %v", task.Name, err)
		return task.Response
	}
	var b strings.Builder
	if err := tpl.Execute(&b, struct{ Result any }{Result: result}); err != nil {
		debug.Log("task %q response template failed: %v", task.Name, err)
		return task.Response
	}
	return b.String()
}
