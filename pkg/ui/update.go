package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"

	"github.com/vanderheijden86/trailhead/pkg/session"
	"github.com/vanderheijden86/trailhead/pkg/tasks"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case pageLoadedMsg:
		changed := msg.target != m.current
		m.current = msg.target
		m.raw = msg.raw
		m.bundle = msg.bundle
		m.outcome = msg.outcome
		m.refreshViewport()
		if changed {
			m.viewport.GotoTop()
		}
		return m, nil

	case autorefreshMsg:
		// The tick counter lives in session state but is never persisted.
		ticks, _ := m.state.Get(session.KeyAutorefresh)
		n, _ := ticks.(int)
		m.state.Set(session.KeyAutorefresh, n+1)
		return m, tea.Batch(m.loadPageCmd(m.current), m.autorefreshCmd())

	case reloadMsg:
		m.setStatus("files changed, reloading", false)
		return m, tea.Batch(m.loadPageCmd(m.current), m.waitReloadCmd())

	case savedMsg:
		if msg.err != nil {
			m.setStatus("save failed: "+msg.err.Error(), true)
		}
		return m, nil

	case yankedMsg:
		if msg.err != nil {
			m.setStatus("copy failed: "+msg.err.Error(), true)
		} else {
			m.setStatus("page path copied", false)
		}
		return m, nil

	case tea.KeyMsg:
		if m.resetForm != nil {
			return m.updateResetForm(msg)
		}
		return m.handleKey(msg)
	}

	if m.resetForm != nil {
		return m.updateResetForm(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width

	pageWidth := m.width - sidebarWidth - 4
	if pageWidth < 20 {
		pageWidth = 20
	}
	bodyHeight := m.height - 4 // header, footer nav, status, help line
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(pageWidth),
	)
	if err == nil {
		m.renderer = renderer
	}

	if !m.ready {
		m.viewport = viewport.New(pageWidth, bodyHeight)
		m.ready = true
	} else {
		m.viewport.Width = pageWidth
		m.viewport.Height = bodyHeight
	}
	m.refreshViewport()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Sequence(m.saveCmd(), tea.Quit)

	case key.Matches(msg, m.keys.Next):
		return m.navigate(false)

	case key.Matches(msg, m.keys.Prev):
		return m.navigate(true)

	case key.Matches(msg, m.keys.Acknowledge):
		return m.acknowledge()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadPageCmd(m.current)

	case key.Matches(msg, m.keys.Yank):
		return m, yankCmd(m.pagePath(m.current))

	case key.Matches(msg, m.keys.Reset):
		m.resetForm = huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Key("reset").
				Title("Reset progress for this page?").
				Description("Completed steps and cached check results will be cleared."),
		))
		return m, m.resetForm.Init()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// navigate moves one page backwards or forwards in the flattened menu order,
// checkpointing state before leaving the current page.
func (m Model) navigate(backwards bool) (tea.Model, tea.Cmd) {
	prev, next, err := m.sb.PrevAndNext(m.current)
	if err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}
	dest := next
	if backwards {
		dest = prev
	}
	if dest == "" {
		return m, nil
	}
	target := targetFromPagePath(dest)
	return m, tea.Sequence(m.saveCmd(), m.loadPageCmd(target))
}

// acknowledge marks the first waiting manual task as done and re-evaluates
// the page. Tasks validated by checks ignore the key.
func (m Model) acknowledge() (tea.Model, tea.Cmd) {
	for _, res := range m.outcome.Tasks {
		if res.Status != tasks.StatusWaiting {
			continue
		}
		if !res.Manual {
			m.setStatus("current step is validated automatically, press r to re-check", false)
			return m, nil
		}
		m.state.Set(res.AckKey, true)
		return m, tea.Sequence(m.loadPageCmd(m.current), m.saveCmd())
	}
	return m, nil
}

func (m Model) updateResetForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.resetForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.resetForm = f
	}

	switch m.resetForm.State {
	case huh.StateCompleted:
		confirmed := m.resetForm.GetBool("reset")
		m.resetForm = nil
		if confirmed {
			m.clearPageState()
			m.setStatus("page progress reset", false)
			return m, tea.Sequence(m.loadPageCmd(m.current), m.saveCmd())
		}
		return m, nil
	case huh.StateAborted:
		m.resetForm = nil
		return m, nil
	}
	return m, cmd
}

// clearPageState drops every session key belonging to the current page:
// the progress counters, manual acknowledgements and cached check results
// all share the "<page>_" prefix.
func (m *Model) clearPageState() {
	for k := range m.state.Snapshot() {
		if strings.HasPrefix(k, m.current+"_") {
			m.state.Delete(k)
		}
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}
