// Package ui implements the terminal tutorial host: a sidebar panel with
// per-page progress markers, a markdown page viewport, a task checklist and
// footer prev/next navigation.
package ui

import (
	"path"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"

	"github.com/vanderheijden86/trailhead/pkg/config"
	"github.com/vanderheijden86/trailhead/pkg/i18n"
	"github.com/vanderheijden86/trailhead/pkg/session"
	"github.com/vanderheijden86/trailhead/pkg/sidebar"
	"github.com/vanderheijden86/trailhead/pkg/tasks"
)

// sidebarWidth is the fixed width of the navigation panel.
const sidebarWidth = 34

// Model is the top-level bubbletea model for the tutorial host.
type Model struct {
	cfg       config.Config
	sb        *sidebar.Sidebar
	state     *session.State
	store     *session.Store
	runner    *tasks.Runner
	theme     Theme
	keys      KeyMap
	help      help.Model
	ephemeral bool

	// reload receives a signal when the sidebar definition or the state
	// document changes on disk.
	reload <-chan struct{}

	current  string // target of the page being shown
	raw      string // current page markdown, unrendered
	bundle   *i18n.Bundle
	outcome  tasks.PageOutcome
	viewport viewport.Model
	renderer *glamour.TermRenderer

	width    int
	height   int
	ready    bool
	showHelp bool

	status    string
	statusErr bool

	resetForm *huh.Form // non-nil while the reset confirm is open
}

// New constructs the tutorial host model. The sidebar must already be
// validated and the session state loaded.
func New(cfg config.Config, sb *sidebar.Sidebar, state *session.State, store *session.Store, runner *tasks.Runner, reload <-chan struct{}, ephemeral bool) Model {
	m := Model{
		cfg:       cfg,
		sb:        sb,
		state:     state,
		store:     store,
		runner:    runner,
		theme:     DefaultTheme(),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		ephemeral: ephemeral,
		reload:    reload,
	}
	m.current = targetFromPagePath(sb.HomePage())
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadPageCmd(m.current)}
	if m.cfg.UI.Autorefresh > 0 {
		cmds = append(cmds, m.autorefreshCmd())
	}
	if m.reload != nil {
		cmds = append(cmds, m.waitReloadCmd())
	}
	return tea.Batch(cmds...)
}

// Current returns the target of the page being shown.
func (m Model) Current() string {
	return m.current
}

// targetFromPagePath converts a navigation file path (pages/<target>.md)
// back into a page target.
func targetFromPagePath(p string) string {
	return strings.TrimSuffix(path.Base(p), sidebar.PageExtension)
}
