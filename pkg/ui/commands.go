package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/trailhead/pkg/i18n"
	"github.com/vanderheijden86/trailhead/pkg/sidebar"
	"github.com/vanderheijden86/trailhead/pkg/tasks"
)

// pageLoadedMsg carries a freshly loaded and evaluated page.
type pageLoadedMsg struct {
	target  string
	raw     string // page markdown, unrendered
	bundle  *i18n.Bundle
	outcome tasks.PageOutcome
}

// autorefreshMsg fires on the periodic re-check timer.
type autorefreshMsg time.Time

// reloadMsg signals that a watched file changed on disk.
type reloadMsg struct{}

// savedMsg reports the result of a state checkpoint.
type savedMsg struct{ err error }

// yankedMsg reports the result of a clipboard copy.
type yankedMsg struct{ err error }

// pagePath resolves a page target to its file on disk.
func (m Model) pagePath(target string) string {
	return filepath.Join(m.cfg.PagesDir, target+sidebar.PageExtension)
}

// loadPageCmd reads the page file and its message catalog, evaluates the
// page's tasks and returns the result as a pageLoadedMsg. A missing page
// file or catalog degrades to placeholder content so navigation never gets
// stuck on a broken page.
func (m Model) loadPageCmd(target string) tea.Cmd {
	return func() tea.Msg {
		raw := ""
		data, err := os.ReadFile(m.pagePath(target))
		switch {
		case err == nil:
			raw = string(data)
		case os.IsNotExist(err):
			raw = fmt.Sprintf("# %s\n\n*This page has no content yet.*\n", target)
		default:
			raw = fmt.Sprintf("# %s\n\nCould not read page: %v\n", target, err)
		}

		bundle, err := i18n.LoadMessages(m.pagePath(target), m.cfg.Locale)
		if err != nil {
			if !errors.Is(err, i18n.ErrCatalogNotFound) {
				raw += fmt.Sprintf("\n> Catalog error: %v\n", err)
			}
			bundle = &i18n.Bundle{Messages: map[string]string{}}
		}

		outcome := m.runner.EvaluatePage(target, bundle, m.state)
		return pageLoadedMsg{target: target, raw: raw, bundle: bundle, outcome: outcome}
	}
}

// saveCmd checkpoints the session state to disk. Ephemeral sessions skip the
// write but still report success so the status line stays quiet.
func (m Model) saveCmd() tea.Cmd {
	if m.ephemeral {
		return func() tea.Msg { return savedMsg{} }
	}
	store, state := m.store, m.state
	return func() tea.Msg {
		return savedMsg{err: store.Save(state)}
	}
}

func (m Model) autorefreshCmd() tea.Cmd {
	return tea.Tick(m.cfg.UI.Autorefresh, func(t time.Time) tea.Msg {
		return autorefreshMsg(t)
	})
}

// waitReloadCmd blocks on the watcher channel. It re-arms itself after every
// delivery; a closed channel ends the loop.
func (m Model) waitReloadCmd() tea.Cmd {
	ch := m.reload
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return reloadMsg{}
	}
}

func yankCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return yankedMsg{err: clipboard.WriteAll(text)}
	}
}
