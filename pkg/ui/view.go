package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/trailhead/pkg/metrics"
	"github.com/vanderheijden86/trailhead/pkg/sidebar"
	"github.com/vanderheijden86/trailhead/pkg/tasks"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}
	if m.resetForm != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.headerView(),
			m.resetForm.View(),
		)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.theme.Sidebar.Render(m.sidebarView()),
		m.theme.Page.Render(m.viewport.View()),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		body,
		m.footerView(),
		m.statusView(),
		m.help.View(m.keys),
	)
}

func (m Model) headerView() string {
	title := m.sb.Header
	if title == "" {
		title = "Tutorial"
	}
	if item, ok := m.sb.Item(m.current); ok {
		title += " · " + item.Label
	}
	return m.theme.Header.Render(truncate(title, m.width))
}

// sidebarView renders the menu tree with progress markers. Hidden menus are
// navigable but never listed.
func (m Model) sidebarView() string {
	var b strings.Builder
	innerWidth := sidebarWidth - 2

	for _, menu := range m.sb.Navbar {
		if menu.Hidden() {
			continue
		}
		b.WriteString(m.theme.MenuLabel.Render(truncate(menu.Label, innerWidth)))
		b.WriteString("\n")
		for _, item := range menu.Children {
			label := sidebar.FullLabel(item, m.state)
			line := "  " + truncate(label, innerWidth-2)
			if item.Target == m.current {
				line = "> " + truncate(label, innerWidth-2)
				b.WriteString(m.theme.ItemCurrent.Render(line))
			} else {
				b.WriteString(m.theme.Item.Render(line))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// footerView shows where previous/next navigation leads.
func (m Model) footerView() string {
	prev, next, err := m.sb.PrevAndNext(m.current)
	if err != nil {
		return ""
	}
	var parts []string
	if prev != "" {
		if item, ok := m.sb.Item(targetFromPagePath(prev)); ok {
			parts = append(parts, "← "+item.Label)
		}
	}
	if next != "" {
		if item, ok := m.sb.Item(targetFromPagePath(next)); ok {
			parts = append(parts, item.Label+" →")
		}
	}
	return m.theme.FooterNav.Render(truncate(strings.Join(parts, "   "), m.width))
}

func (m Model) statusView() string {
	if m.status == "" {
		return ""
	}
	style := m.theme.StatusBar
	if m.statusErr {
		style = m.theme.StatusError
	}
	return style.Render(truncate(m.status, m.width))
}

// refreshViewport re-renders the page markdown and the task checklist into
// the viewport.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	done := metrics.Timer(metrics.PageRender)

	content := m.raw
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(m.raw); err == nil {
			content = rendered
		}
	}
	if checklist := m.checklistView(); checklist != "" {
		content += "\n" + checklist
	}

	m.viewport.SetContent(content)
	done()
}

// checklistView renders the evaluated task list for the current page.
func (m Model) checklistView() string {
	if len(m.outcome.Tasks) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.theme.MenuLabel.Render("Steps"))
	b.WriteString("\n")
	for _, res := range m.outcome.Tasks {
		switch res.Status {
		case tasks.StatusDone:
			b.WriteString(m.theme.TaskDone.Render("  [x] " + res.Task.Name))
			b.WriteString("\n")
			if res.Response != "" {
				b.WriteString(m.theme.StatusBar.Render(indent(res.Response)))
				b.WriteString("\n")
			}
		case tasks.StatusWaiting:
			b.WriteString(m.theme.TaskWaiting.Render("  [ ] " + res.Task.Name))
			b.WriteString("\n")
			if res.Task.Msg != "" {
				b.WriteString(m.theme.StatusBar.Render(indent(res.Task.Msg)))
				b.WriteString("\n")
			}
			if res.Message != "" {
				b.WriteString(m.theme.StatusError.Render(indent(res.Message)))
				b.WriteString("\n")
			}
		case tasks.StatusBlocked:
			b.WriteString(m.theme.TaskBlocked.Render("  [ ] " + res.Task.Name))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "      " + l
	}
	return strings.Join(lines, "\n")
}
