// Package sidebar defines the declarative navigation tree for the tutorial
// host: an ordered set of menus, each holding navigable page items, plus a
// bag of external links.
//
// A Sidebar is constructed once at process start (see Load) and is read-only
// afterwards, so it is safe to share across goroutines without locking. It is
// passed explicitly to everything that needs it; there is no package-level
// instance.
package sidebar

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// PagesDirectory is the directory every page target resolves into.
	PagesDirectory = "pages"
	// PageExtension is the file extension for tutorial pages.
	PageExtension = ".md"
	// HiddenMenuLabel marks menus that are navigable but never rendered.
	HiddenMenuLabel = "__hidden__"
)

// ValidationError reports a menu model invariant violation. Field names the
// offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid sidebar %s: %s", e.Field, e.Reason)
}

// MenuItem is a single navigable page. Label and Target are trimmed and must
// be non-empty; Target must be unique within its containing Menu. Uniqueness
// across menus is the caller's responsibility (see PrevAndNext for how
// duplicates resolve).
type MenuItem struct {
	Label        string `yaml:"label"`
	Target       string `yaml:"target"`
	ShowProgress bool   `yaml:"show_progress"`
}

// NewMenuItem builds a validated MenuItem with progress display enabled.
func NewMenuItem(label, target string) (MenuItem, error) {
	item := MenuItem{
		Label:        strings.TrimSpace(label),
		Target:       strings.TrimSpace(target),
		ShowProgress: true,
	}
	if err := item.Validate(); err != nil {
		return MenuItem{}, err
	}
	return item, nil
}

// UnmarshalYAML decodes a menu item, defaulting show_progress to true when
// the key is absent.
func (m *MenuItem) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Label        string `yaml:"label"`
		Target       string `yaml:"target"`
		ShowProgress *bool  `yaml:"show_progress"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	m.Label = strings.TrimSpace(raw.Label)
	m.Target = strings.TrimSpace(raw.Target)
	m.ShowProgress = raw.ShowProgress == nil || *raw.ShowProgress
	return nil
}

// Validate checks the item invariants. Label and Target are expected to be
// trimmed already (NewMenuItem and UnmarshalYAML both trim).
func (m MenuItem) Validate() error {
	if strings.TrimSpace(m.Label) == "" {
		return &ValidationError{Field: "item label", Reason: "must not be empty or whitespace-only"}
	}
	if strings.TrimSpace(m.Target) == "" {
		return &ValidationError{Field: "item target", Reason: "must not be empty or whitespace-only"}
	}
	return nil
}

// Filepath returns the page file this item navigates to, relative to the
// pages root. The pages/<target>.md convention is the join key between the
// menu model and the page host; progress and navigation both rely on it.
func (m MenuItem) Filepath() string {
	return PagesDirectory + "/" + m.Target + PageExtension
}

// Markdown returns the item as a markdown link.
func (m MenuItem) Markdown() string {
	return fmt.Sprintf("[%s](%s)", m.Label, m.Target)
}

// Menu is a named, ordered, non-empty group of items.
type Menu struct {
	Label    string     `yaml:"label"`
	Children []MenuItem `yaml:"children"`
}

// Hidden reports whether the menu is excluded from rendering.
func (m Menu) Hidden() bool {
	return m.Label == HiddenMenuLabel
}

// Validate checks the menu invariants, including target uniqueness within
// the menu.
func (m Menu) Validate() error {
	if strings.TrimSpace(m.Label) == "" {
		return &ValidationError{Field: "menu label", Reason: "must not be empty"}
	}
	if len(m.Children) == 0 {
		return &ValidationError{Field: "menu children", Reason: fmt.Sprintf("menu %q must have at least one item", m.Label)}
	}
	seen := make(map[string]bool, len(m.Children))
	for _, child := range m.Children {
		if err := child.Validate(); err != nil {
			return err
		}
		if seen[child.Target] {
			return &ValidationError{Field: "item target", Reason: fmt.Sprintf("duplicate target %q in menu %q", child.Target, m.Label)}
		}
		seen[child.Target] = true
	}
	return nil
}

// Links holds optional external URLs shown in the sidebar toolbar.
type Links struct {
	Documentation string `yaml:"documentation,omitempty"`
	GetHelp       string `yaml:"gethelp,omitempty"`
	About         string `yaml:"about,omitempty"`
	Bugs          string `yaml:"bugs,omitempty"`
	Settings      string `yaml:"settings,omitempty"`
}

// Sidebar is the root aggregate: an optional header, at least one menu, and
// the external links.
type Sidebar struct {
	Header string `yaml:"header,omitempty"`
	Navbar []Menu `yaml:"navbar"`
	Links  Links  `yaml:"links,omitempty"`
}

// Validate checks the sidebar invariants.
func (s *Sidebar) Validate() error {
	if len(s.Navbar) == 0 {
		return &ValidationError{Field: "navbar", Reason: "must have at least one menu"}
	}
	for _, menu := range s.Navbar {
		if err := menu.Validate(); err != nil {
			return err
		}
	}
	return nil
}
