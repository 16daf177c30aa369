// Package export renders shareable progress reports from a sidebar and the
// session state: a markdown summary, or an SVG/PNG progress card.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/trailhead/pkg/session"
	"github.com/vanderheijden86/trailhead/pkg/sidebar"
)

// Options controls progress report export behaviour.
type Options struct {
	Path    string           // Output path; format inferred from extension when Format empty
	Format  string           // "md", "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Title   string           // Optional title; defaults to the sidebar header
	Sidebar *sidebar.Sidebar // Navigation tree to report on
	State   *session.State   // Session state carrying the progress counters
}

// row is one reportable menu item.
type row struct {
	label     string
	completed int
	total     int
	hasTotal  bool
	done      bool
}

// group is one menu's rows.
type group struct {
	label string
	rows  []row
}

// report is the computed layout shared by all renderers.
type report struct {
	title     string
	groups    []group
	pagesDone int
	pages     int
}

// SaveProgressReport writes a progress report for the sidebar. The format is
// inferred from the path extension unless set explicitly.
func SaveProgressReport(opts Options) error {
	if opts.Sidebar == nil {
		return fmt.Errorf("sidebar is required for progress export")
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		case ".md":
			format = "md"
		default:
			format = "md" // safe default
			if filepath.Ext(opts.Path) == "" {
				opts.Path = opts.Path + ".md"
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	rep := buildReport(opts)

	switch format {
	case "md":
		return renderMarkdown(opts.Path, rep)
	case "svg":
		return renderSVG(opts.Path, rep)
	case "png":
		return renderPNG(opts.Path, rep)
	default:
		return fmt.Errorf("unsupported format %q (want md, svg or png)", format)
	}
}

func buildReport(opts Options) report {
	rep := report{title: opts.Title}
	if rep.title == "" {
		rep.title = opts.Sidebar.Header
	}
	if rep.title == "" {
		rep.title = "Tutorial progress"
	}

	for _, menu := range opts.Sidebar.Navbar {
		if menu.Hidden() {
			continue
		}
		g := group{label: menu.Label}
		for _, item := range menu.Children {
			r := row{label: item.Label}
			if item.ShowProgress && opts.State != nil {
				if total, ok := opts.State.Total(item.Target); ok {
					r.hasTotal = true
					r.total = total
					r.completed = opts.State.Completed(item.Target)
					r.done = r.completed == r.total
				}
			}
			rep.pages++
			if r.done {
				rep.pagesDone++
			}
			g.rows = append(g.rows, r)
		}
		rep.groups = append(rep.groups, g)
	}
	return rep
}

func (r row) marker() string {
	switch {
	case r.done:
		return "done"
	case !r.hasTotal:
		return "not started"
	default:
		return fmt.Sprintf("%d/%d", r.completed, r.total)
	}
}

func renderMarkdown(path string, rep report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", rep.title)
	fmt.Fprintf(&b, "%d of %d pages completed\n", rep.pagesDone, rep.pages)

	for _, g := range rep.groups {
		fmt.Fprintf(&b, "\n## %s\n\n", g.label)
		for _, r := range g.rows {
			check := " "
			if r.done {
				check = "x"
			}
			fmt.Fprintf(&b, "- [%s] %s (%s)\n", check, r.label, r.marker())
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing markdown report: %w", err)
	}
	return nil
}
