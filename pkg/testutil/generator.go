// Package testutil provides deterministic fixture generators for the menu
// model and session state, plus assertion helpers shared by package tests.
package testutil

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/trailhead/pkg/session"
	"github.com/vanderheijden86/trailhead/pkg/sidebar"
)

// GeneratorConfig controls sidebar generation.
type GeneratorConfig struct {
	Seed         int64  // random seed (0 = fixed default)
	TargetPrefix string // prefix for generated page targets (default "page")
	HideProgress bool   // generate items with show_progress disabled
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:         42,
		TargetPrefix: "page",
	}
}

// Generator creates deterministic sidebar and state fixtures.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}
	if cfg.TargetPrefix == "" {
		cfg.TargetPrefix = "page"
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// NewDefault creates a Generator with DefaultConfig.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Sidebar builds a validated sidebar with the given menu sizes. Menu i gets
// sizes[i] items; targets are unique across the whole sidebar.
func (g *Generator) Sidebar(sizes ...int) *sidebar.Sidebar {
	sb := &sidebar.Sidebar{Header: "Generated Tutorial"}
	n := 0
	for mi, size := range sizes {
		menu := sidebar.Menu{Label: fmt.Sprintf("Menu %d", mi+1)}
		for i := 0; i < size; i++ {
			n++
			menu.Children = append(menu.Children, sidebar.MenuItem{
				Label:        fmt.Sprintf("Page %d", n),
				Target:       fmt.Sprintf("%s_%02d", g.cfg.TargetPrefix, n),
				ShowProgress: !g.cfg.HideProgress,
			})
		}
		sb.Navbar = append(sb.Navbar, menu)
	}
	return sb
}

// StateWithProgress returns a session state pre-seeded with completed/total
// counters for every page of sb. completedOf decides the completed count per
// target given its total.
func (g *Generator) StateWithProgress(sb *sidebar.Sidebar, total int, completedOf func(target string) int) *session.State {
	st := session.NewState()
	for _, p := range sb.PageList() {
		target := strings.TrimSuffix(filepath.Base(p), sidebar.PageExtension)
		st.SetTotal(target, total)
		st.SetCompleted(target, completedOf(target))
	}
	return st
}

// WriteSidebarYAML marshals sb into dir/sidebar.yaml and returns the path.
func WriteSidebarYAML(t *testing.T, dir string, sb *sidebar.Sidebar) string {
	t.Helper()
	data, err := yaml.Marshal(sb)
	if err != nil {
		t.Fatalf("marshaling sidebar: %v", err)
	}
	path := filepath.Join(dir, "sidebar.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing sidebar fixture: %v", err)
	}
	return path
}

// WritePage writes a page markdown file for target into dir.
func WritePage(t *testing.T, dir, target, content string) string {
	t.Helper()
	path := filepath.Join(dir, target+sidebar.PageExtension)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing page fixture: %v", err)
	}
	return path
}

// WriteCatalog writes a message catalog for target and locale into dir.
func WriteCatalog(t *testing.T, dir, target, locale, content string) string {
	t.Helper()
	path := filepath.Join(dir, target+"."+locale+".yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing catalog fixture: %v", err)
	}
	return path
}
