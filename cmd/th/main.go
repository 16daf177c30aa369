package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/vanderheijden86/trailhead/pkg/backend"
	"github.com/vanderheijden86/trailhead/pkg/config"
	"github.com/vanderheijden86/trailhead/pkg/debug"
	"github.com/vanderheijden86/trailhead/pkg/export"
	"github.com/vanderheijden86/trailhead/pkg/i18n"
	"github.com/vanderheijden86/trailhead/pkg/session"
	"github.com/vanderheijden86/trailhead/pkg/sidebar"
	"github.com/vanderheijden86/trailhead/pkg/tasks"
	"github.com/vanderheijden86/trailhead/pkg/ui"
	"github.com/vanderheijden86/trailhead/pkg/version"
	"github.com/vanderheijden86/trailhead/pkg/watcher"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	configPath := flag.String("config", "", "Config file path (default: XDG config dir)")
	checkConfig := flag.Bool("check-config", false, "Validate the sidebar definition and page files, then exit")
	pagesDir := flag.String("pages", "", "Pages directory (overrides config)")
	locale := flag.String("locale", "", "Message catalog locale (overrides config)")
	exportPath := flag.String("export", "", "Write a progress report (md/svg/png by extension) and exit")
	serve := flag.Bool("serve", false, "Run the demo CRUD backend alongside the tutorial")
	addr := flag.String("addr", "", "Backend listen address (overrides config)")
	ephemeral := flag.Bool("ephemeral", false, "Do not persist session state")
	robot := flag.Bool("robot", false, "Print the navigation tree with progress markers and exit")
	flag.Parse()

	if *help {
		fmt.Println("Usage: th [options]")
		fmt.Println("\nA terminal host for guided tutorials.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("th %s\n", version.Version)
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *pagesDir != "" {
		cfg.PagesDir = *pagesDir
	}
	if *locale != "" {
		cfg.Locale = *locale
	}
	if *addr != "" {
		cfg.Backend.Addr = *addr
	}

	sb, err := sidebar.Load(cfg.ResolvedSidebarPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading sidebar: %v\n", err)
		os.Exit(1)
	}

	if *checkConfig {
		os.Exit(runCheckConfig(cfg, sb))
	}

	state := session.NewState()
	store := session.NewStore(cfg.ResolvedStatePath())
	if !*ephemeral {
		if err := store.Load(state); err != nil {
			// A corrupt or unreadable state document should not block the
			// tutorial; start fresh and warn.
			fmt.Fprintf(os.Stderr, "Warning: %v (starting with empty state)\n", err)
		}
	}

	if *exportPath != "" {
		err := export.SaveProgressReport(export.Options{
			Path:    *exportPath,
			Sidebar: sb,
			State:   state,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting progress: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Progress report written to %s\n", *exportPath)
		os.Exit(0)
	}

	if *robot || !term.IsTerminal(int(os.Stdout.Fd())) {
		printTree(sb, state)
		os.Exit(0)
	}

	runner := &tasks.Runner{Registry: builtinChecks(cfg)}

	// Watch both the sidebar definition and the state document; changes from
	// either re-evaluate the current page.
	reload := make(chan struct{}, 1)
	for _, path := range []string{cfg.ResolvedSidebarPath(), cfg.ResolvedStatePath()} {
		w, err := watcher.New(path, watcher.WithOnChange(func() {
			select {
			case reload <- struct{}{}:
			default:
			}
		}))
		if err != nil {
			debug.Log("watcher for %s unavailable: %v", path, err)
			continue
		}
		if err := w.Start(); err != nil {
			debug.Log("watcher for %s failed to start: %v", path, err)
			continue
		}
		defer w.Stop()
	}

	model := ui.New(cfg, sb, state, store, runner, reload, *ephemeral)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if *serve {
		dbPath := filepath.Join(filepath.Dir(cfg.ResolvedStatePath()), "backend.db")
		bs, err := backend.OpenStore(dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening backend store: %v\n", err)
			os.Exit(1)
		}
		defer bs.Close()

		srv := backend.NewServer(cfg.Backend.Addr, bs)
		if err := srv.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting backend: %v\n", err)
			os.Exit(1)
		}
		g.Go(func() error {
			<-ctx.Done()
			return srv.Shutdown(context.Background())
		})
	}

	g.Go(func() error {
		defer stop()
		_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !*ephemeral {
		if err := store.Save(state); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// runCheckConfig validates the navigation tree and reports pages whose files
// or default message catalogs are missing or broken. Missing files are
// warnings, not failures; authors often declare pages before writing them.
// An unparseable catalog is a failure.
func runCheckConfig(cfg config.Config, sb *sidebar.Sidebar) int {
	if err := sb.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid sidebar: %v\n", err)
		return 1
	}

	pages := sb.PageList()
	missing := 0
	broken := 0
	for _, p := range pages {
		path := filepath.Join(cfg.PagesDir, filepath.Base(p))
		if _, err := os.Stat(path); err != nil {
			fmt.Printf("  missing page file: %s\n", path)
			missing++
		}
		if _, err := i18n.LoadMessages(path, cfg.Locale); err != nil {
			if errors.Is(err, i18n.ErrCatalogNotFound) {
				fmt.Printf("  no message catalog for: %s\n", path)
				missing++
			} else {
				fmt.Fprintf(os.Stderr, "  broken message catalog: %v\n", err)
				broken++
			}
		}
	}

	fmt.Printf("Sidebar OK: %d menus, %d pages, %d missing files, %d broken catalogs\n",
		len(sb.Navbar), len(pages), missing, broken)
	if broken > 0 {
		return 1
	}
	return 0
}

// printTree writes the navigation tree with progress markers as plain
// markdown, for scripts and non-TTY output.
func printTree(sb *sidebar.Sidebar, state *session.State) {
	if sb.Header != "" {
		fmt.Printf("# %s\n\n", sb.Header)
	}
	for _, menu := range sb.Navbar {
		if menu.Hidden() {
			continue
		}
		fmt.Printf("## %s\n", menu.Label)
		for _, item := range menu.Children {
			fmt.Printf("- %s\n", sidebar.FullLabel(item, state))
		}
		fmt.Println()
	}
}

// builtinChecks registers the check functions the bundled demo pages use.
func builtinChecks(cfg config.Config) *tasks.Registry {
	reg := tasks.NewRegistry()

	reg.Register("state_file_exists", func() (any, error) {
		path := cfg.ResolvedStatePath()
		if _, err := os.Stat(path); err != nil {
			return nil, tasks.Fail("state_file_missing")
		}
		return path, nil
	})

	reg.Register("pages_dir_exists", func() (any, error) {
		info, err := os.Stat(cfg.PagesDir)
		if err != nil || !info.IsDir() {
			return nil, tasks.Fail("pages_dir_missing")
		}
		return cfg.PagesDir, nil
	})

	return reg
}
