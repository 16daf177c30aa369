package sidebar

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/trailhead/pkg/debug"
	"github.com/vanderheijden86/trailhead/pkg/metrics"
)

// ErrConfigNotFound is returned when the sidebar definition file is absent.
var ErrConfigNotFound = errors.New("sidebar definition not found")

// ParseError wraps a parse or validation failure of the sidebar definition.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot load sidebar from %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Load reads and validates a sidebar definition from a YAML file.
//
// The application cannot render navigation without a sidebar, so callers
// treat any error here as fatal at startup. Load has no hidden cache and is
// safe to call repeatedly; the process is expected to hold on to one
// successfully loaded result for its lifetime.
func Load(path string) (*Sidebar, error) {
	defer metrics.Timer(metrics.SidebarLoad)()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, &ParseError{Path: path, Err: err}
	}

	var sb Sidebar
	if err := yaml.Unmarshal(data, &sb); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if err := sb.Validate(); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	debug.Log("loaded sidebar from %s: %d menus, %d pages", path, len(sb.Navbar), len(sb.PageList()))
	return &sb, nil
}
