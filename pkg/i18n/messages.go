// Package i18n loads per-page message catalogs.
//
// Each tutorial page owns one catalog per locale, living next to the page
// file: pages/basic_01.md is accompanied by pages/basic_01.en_US.yaml and
// optionally pages/basic_01.<locale>.yaml for other locales. A catalog
// carries every user-facing string for the page, including its task lists,
// so translating a page never touches code.
package i18n

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/trailhead/pkg/debug"
)

// DefaultLocale is the catalog every page must provide.
const DefaultLocale = "en_US"

// ErrCatalogNotFound is returned when neither the requested locale's catalog
// nor the default one exists for a page.
var ErrCatalogNotFound = errors.New("message catalog not found")

// Task describes one tutorial step as declared in a page catalog.
type Task struct {
	// Name is the display heading; its slug also keys manual-acknowledge
	// state, so it should stay stable across catalog edits.
	Name string `yaml:"name"`
	// Msg is the instruction text shown for the step.
	Msg string `yaml:"msg"`
	// Check names a registered check function validating the step. Empty
	// means the step completes by manual acknowledgement.
	Check string `yaml:"check,omitempty"`
	// Response is an optional text/template rendered with the check result
	// after the step completes.
	Response string `yaml:"response,omitempty"`
}

// Bundle is a page's message catalog: the free-form message strings plus the
// structured task lists.
type Bundle struct {
	Messages       map[string]string
	TasksOnetime   []Task
	TasksEverytime []Task
}

// UnmarshalYAML splits the catalog document into task lists and plain
// message strings. Non-string scalars are formatted into strings so catalogs
// may use bare numbers.
func (b *Bundle) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]yaml.Node
	if err := value.Decode(&raw); err != nil {
		return err
	}

	b.Messages = make(map[string]string, len(raw))
	for key, node := range raw {
		switch key {
		case "tasks_onetime":
			if err := node.Decode(&b.TasksOnetime); err != nil {
				return fmt.Errorf("decoding tasks_onetime: %w", err)
			}
		case "tasks_everytime":
			if err := node.Decode(&b.TasksEverytime); err != nil {
				return fmt.Errorf("decoding tasks_everytime: %w", err)
			}
		default:
			var s string
			if err := node.Decode(&s); err != nil {
				var v any
				if err := node.Decode(&v); err != nil {
					return fmt.Errorf("decoding message %q: %w", key, err)
				}
				s = fmt.Sprint(v)
			}
			b.Messages[key] = s
		}
	}
	return nil
}

// Get returns the message for key, or the empty string when absent.
func (b *Bundle) Get(key string) string {
	return b.Messages[key]
}

// GetOr returns the message for key, or fallback when absent.
func (b *Bundle) GetOr(key, fallback string) string {
	if s, ok := b.Messages[key]; ok && s != "" {
		return s
	}
	return fallback
}

// Tasks returns the one-time tasks followed by the every-time tasks; the
// combined length is the page's task total.
func (b *Bundle) Tasks() []Task {
	out := make([]Task, 0, len(b.TasksOnetime)+len(b.TasksEverytime))
	out = append(out, b.TasksOnetime...)
	out = append(out, b.TasksEverytime...)
	return out
}

// LoadMessages loads the message catalog for a page file, preferring the
// requested locale and falling back to the default. pagePath is the page
// file itself (pages/<target>.md); the catalog lives next to it.
func LoadMessages(pagePath, locale string) (*Bundle, error) {
	base := strings.TrimSuffix(pagePath, filepath.Ext(pagePath))

	catalog := base + "." + locale + ".yaml"
	if locale == "" {
		catalog = base + "." + DefaultLocale + ".yaml"
	}
	if _, err := os.Stat(catalog); err != nil {
		fallback := base + "." + DefaultLocale + ".yaml"
		if fallback != catalog {
			debug.Log("message catalog %s not found, falling back to %s", catalog, fallback)
			catalog = fallback
		}
		if _, err := os.Stat(catalog); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, catalog)
		}
	}

	data, err := os.ReadFile(catalog)
	if err != nil {
		return nil, fmt.Errorf("reading message catalog %s: %w", catalog, err)
	}

	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing message catalog %s: %w", catalog, err)
	}
	return &b, nil
}
