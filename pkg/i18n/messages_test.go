package i18n

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

const sampleCatalog = `title: First Steps
intro: Welcome to the tutorial.
max_rows: 100
tasks_onetime:
  - name: Create a file
    msg: Create hello.txt in your working directory.
    check: file_exists
    response: "Found it at {{.Result}}."
tasks_everytime:
  - name: Confirm you read this
    msg: Press enter when done.
`

func TestBundleUnmarshal(t *testing.T) {
	var b Bundle
	if err := yaml.Unmarshal([]byte(sampleCatalog), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got := b.Get("title"); got != "First Steps" {
		t.Errorf("title = %q", got)
	}
	// Numeric scalars are formatted into strings.
	if got := b.Get("max_rows"); got != "100" {
		t.Errorf("max_rows = %q, want %q", got, "100")
	}
	// Task lists never leak into the message map.
	if _, ok := b.Messages["tasks_onetime"]; ok {
		t.Error("tasks_onetime should not be a message")
	}

	if len(b.TasksOnetime) != 1 || len(b.TasksEverytime) != 1 {
		t.Fatalf("task counts = %d/%d, want 1/1", len(b.TasksOnetime), len(b.TasksEverytime))
	}
	task := b.TasksOnetime[0]
	if task.Name != "Create a file" || task.Check != "file_exists" {
		t.Errorf("task = %+v", task)
	}
	if b.TasksEverytime[0].Check != "" {
		t.Error("manual task should have no check")
	}
}

func TestBundleTasksOrder(t *testing.T) {
	b := Bundle{
		TasksOnetime:   []Task{{Name: "one"}, {Name: "two"}},
		TasksEverytime: []Task{{Name: "three"}},
	}
	all := b.Tasks()
	if len(all) != 3 {
		t.Fatalf("len = %d", len(all))
	}
	for i, want := range []string{"one", "two", "three"} {
		if all[i].Name != want {
			t.Errorf("task %d = %q, want %q", i, all[i].Name, want)
		}
	}
}

func TestGetOr(t *testing.T) {
	b := Bundle{Messages: map[string]string{"set": "value", "empty": ""}}
	if got := b.GetOr("set", "fb"); got != "value" {
		t.Errorf("GetOr(set) = %q", got)
	}
	if got := b.GetOr("empty", "fb"); got != "fb" {
		t.Errorf("GetOr(empty) = %q, want fallback", got)
	}
	if got := b.GetOr("missing", "fb"); got != "fb" {
		t.Errorf("GetOr(missing) = %q, want fallback", got)
	}
}

func writeCatalog(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMessages(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "basic_01.md")
	writeCatalog(t, dir, "basic_01.en_US.yaml", "greeting: Hello\n")
	writeCatalog(t, dir, "basic_01.de_DE.yaml", "greeting: Hallo\n")

	tests := []struct {
		name   string
		locale string
		want   string
	}{
		{"requested_locale", "de_DE", "Hallo"},
		{"default_locale", "en_US", "Hello"},
		{"empty_locale_uses_default", "", "Hello"},
		{"unknown_locale_falls_back", "fr_FR", "Hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := LoadMessages(page, tt.locale)
			if err != nil {
				t.Fatalf("LoadMessages: %v", err)
			}
			if got := b.Get("greeting"); got != tt.want {
				t.Errorf("greeting = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadMessagesNoCatalog(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "orphan.md")
	_, err := LoadMessages(page, "en_US")
	if !errors.Is(err, ErrCatalogNotFound) {
		t.Errorf("expected ErrCatalogNotFound, got %v", err)
	}
}
