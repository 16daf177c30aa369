package testutil

import (
	"testing"

	"github.com/vanderheijden86/trailhead/pkg/sidebar"
)

func TestSidebarGenerator(t *testing.T) {
	gen := NewDefault()

	tests := []struct {
		name      string
		sizes     []int
		wantMenus int
		wantPages int
	}{
		{"single_menu", []int{3}, 1, 3},
		{"two_menus", []int{2, 4}, 2, 6},
		{"many_menus", []int{1, 1, 1, 1}, 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sb := gen.Sidebar(tt.sizes...)

			AssertValid(t, sb)
			AssertPageCount(t, sb, tt.wantPages)
			if len(sb.Navbar) != tt.wantMenus {
				t.Errorf("menus = %d, want %d", len(sb.Navbar), tt.wantMenus)
			}

			// Targets must be unique across the whole sidebar.
			seen := make(map[string]bool)
			for _, p := range sb.PageList() {
				if seen[p] {
					t.Errorf("duplicate page %s", p)
				}
				seen[p] = true
			}
		})
	}
}

func TestSidebarGeneratorRoundTripsThroughLoader(t *testing.T) {
	gen := NewDefault()
	sb := gen.Sidebar(2, 3)

	path := WriteSidebarYAML(t, t.TempDir(), sb)
	loaded, err := sidebar.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	AssertPageOrder(t, loaded, sb.PageList())
}

func TestStateWithProgress(t *testing.T) {
	gen := NewDefault()
	sb := gen.Sidebar(2)

	st := gen.StateWithProgress(sb, 4, func(target string) int {
		if target == "page_01" {
			return 4
		}
		return 1
	})

	if got := st.Completed("page_01"); got != 4 {
		t.Errorf("page_01 completed = %d", got)
	}
	if got := st.Completed("page_02"); got != 1 {
		t.Errorf("page_02 completed = %d", got)
	}
	if total, ok := st.Total("page_02"); !ok || total != 4 {
		t.Errorf("page_02 total = %d, %v", total, ok)
	}
}
