package sidebar

import (
	"errors"
	"strings"

	"github.com/vanderheijden86/trailhead/pkg/debug"
	"github.com/vanderheijden86/trailhead/pkg/metrics"
)

// ErrInvalidArgument is returned for malformed navigation requests, such as
// an empty page name.
var ErrInvalidArgument = errors.New("invalid argument")

// PageList returns every page file path in navigation order: menu order,
// then child order within each menu. This flattened order is the single
// source of truth for previous/next navigation.
func (s *Sidebar) PageList() []string {
	pages := make([]string, 0, len(s.Navbar)*4)
	for _, menu := range s.Navbar {
		for _, item := range menu.Children {
			pages = append(pages, item.Filepath())
		}
	}
	return pages
}

// HomePage returns the file path of the first page in the navigation order.
func (s *Sidebar) HomePage() string {
	for _, menu := range s.Navbar {
		for _, item := range menu.Children {
			return item.Filepath()
		}
	}
	// Unreachable for a validated sidebar; keep a sane fallback anyway.
	return PagesDirectory + "/start" + PageExtension
}

// Item returns the menu item for a page target, or false if no menu lists it.
func (s *Sidebar) Item(target string) (MenuItem, bool) {
	for _, menu := range s.Navbar {
		for _, item := range menu.Children {
			if item.Target == target {
				return item, true
			}
		}
	}
	return MenuItem{}, false
}

// PrevAndNext resolves the previous and next page file paths for pageName
// (a page target, not a file path). An empty result string means there is no
// page in that direction.
//
// An unknown page degrades to ("", "") with a logged warning rather than an
// error: navigation sits on every page render and must never block it. When
// the same target appears in more than one menu the first occurrence wins;
// this ambiguity is inherited from the flattened-index lookup and is
// deliberately left as-is.
func (s *Sidebar) PrevAndNext(pageName string) (prev, next string, err error) {
	if strings.TrimSpace(pageName) == "" {
		return "", "", ErrInvalidArgument
	}
	defer metrics.Timer(metrics.NavResolve)()

	pages := s.PageList()
	current := PagesDirectory + "/" + pageName + PageExtension

	idx := -1
	for i, p := range pages {
		if p == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		debug.Log("page %q not found in navigation", pageName)
		return "", "", nil
	}

	if idx > 0 {
		prev = pages[idx-1]
	}
	if idx < len(pages)-1 {
		next = pages[idx+1]
	}
	return prev, next, nil
}
