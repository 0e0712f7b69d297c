package render

import (
	"fmt"
	"sync"

	"github.com/a-h/templ"

	"github.com/skdb/formkit/internal/lang"
)

// Fragment is a renderable unit of a page. templ components satisfy it
// directly; plain functions can be wrapped with templ.ComponentFunc.
type Fragment = templ.Component

// View describes a loadable document: its body and head fragments, its
// language table and the layout it prefers. Body and Head are optional;
// missing fragments render nothing.
type View struct {
	Body   Fragment
	Head   Fragment
	Lang   lang.Table
	Layout string
}

// Layout wraps a view. Build receives the resolved options plus the view's
// body and head fragments and returns the full page.
type Layout struct {
	Lang  lang.Table
	Build func(opt *Options, body, head Fragment) Fragment
}

// DefaultLayout is used when a render call names no layout.
const DefaultLayout = "layout/default"

var (
	registryMu sync.RWMutex
	views      = make(map[string]View)
	layouts    = make(map[string]Layout)
)

// RegisterView adds a view under its logical id.
// Panics if the id is already taken.
func RegisterView(id string, v View) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := views[id]; exists {
		panic(fmt.Sprintf("view already registered: %s", id))
	}
	views[id] = v
}

// RegisterLayout adds a layout under its logical id.
// Panics if the id is already taken.
func RegisterLayout(id string, l Layout) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := layouts[id]; exists {
		panic(fmt.Sprintf("layout already registered: %s", id))
	}
	layouts[id] = l
}

// LookupView resolves a logical view id.
func LookupView(id string) (View, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	v, ok := views[id]
	return v, ok
}

// LookupLayout resolves a logical layout id.
func LookupLayout(id string) (Layout, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	l, ok := layouts[id]
	return l, ok
}

// ClearRegistry removes all registered views and layouts.
// Primarily useful for testing.
func ClearRegistry() {
	registryMu.Lock()
	defer registryMu.Unlock()
	views = make(map[string]View)
	layouts = make(map[string]Layout)
}
