package web

import (
	"net/http"
	"strings"
	"sync"
)

// Action is one controller entry point. Incoming requests and internal
// reroutes both land here.
type Action func(rsp *Responder, r *http.Request)

// dispatcher maps slash-joined path segments to actions. Lookup tries the
// full path first, then progressively shorter prefixes, so "notes/save/3"
// can land on the "notes/save" action with the rest as parameters.
type dispatcher struct {
	mu      sync.RWMutex
	actions map[string]Action
}

func newDispatcher() *dispatcher {
	return &dispatcher{actions: make(map[string]Action)}
}

func (d *dispatcher) register(path string, a Action) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.actions[strings.Trim(path, "/")] = a
}

func (d *dispatcher) lookup(segments []string) (Action, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if len(segments) == 0 {
		a, ok := d.actions[""]
		return a, ok
	}
	for n := len(segments); n >= 1; n-- {
		if a, ok := d.actions[strings.Join(segments[:n], "/")]; ok {
			return a, true
		}
	}
	return nil, false
}

// splitPath turns a URL path into its non-empty segments.
func splitPath(path string) []string {
	var segments []string
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}
