// Package render orchestrates view and layout loading, per-language string
// resolution and page assembly.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/skdb/formkit/internal/lang"
)

// ErrNotFound reports a documentID or layoutID with no registered unit.
// Callers recover by rerouting to an error page, not by surfacing the fault.
var ErrNotFound = errors.New("render: view not found")

// Auditor records page accesses. May be nil when auditing is off.
type Auditor interface {
	LogActionByCategory(ctx context.Context, category, message string, subject any) error
}

// User is the acting session user as provided by the caller. The renderer
// consumes it; session mechanics live elsewhere.
type User struct {
	ID       int
	Language string // stored language preference, e.g. "EN", "de"
}

// Options carries the values one render call exposes to its view and layout.
// Every Options value belongs to exactly one request.
type Options struct {
	Root         string
	Title        string
	User         *User
	RequestURL   string // for the page-access audit entry
	OverrideLang string // takes precedence over the user's stored language

	// Set by the renderer before the layout runs.
	Lang         func(key string) string
	ResourceLink func(url string) string

	Extra map[string]any
}

// Get returns a value from Extra, or nil.
func (o *Options) Get(key string) any {
	if o.Extra == nil {
		return nil
	}
	return o.Extra[key]
}

// Set stores a value in Extra.
func (o *Options) Set(key string, value any) {
	if o.Extra == nil {
		o.Extra = make(map[string]any)
	}
	o.Extra[key] = value
}

// Config holds the renderer's fixed settings.
type Config struct {
	Root         string // application root path, injected as Options.Root
	DefaultTitle string // used when a render call sets no title
	AssetVersion string // cache-busting version; "dev" resolves to a timestamp
}

// Renderer loads a view and its layout and writes the assembled page.
type Renderer struct {
	cfg   Config
	audit Auditor
	now   func() time.Time
}

// New creates a renderer. audit may be nil.
func New(cfg Config, audit Auditor) *Renderer {
	if cfg.DefaultTitle == "" {
		cfg.DefaultTitle = "Your Website"
	}
	return &Renderer{cfg: cfg, audit: audit, now: time.Now}
}

// Render resolves documentID, merges standard defaults into opt, resolves
// the two language tables for the effective language, and invokes layoutID
// with the view's body and head. Returns ErrNotFound when either unit is
// unregistered.
func (rn *Renderer) Render(ctx context.Context, w io.Writer, documentID string, opt *Options, layoutID string) error {
	view, ok := LookupView(documentID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, documentID)
	}

	if opt == nil {
		opt = &Options{}
	}
	opt.Root = rn.cfg.Root
	if opt.Title == "" {
		opt.Title = rn.cfg.DefaultTitle
	}

	rn.logView(ctx, documentID, opt)

	if layoutID == "" {
		layoutID = DefaultLayout
	}
	if view.Layout != "" && layoutID == DefaultLayout {
		layoutID = view.Layout
	}
	layout, ok := LookupLayout(layoutID)
	if !ok {
		return fmt.Errorf("%w: layout %s", ErrNotFound, layoutID)
	}

	resolved := lang.Resolve(view.Lang, layout.Lang, rn.effectiveLanguage(opt))
	opt.Lang = resolved.Lookup
	opt.ResourceLink = rn.resourceLink

	body := view.Body
	if body == nil {
		body = templ.NopComponent
	}
	head := view.Head
	if head == nil {
		head = templ.NopComponent
	}

	page := layout.Build(opt, body, head)
	if err := page.Render(ctx, w); err != nil {
		return fmt.Errorf("render %s: %w", documentID, err)
	}
	return nil
}

// effectiveLanguage picks the language for this render call: the explicit
// override when set, else the user's stored preference, else English.
// The code may carry any casing; resolution downstream is case-insensitive.
func (rn *Renderer) effectiveLanguage(opt *Options) string {
	switch {
	case opt.OverrideLang != "":
		return opt.OverrideLang
	case opt.User != nil && opt.User.Language != "":
		return opt.User.Language
	}
	return "en"
}

// resourceLink appends the asset version to url for cache busting. In dev
// mode the version is the current unix timestamp, so assets reload on every
// request. The root's trailing slash is dropped so a root of "/" does not
// produce protocol-relative "//" links.
func (rn *Renderer) resourceLink(url string) string {
	v := rn.cfg.AssetVersion
	if v == "dev" {
		v = strconv.FormatInt(rn.now().Unix(), 10)
	}
	return strings.TrimSuffix(rn.cfg.Root, "/") + url + "?v=" + v
}

// logView writes the page-access audit entry before the document loads.
func (rn *Renderer) logView(ctx context.Context, documentID string, opt *Options) {
	if rn.audit == nil {
		return
	}
	userID := 0
	if opt.User != nil {
		userID = opt.User.ID
	}
	msg := fmt.Sprintf("URL viewed (User ID: %d, URL: %s)", userID, opt.RequestURL)
	if err := rn.audit.LogActionByCategory(ctx, "view", msg, documentID); err != nil {
		slog.Warn("view audit failed", "document", documentID, "error", err)
	}
}
