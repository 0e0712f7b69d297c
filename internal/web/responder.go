package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/skdb/formkit/internal/form"
	"github.com/skdb/formkit/internal/logging"
	"github.com/skdb/formkit/internal/mutation"
	"github.com/skdb/formkit/internal/render"
)

// maxRerouteDepth caps internal reroute chains so a misregistered error page
// cannot loop forever.
const maxRerouteDepth = 8

// Responder handles everything a controller action sends back to the client:
// rendered pages, result envelopes, redirects and cookies.
type Responder struct {
	w     http.ResponseWriter
	r     *http.Request
	srv   *Server
	parts []string // path segments of the action currently executing
	depth int
	user  *render.User
}

// User returns the acting session user, or nil when unauthenticated.
func (rsp *Responder) User() *render.User {
	return rsp.user
}

// PathSegments returns the segments the current action was dispatched with.
func (rsp *Responder) PathSegments() []string {
	return rsp.parts
}

// Render shows a document to the client inside the given layout. An
// unregistered document recovers by rerouting to the error page instead of
// surfacing the fault.
func (rsp *Responder) Render(documentID string, opt *render.Options, layoutID string) {
	if opt == nil {
		opt = &render.Options{}
	}
	if opt.User == nil {
		opt.User = rsp.user
	}
	opt.RequestURL = rsp.r.URL.RequestURI()

	rsp.w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := rsp.srv.renderer.Render(rsp.r.Context(), rsp.w, documentID, opt, layoutID)
	if err == nil {
		return
	}
	if errors.Is(err, render.ErrNotFound) {
		rsp.Reroute([]string{"error", "404"}, false)
		return
	}
	logging.FromContext(rsp.r.Context()).Error("render failed", "document", documentID, "error", err)
	http.Error(rsp.w, "internal error", http.StatusInternalServerError)
}

// GenerateRest sends a structured payload to the client.
func (rsp *Responder) GenerateRest(payload Envelope) {
	writeJSON(rsp.w, payload)
}

// GenerateRestError sends an error envelope and records it in the audit log.
func (rsp *Responder) GenerateRestError(code, message string) {
	if rsp.srv.audit != nil {
		msg := fmt.Sprintf("Rest error (Code: %s): %s", code, message)
		if err := rsp.srv.audit.LogActionByCategory(rsp.r.Context(), "resterror", msg, code); err != nil {
			slog.Warn("rest error audit failed", "code", code, "error", err)
		}
	}
	rsp.w.WriteHeader(http.StatusBadRequest)
	rsp.GenerateRest(Envelope{"result": ResultError, "code": code, "message": message})
}

// Success sends the generic success envelope.
func (rsp *Responder) Success() {
	rsp.GenerateRest(Envelope{"result": ResultSuccess})
}

// Error sends the generic error envelope.
func (rsp *Responder) Error(message string) {
	rsp.GenerateRest(Envelope{"result": ResultError, "message": message})
}

// FormErrors sends the merged field errors of one or more validation passes.
func (rsp *Responder) FormErrors(sets ...[]FieldError) {
	merged := []FieldError{}
	for _, set := range sets {
		merged = append(merged, set...)
	}
	rsp.GenerateRest(Envelope{"result": ResultFormErrors, "formErrors": merged})
}

// Reroute executes another action in place of the current one. With alias
// set, the given segments overlay the current path left to right and the
// remainder stays; otherwise the path is replaced as a whole.
func (rsp *Responder) Reroute(path []string, alias bool) {
	target := path
	if alias {
		target = append([]string{}, rsp.parts...)
		for i, part := range path {
			if i < len(target) {
				target[i] = part
			} else {
				target = append(target, part)
			}
		}
	}
	reroutesTotal.Inc()
	rsp.srv.execute(rsp, target)
}

// RerouteURL redirects at the client, prefixing the application root.
func (rsp *Responder) RerouteURL(url string) {
	http.Redirect(rsp.w, rsp.r, rsp.srv.cfg.App.RootPath+url, http.StatusFound)
}

// SetCookie sets a cookie at the client.
func (rsp *Responder) SetCookie(c *http.Cookie) {
	http.SetCookie(rsp.w, c)
}

// ClearCookie removes a cookie at the client.
func (rsp *Responder) ClearCookie(name, path string) {
	http.SetCookie(rsp.w, &http.Cookie{
		Name:    name,
		Path:    path,
		Expires: time.Now().Add(-time.Hour),
		MaxAge:  -1,
	})
}

// DoCED runs a create/edit/delete batch and answers malformed input with the
// generic error envelope. Reports whether the whole batch was applied.
func (rsp *Responder) DoCED(table string, result form.Result, rows []form.BatchRow, fix form.Overrides) bool {
	err := rsp.srv.executor.Execute(rsp.r.Context(), table, result, rows, fix)
	if err == nil {
		mutationBatchesTotal.WithLabelValues("ok").Inc()
		return true
	}
	if errors.Is(err, mutation.ErrClientInput) {
		mutationBatchesTotal.WithLabelValues("client_error").Inc()
		rsp.Error("invalid input")
		return false
	}
	mutationBatchesTotal.WithLabelValues("error").Inc()
	logging.FromContext(rsp.r.Context()).Error("mutation batch failed", "table", table, "error", err)
	rsp.Error("operation failed")
	return false
}

// Context returns the request context.
func (rsp *Responder) Context() context.Context {
	return rsp.r.Context()
}
