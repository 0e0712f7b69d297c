// Package app registers the application's views, layouts and controller
// actions. Views are templ components paired with their language tables;
// registration happens once at startup.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/skdb/formkit/internal/lang"
	"github.com/skdb/formkit/internal/render"
	"github.com/skdb/formkit/internal/text"
)

// RegisterViews adds the built-in layouts and pages to the registry.
func RegisterViews() {
	render.RegisterLayout(render.DefaultLayout, render.Layout{
		Lang: lang.Table{
			"en": {"footer": "All rights reserved."},
			"de": {"footer": "Alle Rechte vorbehalten."},
		},
		Build: defaultLayout,
	})

	render.RegisterLayout("layout/email", render.Layout{
		Build: emailLayout,
	})

	render.RegisterView("home", render.View{
		Body: fragment(func(opt *render.Options, w io.Writer) error {
			_, err := fmt.Fprintf(w, "<h1>%s</h1><p>%s</p>",
				text.Escape(opt.Title), opt.Lang("welcome"))
			return err
		}),
		Head: fragment(func(opt *render.Options, w io.Writer) error {
			_, err := fmt.Fprintf(w, `<link rel="stylesheet" href="%s">`,
				opt.ResourceLink("/static/style.css"))
			return err
		}),
		Lang: lang.Table{
			"en": {"welcome": "Welcome back."},
			"de": {"welcome": "Willkommen zurück."},
		},
	})

	render.RegisterView("mail/invite", render.View{
		Body: fragment(func(opt *render.Options, w io.Writer) error {
			root, _ := opt.Get("application_root").(string)
			_, err := fmt.Fprintf(w, "<p>%s</p><p><a href=%q>%s</a></p>",
				opt.Lang("invited"), root, text.Escape(root))
			return err
		}),
		Lang: lang.Table{
			"en": {"invited": "You have been invited."},
			"de": {"invited": "Sie wurden eingeladen."},
		},
	})

	render.RegisterView("error/404", render.View{
		Body: fragment(func(opt *render.Options, w io.Writer) error {
			_, err := fmt.Fprintf(w, "<h1>404</h1><p>%s</p>", opt.Lang("notfound"))
			return err
		}),
		Lang: lang.Table{
			"en": {"notfound": "This page does not exist."},
			"de": {"notfound": "Diese Seite existiert nicht."},
		},
	})
}

// fragment adapts an options-aware render func into a templ component. The
// options travel through the render context, the way templ passes values to
// nested components.
func fragment(fn func(opt *render.Options, w io.Writer) error) render.Fragment {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		opt, _ := ctx.Value(optionsKey{}).(*render.Options)
		if opt == nil {
			opt = &render.Options{Lang: func(k string) string { return k }}
		}
		return fn(opt, w)
	})
}

type optionsKey struct{}

// defaultLayout is the HTML shell every page renders inside.
func defaultLayout(opt *render.Options, body, head render.Fragment) render.Fragment {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		ctx = context.WithValue(ctx, optionsKey{}, opt)
		if _, err := fmt.Fprintf(w, "<!DOCTYPE html><html><head><title>%s</title>", text.Escape(opt.Title)); err != nil {
			return err
		}
		if err := head.Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "</head><body>"); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "<footer>%s</footer></body></html>", opt.Lang("footer"))
		return err
	})
}

// emailLayout is the minimal shell for mail bodies: no asset links, no
// footer chrome.
func emailLayout(opt *render.Options, body, _ render.Fragment) render.Fragment {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		ctx = context.WithValue(ctx, optionsKey{}, opt)
		if _, err := io.WriteString(w, "<html><body>"); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}
