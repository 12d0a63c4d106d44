// Package pages renders the server-side HTML views as templ components.
package pages

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// AppName is shown in page titles and headers.
const AppName = "IntelliHire"

// pageWriter collects the first write error so components can render linearly.
type pageWriter struct {
	w   io.Writer
	err error
}

func (p *pageWriter) raw(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *pageWriter) text(s string) {
	p.raw(templ.EscapeString(s))
}

func (p *pageWriter) component(ctx context.Context, c templ.Component) {
	if p.err != nil {
		return
	}
	p.err = c.Render(ctx, p.w)
}

// PageTitle appends the app name unless the title already carries it.
func PageTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return AppName
	}
	if strings.HasSuffix(title, "| "+AppName) {
		return title
	}
	return title + " | " + AppName
}

// Layout wraps body in the shared document shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &pageWriter{w: w}
		p.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		p.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		p.raw(`<title>`)
		p.text(PageTitle(title))
		p.raw(`</title></head><body><header><a href="/" class="logo">`)
		p.text(AppName)
		p.raw(`</a></header><main>`)
		p.component(ctx, body)
		p.raw(`</main></body></html>`)
		return p.err
	})
}
