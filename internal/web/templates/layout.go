// Package templates renders the server's HTML pages as templ components.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// FlashMessage is a one-shot notice shown at the top of the next page
type FlashMessage struct {
	Type    string // "info", "success" or "error"
	Message string
}

// PageData is common to every page
type PageData struct {
	Title string

	// LoginID of the current account, empty when anonymous
	LoginID   string
	HomeURL   string
	LogoutURL string
	StaticURL string

	Flash *FlashMessage
}

// htmlWriter keeps the first write error so components can write
// sequentially and check once
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) attr(name, value string) {
	h.raw(" " + name + "=\"" + templ.EscapeString(value) + "\"")
}

func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(ctx, h.w)
	}
}

// Layout wraps body in the page chrome: head, nav with the current login and
// a logout link, and any flash message
func Layout(data PageData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`)
		h.text(data.Title)
		h.raw(` | Math Fluency</title>`)
		if data.StaticURL != "" {
			h.raw(`<link rel="stylesheet"`)
			h.attr("href", data.StaticURL+"/style.css")
			h.raw(`>`)
		}
		h.raw(`</head><body><nav><a class="home"`)
		h.attr("href", data.HomeURL)
		h.raw(`>Math Fluency</a>`)
		if data.LoginID != "" {
			h.raw(` <span class="login-id">`)
			h.text(data.LoginID)
			h.raw(`</span> <a class="logout"`)
			h.attr("href", data.LogoutURL)
			h.raw(`>Log out</a>`)
		}
		h.raw(`</nav>`)
		if data.Flash != nil {
			h.raw(`<div`)
			h.attr("class", "flash flash-"+data.Flash.Type)
			h.raw(`>`)
			h.text(data.Flash.Message)
			h.raw(`</div>`)
		}
		h.raw(`<main>`)
		h.component(ctx, body)
		h.raw(`</main></body></html>`)
		return h.err
	})
}

// ErrorPage is shown when a page handler fails
func ErrorPage(data PageData, message string) templ.Component {
	return Layout(data, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h1>Something went wrong</h1><p class="error">`)
		h.text(message)
		h.raw(`</p><p><a`)
		h.attr("href", data.HomeURL)
		h.raw(`>Return to home</a></p>`)
		return h.err
	}))
}
