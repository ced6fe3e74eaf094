// Package web embeds the browser side of rosterdraw: the shared viewer and
// host page, the host login form, and the script and stylesheet both load.
package web

import (
	"embed"
	"io/fs"
)

// Template paths the handlers parse, relative to Templates().
const (
	IndexPage = "index.html"
	LoginPage = "host/login.html"
)

//go:embed templates/*
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Templates returns the page templates rooted at the templates directory
func Templates() fs.FS {
	return mustSub(templatesFS, "templates")
}

// Static returns the assets served under /static/
func Static() fs.FS {
	return mustSub(staticFS, "static")
}

// fs.Sub only fails on an invalid path, which the embed directives rule out
func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
