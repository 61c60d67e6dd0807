// Package dashboard provides the embedded web UI assets for hoteldash.
//
// The page is an html/template rendered by the server package with the
// current panel fragments; a small inline script then applies re-renders
// streamed over Server-Sent Events.
package dashboard

import "embed"

// Assets is an embedded filesystem containing the dashboard web UI.
//
// The filesystem structure is:
//
//	assets/
//	  index.html    - Page template with inline CSS and JavaScript
//
//go:embed assets/*
var Assets embed.FS
