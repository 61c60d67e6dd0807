// Package server provides the HTTP surface of the dashboard: the page
// itself, a JSON API over the rendered panels, a Server-Sent Events stream
// of re-renders, and an optional metrics endpoint.
//
// This package is internal to hoteldash. The page is rendered server-side
// from the store, so a browser without JavaScript still sees every panel as
// of its last load; the embedded script only swaps fragments as SSE updates
// arrive.
package server
