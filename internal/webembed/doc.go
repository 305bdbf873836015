// ABOUTME: Package documentation for the embeddable widget web surface
// ABOUTME: Documents routes, rendering model, and visitor identity

// Package webembed serves the embeddable chat widget over HTTP.
//
// The widget renders server-side: GET /embed returns the full chat panel
// for one agent, POST /embed/send relays a message and returns the
// refreshed message list as an HTMX partial, and POST /embed/refresh
// clears the persisted session and redirects back to a clean mount.
// GET /widget.js serves the loader script host pages include to inject
// the widget as an iframe with a floating toggle bubble.
//
// Every request carries an anonymous visitor cookie; the visitor id keys
// conversation state in the registry and session persistence in storage.
// Message sends are rate limited per visitor. Prometheus counters track
// mounts, exchanges, and exchange failures.
package webembed
