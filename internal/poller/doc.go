// Package poller implements the periodic poll-with-stale-state pattern
// shared by every hoteldash panel.
//
// The main components are:
//
//   - [View]: one timer, one fire-and-forget GET per tick, and a
//     Loading/Loaded/Failed state guarded by per-request sequence numbers
//   - [Scheduler]: mounts a set of independent views and fans their results
//     into one channel
//   - [Client]: pooled HTTP client with per-request timeouts and size limits
//   - [Payload]: a decoded JSON body with literal and per-field access
//
// Users of the hoteldash library should not need to interact with this
// package directly. Configuration is done through the main hoteldash package.
package poller
