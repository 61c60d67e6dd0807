// Package store keeps the latest rendered fragment of every panel and
// publishes re-renders to subscribers.
//
// The main components are:
//
//   - [Store]: Interface defining storage and subscription operations
//   - [MemoryStore]: In-memory implementation of Store with pub/sub
//   - [PanelView]: Storage representation of a rendered panel
//
// The store holds output only. Each panel's poll state lives in its own
// poller view and is never shared; the store receives a fresh render after
// every commit. Subscribers receive updates via channels with non-blocking
// sends (slow subscribers miss updates rather than block the pollers).
package store
