// Package app is the application layer - the only place that composes
// multiple domain components. It orchestrates the toggle use case
// (engine, then best-effort publish) and owns the per-post feed bridging
// Redis Pub/Sub into the WebSocket hub.
package app
