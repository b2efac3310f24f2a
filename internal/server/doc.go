// Package server wires the HTTP and WebSocket surface: post queries, reaction
// toggles, live update subscriptions, and the observability endpoints.
package server
