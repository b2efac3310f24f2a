// Package reactions implements the toggle engine: the three-way state machine
// that creates, removes, or switches a user's reaction on a post and adjusts
// the post's counters in the same transaction.
package reactions
