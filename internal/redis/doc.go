// Package redis provides the Redis client and the post-update Pub/Sub
// transport used to fan committed toggles out to subscribers.
package redis
