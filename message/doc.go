// Package message holds the value types that cross the engine boundary:
// pubsub topics, content topics, messages and message hashes. They exist
// to serialize into the engine's JSON documents; their wire shapes are
// fixed by the engine ABI.
package message
