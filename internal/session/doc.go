// Package session tracks per-chat conversation continuity tokens.
//
// The Nova gateway keys conversation history by an opaque ref_id. This
// package owns the chat-to-token mapping: tokens are assigned lazily on
// first interaction and replaced in place on reset. State is in-memory
// only and discarded on process exit.
package session
