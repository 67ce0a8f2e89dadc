// Package nova implements the HTTP client for the Nova inference gateway.
//
// The gateway exposes a single /ai endpoint: POST forwards a prompt and
// DELETE clears the conversation history for a continuity token. Failures
// are normalized into two kinds: *GatewayError for statuses reported by the
// gateway (with a supplied or synthesized message) and *TransportError for
// network, protocol, and decode failures.
package nova
