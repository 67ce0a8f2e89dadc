// Package bridge is the core controller connecting a chat frontend to the
// Nova gateway.
//
// # Responsibilities
//
// For each inbound command the bridge resolves the chat's continuity token,
// builds and sends the gateway request with a typing indicator running for
// the duration of the call, and formats the result (or failure) as a single
// chat message.
//
// # Error policy
//
// Every error except *DeliveryError is recovered at this boundary: the
// dispatcher converts it to user text via NotifyError and the event is done.
// Delivery errors propagate, because the channel needed to tell the user
// anything is itself broken.
package bridge
