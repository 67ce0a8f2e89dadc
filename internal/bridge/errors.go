// ABOUTME: Error taxonomy for the session bridge.
// ABOUTME: Separates delivery-channel failures from recoverable per-event errors.

package bridge

import (
	"errors"
	"fmt"
)

// ErrMissingPrompt indicates a chat command with no usable prompt text.
// It is recovered at the bridge boundary and rendered as an instructional
// message; no gateway call is made.
var ErrMissingPrompt = errors.New("missing message text after command")

// DeliveryError wraps a failure of the outbound messaging channel itself.
// It is the only error kind the dispatcher propagates instead of notifying
// the user, since the channel needed for that notification is unusable.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery error: %s", e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
