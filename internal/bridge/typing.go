// ABOUTME: Typing indicator shown while a gateway request is in flight.
// ABOUTME: Background loop re-sending the chat action until stopped.

package bridge

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// typingInterval is how often the "typing" action is re-sent. Telegram
// expires a chat action after about five seconds.
const typingInterval = 4 * time.Second

// typingIndicator keeps a "typing" signal visible in a chat for the
// lifetime of one outstanding gateway call. The loop never blocks the call
// it decorates; signal-send failures are swallowed.
type typingIndicator struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// startTyping launches the indicator loop: send the activity signal, wait
// the interval, repeat until stopped. Callers must arrange for Stop to run
// on every exit path, typically via defer.
func startTyping(ctx context.Context, messenger Messenger, chatID int64, logger *slog.Logger) *typingIndicator {
	t := &typingIndicator{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go func() {
		defer close(t.done)
		for {
			if err := messenger.SendActivity(ctx, chatID); err != nil {
				logger.Debug("failed to send typing action", "chat_id", chatID, "error", err)
			}

			select {
			case <-t.stop:
				return
			case <-ctx.Done():
				return
			case <-time.After(typingInterval):
			}
		}
	}()

	return t
}

// Stop signals the loop to terminate. Safe to call more than once; the
// signal is delivered exactly once.
func (t *typingIndicator) Stop() {
	t.once.Do(func() {
		close(t.stop)
	})
}
