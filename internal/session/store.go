// ABOUTME: In-memory continuity token store keyed by Telegram chat ID.
// ABOUTME: Tokens correlate a chat with its server-side Nova conversation history.

package session

import (
	"strconv"
	"sync"
)

// Store tracks the continuity token for each chat. Sessions are created
// lazily on first use and live for the lifetime of the process.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*session
}

// session holds the per-chat state. The token is never empty once assigned.
type session struct {
	token string
}

// NewStore creates an empty continuity token store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[int64]*session),
	}
}

// ResolveOrCreate returns the continuity token for the given chat, creating
// a session whose token defaults to the decimal form of the chat ID when the
// chat has not been seen before.
func (s *Store) ResolveOrCreate(chatID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[chatID]; ok {
		return sess.token
	}

	sess := &session{token: strconv.FormatInt(chatID, 10)}
	s.sessions[chatID] = sess
	return sess.token
}

// ReplaceToken sets the continuity token for the given chat, creating the
// session if it does not exist yet. It always succeeds.
func (s *Store) ReplaceToken(chatID int64, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[chatID]; ok {
		sess.token = token
		return
	}
	s.sessions[chatID] = &session{token: token}
}
