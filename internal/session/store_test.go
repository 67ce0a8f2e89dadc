// ABOUTME: Tests for the continuity token store.
// ABOUTME: Validates lazy creation, stability, replacement, and concurrency safety.

package session

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveOrCreate_NewChat(t *testing.T) {
	store := NewStore()

	// First resolution assigns the decimal chat ID as the token
	assert.Equal(t, "42", store.ResolveOrCreate(42))
	assert.Equal(t, "-100123", store.ResolveOrCreate(-100123))
}

func TestResolveOrCreate_Stable(t *testing.T) {
	store := NewStore()

	first := store.ResolveOrCreate(7)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, store.ResolveOrCreate(7))
	}
}

func TestReplaceToken_ExistingSession(t *testing.T) {
	store := NewStore()

	store.ResolveOrCreate(7)
	store.ReplaceToken(7, "rotated")

	assert.Equal(t, "rotated", store.ResolveOrCreate(7))
}

func TestReplaceToken_CreatesSession(t *testing.T) {
	store := NewStore()

	// Replacing a token for an unseen chat creates the session
	store.ReplaceToken(99, "preset")

	assert.Equal(t, "preset", store.ResolveOrCreate(99))
}

func TestReplaceToken_Idempotent(t *testing.T) {
	store := NewStore()

	token := store.ResolveOrCreate(7)
	store.ReplaceToken(7, token)
	store.ReplaceToken(7, token)

	assert.Equal(t, token, store.ResolveOrCreate(7))
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		chatID := int64(i % 10)
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.ResolveOrCreate(chatID)
		}()
		go func() {
			defer wg.Done()
			store.ReplaceToken(chatID, strconv.FormatInt(chatID, 10))
		}()
	}
	wg.Wait()

	for i := int64(0); i < 10; i++ {
		assert.Equal(t, strconv.FormatInt(i, 10), store.ResolveOrCreate(i))
	}
}
