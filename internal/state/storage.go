// Package state tracks each chat's position in the podcast selection protocol.
package state

import "context"

// Storage defines the persistence contract for chat sessions.
type Storage interface {
	// GetState returns the current session for the specified chat.
	GetState(ctx context.Context, chatID int64) (*Session, error)
	// SetState saves the provided session for the specified chat.
	SetState(ctx context.Context, chatID int64, session *Session) error
	// ClearState removes the session for the specified chat.
	ClearState(ctx context.Context, chatID int64) error
	// GetAllStates returns every live session.
	GetAllStates(ctx context.Context) ([]*Session, error)
}
