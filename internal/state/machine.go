package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionLockKeyPattern = "session-lock:%d"
	lockTTL               = 5 * time.Second
)

var (
	// ErrInvalidTransition indicates that a requested protocol transition is not allowed.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrStateNotFound indicates that a chat session does not exist.
	ErrStateNotFound = errors.New("session not found")
	// ErrStateLocked indicates that a concurrent update already holds the lock.
	ErrStateLocked = errors.New("session is locked, try again later")
)

var transitionRecorder = func(from, to string) {}

// RegisterTransitionRecorder allows external packages to observe session transitions.
func RegisterTransitionRecorder(recorder func(from, to string)) {
	if recorder == nil {
		transitionRecorder = func(string, string) {}
		return
	}

	transitionRecorder = recorder
}

// StateMachine describes the operations supported by the session controller.
type StateMachine interface {
	GetState(ctx context.Context, chatID int64) (*Session, error)
	SetState(ctx context.Context, chatID int64, state State, patch Patch) error
	TransitionTo(ctx context.Context, chatID int64, newState State, patch Patch) error
	ClearState(ctx context.Context, chatID int64) error
	GetAllStates(ctx context.Context) ([]*Session, error)
}

// machine is a concrete implementation of StateMachine backed by Storage and Redis locking.
type machine struct {
	storage     Storage
	log         *slog.Logger
	redisClient *redis.Client
}

// NewStateMachine creates a session controller using the provided storage backend.
// A nil redis client disables cross-process locking.
func NewStateMachine(storage Storage, log *slog.Logger, redisClient *redis.Client) StateMachine {
	if log == nil {
		log = slog.Default()
	}

	return &machine{
		storage:     storage,
		log:         log,
		redisClient: redisClient,
	}
}

// GetState proxies to the underlying storage implementation.
func (m *machine) GetState(ctx context.Context, chatID int64) (*Session, error) {
	return m.storage.GetState(ctx, chatID)
}

// GetAllStates returns every persisted session.
func (m *machine) GetAllStates(ctx context.Context) ([]*Session, error) {
	return m.storage.GetAllStates(ctx)
}

// SetState starts a fresh session in the given state. Stored fields are discarded; only the
// stored state is read, to record where the chat came from.
func (m *machine) SetState(ctx context.Context, chatID int64, state State, patch Patch) error {
	if err := m.lock(ctx, chatID); err != nil {
		return err
	}
	defer m.unlock(ctx, chatID)

	from, err := m.currentState(ctx, chatID)
	if err != nil {
		return err
	}

	session := &Session{ChatID: chatID, State: state}
	session.apply(patch)

	if err := m.storage.SetState(ctx, chatID, session); err != nil {
		return err
	}

	transitionRecorder(string(from), string(state))
	return nil
}

// currentState is the stored state, or StateAwaitingQuery for a chat without a session.
func (m *machine) currentState(ctx context.Context, chatID int64) (State, error) {
	stored, err := m.storage.GetState(ctx, chatID)
	if errors.Is(err, ErrStateNotFound) || (err == nil && stored == nil) {
		return StateAwaitingQuery, nil
	}
	if err != nil {
		return "", err
	}
	return stored.State, nil
}

// TransitionTo moves the session forward if the transition is allowed, keeping unchanged fields.
func (m *machine) TransitionTo(ctx context.Context, chatID int64, newState State, patch Patch) error {
	if err := m.lock(ctx, chatID); err != nil {
		return err
	}
	defer m.unlock(ctx, chatID)

	session := &Session{ChatID: chatID, State: StateAwaitingQuery}

	stored, err := m.storage.GetState(ctx, chatID)
	if err != nil {
		if !errors.Is(err, ErrStateNotFound) {
			return err
		}
	} else if stored != nil {
		session = stored
	}

	current := session.State
	if !IsTransitionAllowed(current, newState) {
		m.log.Debug("invalid state transition", "chat_id", chatID, "from", current, "to", newState)
		return ErrInvalidTransition
	}

	session.State = newState
	session.apply(patch)

	if err := m.storage.SetState(ctx, chatID, session); err != nil {
		return err
	}

	transitionRecorder(string(current), string(newState))
	return nil
}

// ClearState removes the stored session while holding the lock.
func (m *machine) ClearState(ctx context.Context, chatID int64) error {
	if err := m.lock(ctx, chatID); err != nil {
		return err
	}
	defer m.unlock(ctx, chatID)

	return m.storage.ClearState(ctx, chatID)
}

func (m *machine) lock(ctx context.Context, chatID int64) error {
	if m.redisClient == nil {
		return nil
	}

	key := fmt.Sprintf(sessionLockKeyPattern, chatID)
	acquired, err := m.redisClient.SetNX(ctx, key, 1, lockTTL).Result()
	if err != nil {
		m.log.Error("failed to acquire session lock", "chat_id", chatID, "error", err)
		return err
	}

	if !acquired {
		m.log.Warn("session lock already held", "chat_id", chatID)
		return ErrStateLocked
	}

	return nil
}

func (m *machine) unlock(ctx context.Context, chatID int64) {
	if m.redisClient == nil {
		return
	}

	key := fmt.Sprintf(sessionLockKeyPattern, chatID)
	if err := m.redisClient.Del(ctx, key).Err(); err != nil {
		m.log.Error("failed to release session lock", "chat_id", chatID, "error", err)
	}
}
