package agent

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leofalp/mathagent/providers/memory"
	"github.com/leofalp/mathagent/providers/memory/inmemory"
	"github.com/leofalp/mathagent/providers/observability"
)

var (
	// ErrSessionNotFound is returned when a session does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExists is returned when creating a session whose ID is taken.
	ErrSessionExists = errors.New("session already exists")
)

// Session is one conversation between a user and an app.
type Session struct {
	ID        string
	AppName   string
	UserID    string
	CreatedAt time.Time
	Memory    memory.Provider
}

type sessionKey struct {
	app, user, id string
}

// InMemorySessionService stores sessions in process memory. It is safe for
// concurrent use.
type InMemorySessionService struct {
	mu       sync.RWMutex
	sessions map[sessionKey]*Session
	now      func() time.Time
}

// NewInMemorySessionService returns an empty session store.
func NewInMemorySessionService() *InMemorySessionService {
	return &InMemorySessionService{
		sessions: make(map[sessionKey]*Session),
		now:      time.Now,
	}
}

// CreateSession starts a session with an empty history. An empty id is
// replaced by a random UUID.
func (s *InMemorySessionService) CreateSession(ctx context.Context, appName, userID, sessionID string) (*Session, error) {
	if appName == "" || userID == "" {
		return nil, errors.New("session: app name and user ID are required")
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	key := sessionKey{appName, userID, sessionID}

	s.mu.Lock()
	if _, ok := s.sessions[key]; ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s/%s/%s", ErrSessionExists, appName, userID, sessionID)
	}
	session := &Session{
		ID:        sessionID,
		AppName:   appName,
		UserID:    userID,
		CreatedAt: s.now(),
		Memory:    inmemory.New(),
	}
	s.sessions[key] = session
	s.mu.Unlock()

	if observer := observability.ObserverFromContext(ctx); observer != nil {
		observer.Debug(ctx, "session created",
			observability.String(observability.AttrAppName, appName),
			observability.String(observability.AttrUserID, userID),
			observability.String(observability.AttrSessionID, sessionID),
		)
	}
	return session, nil
}

// GetSession returns the session or an error wrapping [ErrSessionNotFound].
func (s *InMemorySessionService) GetSession(_ context.Context, appName, userID, sessionID string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[sessionKey{appName, userID, sessionID}]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s/%s", ErrSessionNotFound, appName, userID, sessionID)
	}
	return session, nil
}

// ListSessions returns the user's sessions for appName, oldest first.
func (s *InMemorySessionService) ListSessions(_ context.Context, appName, userID string) []*Session {
	s.mu.RLock()
	var out []*Session
	for key, session := range s.sessions {
		if key.app == appName && key.user == userID {
			out = append(out, session)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// DeleteSession removes the session and its history.
func (s *InMemorySessionService) DeleteSession(ctx context.Context, appName, userID, sessionID string) error {
	key := sessionKey{appName, userID, sessionID}

	s.mu.Lock()
	session, ok := s.sessions[key]
	delete(s.sessions, key)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s/%s/%s", ErrSessionNotFound, appName, userID, sessionID)
	}
	session.Memory.ClearMessages(ctx)
	return nil
}
