// Package services holds the stateful collaborators of the assessment flow:
// the session store and the flow controller. Both are constructed once per
// active patient identity and passed by reference; there is no ambient
// global session state.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/cmas/internal/assessment/domain"
)

// SessionStore owns the live assessment session and writes it through to
// the durable slot on every mutation. The in-memory session stays
// authoritative: a failed write is surfaced as a wrapped
// domain.ErrPersistence warning, never rolled back.
type SessionStore struct {
	repo    domain.SessionRepository
	logger  *slog.Logger
	session *domain.Session
}

// NewSessionStore creates a store around a fresh empty session.
func NewSessionStore(repo domain.SessionRepository, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		repo:    repo,
		logger:  logger,
		session: domain.NewSession(),
	}
}

// Load recovers a previously persisted session. A missing, corrupt, or
// unreadable record is logged and treated as "no prior session"; the store
// keeps its empty session and the call never fails.
func (s *SessionStore) Load(ctx context.Context) {
	session, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Warn("could not recover persisted session, starting fresh", "error", err)
		return
	}
	if session == nil {
		return
	}
	s.session = session
	s.logger.Debug("session recovered",
		"session_id", session.ID(),
		"username", session.Username(),
		"total", session.Total(),
		"attempted", session.Attempted(),
	)
}

// Current returns the live session.
func (s *SessionStore) Current() *domain.Session {
	return s.session
}

// SetScore upserts a task score and persists the session. The returned
// TaskScore is valid even when the persistence warning is non-nil.
func (s *SessionStore) SetScore(ctx context.Context, taskID, score, maxPoints int) (domain.TaskScore, error) {
	recorded, err := s.session.SetScore(taskID, score, maxPoints)
	if err != nil {
		return domain.TaskScore{}, err
	}
	return recorded, s.persist(ctx)
}

// Clear wipes the scores and removes the durable record. The username is
// kept, in memory and on the next persisted write.
func (s *SessionStore) Clear(ctx context.Context) error {
	s.session.Clear()
	if err := s.repo.Delete(ctx); err != nil {
		s.logger.Warn("failed to remove persisted session", "error", err)
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	s.session.ClearDomainEvents()
	return nil
}

// SetUsername updates the patient identity and persists the session.
func (s *SessionStore) SetUsername(ctx context.Context, name string) error {
	s.session.SetUsername(name)
	return s.persist(ctx)
}

func (s *SessionStore) persist(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.session); err != nil {
		s.logger.Warn("failed to persist session, in-memory state remains authoritative", "error", err)
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	// Score and clear events are local working state; drop them once the
	// session is durable.
	s.session.ClearDomainEvents()
	return nil
}
