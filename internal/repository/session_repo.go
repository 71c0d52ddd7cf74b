package repository

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"go.uber.org/zap"

	"MCQ-Quiz-Generator/internal/quiz"
)

var ErrSessionNotFound = errors.New("session not found")

type sessionEntry struct {
	session  quiz.Session
	lastUsed time.Time
}

// SessionRepository keeps quiz sessions in memory, keyed by session ID.
type SessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	now      func() time.Time
	log      *zap.Logger
}

func NewSessionRepository(log *zap.Logger) *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*sessionEntry),
		now:      time.Now,
		log:      log,
	}
}

// Create registers an empty session and returns its ID.
func (r *SessionRepository) Create() string {
	id := uuid.NewV4().String()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = &sessionEntry{lastUsed: r.now()}
	r.log.Debug("session created", zap.String("session_id", id), zap.Int("active", len(r.sessions)))
	return id
}

// With runs fn against the session under the repository lock. fn must not
// retain the pointer.
func (r *SessionRepository) With(id string, fn func(s *quiz.Session) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	entry.lastUsed = r.now()
	return fn(&entry.session)
}

func (r *SessionRepository) Exists(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	return ok
}

// Delete removes the session and reports whether it existed.
func (r *SessionRepository) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Len is the number of live sessions.
func (r *SessionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Prune drops sessions that have not been used for longer than maxIdle.
func (r *SessionRepository) Prune(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxIdle)
	removed := 0
	for id, entry := range r.sessions {
		if entry.lastUsed.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		r.log.Info("idle sessions pruned", zap.Int("removed", removed), zap.Int("remaining", len(r.sessions)))
	}
	return removed
}

// RunPruner calls Prune every interval until ctx is done.
func (r *SessionRepository) RunPruner(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Prune(maxIdle)
		}
	}
}
