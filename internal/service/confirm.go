package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/set-night/calldesk/internal/domain"
)

type ConfirmKind string

const (
	ConfirmDeleteTurn    ConfirmKind = "turn"
	ConfirmDeleteSession ConfirmKind = "session"
	ConfirmDeleteFAQ     ConfirmKind = "faq"
	ConfirmDeleteTask    ConfirmKind = "task"
)

// PendingAction is a destructive action waiting for the operator to confirm.
type PendingAction struct {
	Kind       ConfirmKind
	ChatID     int64
	Phone      string
	TurnTS     string
	CallSID    string
	SessionKey string
	Name       string // FAQ question or task name
	createdAt  time.Time
}

// ConfirmStore keeps pending actions under short-lived random tokens so
// callback data stays within Telegram's 64-byte limit.
type ConfirmStore struct {
	mu      sync.Mutex
	pending map[string]PendingAction
	ttl     time.Duration
	now     func() time.Time
}

func NewConfirmStore(ttl time.Duration) *ConfirmStore {
	return &ConfirmStore{
		pending: make(map[string]PendingAction),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put stores a and returns its token. Expired entries are swept on the way.
func (s *ConfirmStore) Put(a PendingAction) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for token, p := range s.pending {
		if now.Sub(p.createdAt) > s.ttl {
			delete(s.pending, token)
		}
	}

	token := uuid.NewString()
	a.createdAt = now
	s.pending[token] = a
	return token
}

// Take removes and returns the action for token. Unknown and expired tokens
// fail. A token presented from another chat fails and stays pending.
func (s *ConfirmStore) Take(token string, chatID int64) (PendingAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.pending[token]
	if !ok || a.ChatID != chatID {
		return PendingAction{}, domain.ErrConfirmationExpired
	}
	delete(s.pending, token)
	if s.now().Sub(a.createdAt) > s.ttl {
		return PendingAction{}, domain.ErrConfirmationExpired
	}
	return a, nil
}

func (s *ConfirmStore) Drop(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, token)
}
