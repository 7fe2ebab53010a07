package handler

import (
	"sync"

	"github.com/set-night/calldesk/internal/calllog"
	"github.com/set-night/calldesk/internal/domain"
)

// chatState is everything the console remembers about one chat. Button
// callbacks carry indexes into the ref slices of the last rendered screen,
// which keeps callback data short.
type chatState struct {
	viewer *calllog.Viewer
	filter *calllog.Debouncer[string]

	mu             sync.Mutex
	phoneRefs      []string
	sessionRefs    []string
	openSession    string
	turnRefs       []domain.Turn
	recordingRefs  []domain.RecordingRef
	faqRefs        []string
	taskRefs       []string
	faqPage        int
	taskPage       int
	awaitingFilter bool
}

func (s *chatState) with(fn func(s *chatState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

type states struct {
	mu        sync.Mutex
	byChat    map[int64]*chatState
	newViewer func(limit int) *calllog.Viewer
}

func newStates(newViewer func(limit int) *calllog.Viewer) *states {
	return &states{byChat: make(map[int64]*chatState), newViewer: newViewer}
}

// get returns the state of chatID, creating it with the operator's default
// fetch limit on first use.
func (s *states) get(chatID int64, op *domain.Operator) *chatState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.byChat[chatID]
	if ok {
		return st
	}
	limit := 0
	if op != nil {
		limit = op.DefaultLimit
	}
	st = &chatState{viewer: s.newViewer(limit), faqPage: 1, taskPage: 1}
	s.byChat[chatID] = st
	return st
}

func ref[T any](refs []T, i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(refs) {
		return zero, false
	}
	return refs[i], true
}
