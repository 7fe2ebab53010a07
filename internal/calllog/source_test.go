package calllog

import (
	"context"
	"errors"
	"sync"

	"github.com/set-night/calldesk/internal/domain"
	"github.com/set-night/calldesk/internal/service"
)

// fakeSource serves canned data and records every request.
type fakeSource struct {
	mu sync.Mutex

	phones    []string
	latest    map[string]string
	failPhone map[string]bool
	pages     map[string]*domain.TurnPage // keyed by next token, "" is the first page
	listErr   error
	logs      []domain.LogEvent
	recs      []domain.RecordingRef
	deleted   int

	turnQueries    []service.TurnQuery
	logQueries     []service.LogQuery
	recordingCalls int
	deletedTurns   [][2]string
	deletedCalls   []string
}

func (f *fakeSource) ListPhones(context.Context) ([]string, error) {
	return f.phones, nil
}

func (f *fakeSource) ListTurns(_ context.Context, q service.TurnQuery) (*domain.TurnPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.turnQueries = append(f.turnQueries, q)

	if q.Limit == 1 && q.Order == "desc" {
		if f.failPhone[q.Phone] {
			return nil, errors.New("boom")
		}
		ts, ok := f.latest[q.Phone]
		if !ok {
			return &domain.TurnPage{}, nil
		}
		return &domain.TurnPage{Turns: []domain.Turn{{Timestamp: ts, PhoneNumber: q.Phone}}}, nil
	}

	if f.listErr != nil {
		return nil, f.listErr
	}
	page, ok := f.pages[q.NextToken]
	if !ok {
		return &domain.TurnPage{}, nil
	}
	return page, nil
}

func (f *fakeSource) DeleteTurn(_ context.Context, phone, ts string) error {
	f.deletedTurns = append(f.deletedTurns, [2]string{phone, ts})
	return nil
}

func (f *fakeSource) DeleteSession(_ context.Context, callSID string) (int, error) {
	f.deletedCalls = append(f.deletedCalls, callSID)
	return f.deleted, nil
}

func (f *fakeSource) ListRecordings(context.Context, string) ([]domain.RecordingRef, error) {
	f.recordingCalls++
	return f.recs, nil
}

func (f *fakeSource) FetchLogs(_ context.Context, q service.LogQuery) ([]domain.LogEvent, error) {
	f.logQueries = append(f.logQueries, q)
	return f.logs, nil
}

// blockingSource holds every turn listing until release is closed.
type blockingSource struct {
	*fakeSource
	started chan struct{}
	release chan struct{}
}

func newBlockingSource(f *fakeSource) *blockingSource {
	return &blockingSource{fakeSource: f, started: make(chan struct{}, 1), release: make(chan struct{})}
}

func (b *blockingSource) ListTurns(ctx context.Context, q service.TurnQuery) (*domain.TurnPage, error) {
	select {
	case b.started <- struct{}{}:
	default:
	}
	<-b.release
	return b.fakeSource.ListTurns(ctx, q)
}
