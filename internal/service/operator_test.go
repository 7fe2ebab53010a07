package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/set-night/calldesk/internal/domain"
	"github.com/set-night/calldesk/internal/repository"
)

type memQueries struct {
	operators map[int64]repository.Operator
	limits    map[int64]int32
	events    []repository.AuditEvent
}

func newMemQueries() *memQueries {
	return &memQueries{operators: map[int64]repository.Operator{}, limits: map[int64]int32{}}
}

func (m *memQueries) GetOperatorByTelegramID(_ context.Context, id int64) (repository.Operator, error) {
	op, ok := m.operators[id]
	if !ok {
		return repository.Operator{}, pgx.ErrNoRows
	}
	return op, nil
}

func (m *memQueries) UpsertOperator(_ context.Context, arg repository.UpsertOperatorParams) (repository.Operator, error) {
	op, ok := m.operators[arg.TelegramID]
	if !ok {
		op = repository.Operator{ID: int64(len(m.operators) + 1), TelegramID: arg.TelegramID, DefaultLimit: 50}
	}
	op.FirstName, op.Username, op.IsAdmin = arg.FirstName, arg.Username, arg.IsAdmin
	op.LastInteraction = pgtype.Timestamptz{Time: time.Unix(100, 0), Valid: true}
	m.operators[arg.TelegramID] = op
	return op, nil
}

func (m *memQueries) UpdateOperatorDefaultLimit(_ context.Context, arg repository.UpdateOperatorDefaultLimitParams) error {
	m.limits[arg.ID] = arg.DefaultLimit
	return nil
}

func (m *memQueries) CreateAuditEvent(_ context.Context, arg repository.CreateAuditEventParams) (repository.AuditEvent, error) {
	ev := repository.AuditEvent{
		ID:         int64(len(m.events) + 1),
		OperatorID: arg.OperatorID,
		Action:     arg.Action,
		Phone:      arg.Phone,
		TurnTs:     arg.TurnTs,
		CallSid:    arg.CallSid,
		Detail:     arg.Detail,
	}
	m.events = append(m.events, ev)
	return ev, nil
}

func (m *memQueries) ListAuditEvents(_ context.Context, limit int32) ([]repository.AuditEvent, error) {
	out := make([]repository.AuditEvent, 0, limit)
	for i := len(m.events) - 1; i >= 0 && len(out) < int(limit); i-- {
		out = append(out, m.events[i])
	}
	return out, nil
}

func TestOperatorService(t *testing.T) {
	q := newMemQueries()
	s := NewOperatorService(q)
	ctx := context.Background()

	_, err := s.GetByTelegramID(ctx, 10)
	assert.ErrorIs(t, err, domain.ErrOperatorNotFound)

	op, err := s.Touch(ctx, 10, "Ann", "ann", true)
	require.NoError(t, err)
	assert.Equal(t, "@ann", op.DisplayName())
	assert.Equal(t, 50, op.DefaultLimit)
	assert.True(t, op.IsAdmin)

	got, err := s.GetByTelegramID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, op.ID, got.ID)

	limit, err := s.SetDefaultLimit(ctx, op.ID, 5000)
	require.NoError(t, err)
	assert.Equal(t, 1000, limit)
	assert.Equal(t, int32(1000), q.limits[op.ID])
}

func TestAuditService(t *testing.T) {
	q := newMemQueries()
	s := NewAuditService(q)
	ctx := context.Background()

	_, err := s.Record(ctx, domain.AuditEvent{Action: domain.AuditDeleteTurn, Phone: "+1", TurnTS: "ts"})
	require.NoError(t, err)
	assert.Nil(t, q.events[0].OperatorID)

	_, err = s.Record(ctx, domain.AuditEvent{OperatorID: 3, Action: domain.AuditDeleteSession, CallSID: "CA1"})
	require.NoError(t, err)

	events, err := s.Latest(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.AuditDeleteSession, events[0].Action)
	assert.Equal(t, int64(3), events[0].OperatorID)
	assert.Equal(t, int64(0), events[1].OperatorID)
}
