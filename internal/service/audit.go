package service

import (
	"context"
	"fmt"

	"github.com/set-night/calldesk/internal/domain"
	"github.com/set-night/calldesk/internal/repository"
)

type auditQueries interface {
	CreateAuditEvent(ctx context.Context, arg repository.CreateAuditEventParams) (repository.AuditEvent, error)
	ListAuditEvents(ctx context.Context, limit int32) ([]repository.AuditEvent, error)
}

// AuditService keeps the trail of destructive and content-changing actions.
type AuditService struct {
	queries auditQueries
}

func NewAuditService(queries auditQueries) *AuditService {
	return &AuditService{queries: queries}
}

func (s *AuditService) Record(ctx context.Context, ev domain.AuditEvent) (*domain.AuditEvent, error) {
	row, err := s.queries.CreateAuditEvent(ctx, repository.CreateAuditEventParams{
		OperatorID: nonZeroInt64Ptr(ev.OperatorID),
		Action:     string(ev.Action),
		Phone:      ev.Phone,
		TurnTs:     ev.TurnTS,
		CallSid:    ev.CallSID,
		Detail:     ev.Detail,
	})
	if err != nil {
		return nil, fmt.Errorf("create audit event: %w", err)
	}
	return rowToAuditEvent(row), nil
}

func (s *AuditService) Latest(ctx context.Context, n int) ([]domain.AuditEvent, error) {
	rows, err := s.queries.ListAuditEvents(ctx, int32(n))
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	events := make([]domain.AuditEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, *rowToAuditEvent(row))
	}
	return events, nil
}

func rowToAuditEvent(row repository.AuditEvent) *domain.AuditEvent {
	return &domain.AuditEvent{
		ID:         row.ID,
		OperatorID: int64PtrValue(row.OperatorID),
		Action:     domain.AuditAction(row.Action),
		Phone:      row.Phone,
		TurnTS:     row.TurnTs,
		CallSID:    row.CallSid,
		Detail:     row.Detail,
		CreatedAt:  pgTimestamptzToTime(row.CreatedAt),
	}
}
