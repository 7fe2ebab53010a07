package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/set-night/calldesk/internal/config"
	"github.com/set-night/calldesk/internal/domain"
	"github.com/set-night/calldesk/internal/repository"
)

type operatorQueries interface {
	GetOperatorByTelegramID(ctx context.Context, telegramID int64) (repository.Operator, error)
	UpsertOperator(ctx context.Context, arg repository.UpsertOperatorParams) (repository.Operator, error)
	UpdateOperatorDefaultLimit(ctx context.Context, arg repository.UpdateOperatorDefaultLimitParams) error
}

type OperatorService struct {
	queries operatorQueries
}

func NewOperatorService(queries operatorQueries) *OperatorService {
	return &OperatorService{queries: queries}
}

// Touch records an interaction, creating the operator on first contact and
// refreshing the profile fields Telegram reports.
func (s *OperatorService) Touch(ctx context.Context, telegramID int64, firstName, username string, isAdmin bool) (*domain.Operator, error) {
	row, err := s.queries.UpsertOperator(ctx, repository.UpsertOperatorParams{
		TelegramID: telegramID,
		FirstName:  firstName,
		Username:   username,
		IsAdmin:    isAdmin,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert operator: %w", err)
	}
	return rowToOperator(row), nil
}

func (s *OperatorService) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.Operator, error) {
	row, err := s.queries.GetOperatorByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOperatorNotFound
		}
		return nil, fmt.Errorf("get operator: %w", err)
	}
	return rowToOperator(row), nil
}

// SetDefaultLimit stores the operator's preferred fetch limit after clamping
// it and returns the stored value.
func (s *OperatorService) SetDefaultLimit(ctx context.Context, operatorID int64, limit int) (int, error) {
	limit = config.ClampLimit(limit)
	err := s.queries.UpdateOperatorDefaultLimit(ctx, repository.UpdateOperatorDefaultLimitParams{
		ID:           operatorID,
		DefaultLimit: int32(limit),
	})
	if err != nil {
		return 0, fmt.Errorf("update default limit: %w", err)
	}
	return limit, nil
}

func rowToOperator(row repository.Operator) *domain.Operator {
	return &domain.Operator{
		ID:              row.ID,
		TelegramID:      row.TelegramID,
		IsAdmin:         row.IsAdmin,
		FirstName:       row.FirstName,
		Username:        row.Username,
		DefaultLimit:    int(row.DefaultLimit),
		LastInteraction: pgTimestamptzToTime(row.LastInteraction),
		CreatedAt:       pgTimestamptzToTime(row.CreatedAt),
		UpdatedAt:       pgTimestamptzToTime(row.UpdatedAt),
	}
}
