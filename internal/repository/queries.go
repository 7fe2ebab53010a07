package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

type Operator struct {
	ID              int64
	TelegramID      int64
	FirstName       string
	Username        string
	IsAdmin         bool
	DefaultLimit    int32
	LastInteraction pgtype.Timestamptz
	CreatedAt       pgtype.Timestamptz
	UpdatedAt       pgtype.Timestamptz
}

type AuditEvent struct {
	ID         int64
	OperatorID *int64
	Action     string
	Phone      string
	TurnTs     string
	CallSid    string
	Detail     string
	CreatedAt  pgtype.Timestamptz
}

const operatorColumns = `id, telegram_id, first_name, username, is_admin, default_limit, last_interaction, created_at, updated_at`

func scanOperator(row pgx.Row) (Operator, error) {
	var i Operator
	err := row.Scan(
		&i.ID,
		&i.TelegramID,
		&i.FirstName,
		&i.Username,
		&i.IsAdmin,
		&i.DefaultLimit,
		&i.LastInteraction,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getOperatorByTelegramID = `SELECT ` + operatorColumns + ` FROM operators WHERE telegram_id = $1`

func (q *Queries) GetOperatorByTelegramID(ctx context.Context, telegramID int64) (Operator, error) {
	return scanOperator(q.db.QueryRow(ctx, getOperatorByTelegramID, telegramID))
}

const upsertOperator = `
INSERT INTO operators (telegram_id, first_name, username, is_admin)
VALUES ($1, $2, $3, $4)
ON CONFLICT (telegram_id) DO UPDATE
SET first_name = EXCLUDED.first_name,
    username = EXCLUDED.username,
    is_admin = EXCLUDED.is_admin,
    last_interaction = NOW(),
    updated_at = NOW()
RETURNING ` + operatorColumns

type UpsertOperatorParams struct {
	TelegramID int64
	FirstName  string
	Username   string
	IsAdmin    bool
}

func (q *Queries) UpsertOperator(ctx context.Context, arg UpsertOperatorParams) (Operator, error) {
	return scanOperator(q.db.QueryRow(ctx, upsertOperator, arg.TelegramID, arg.FirstName, arg.Username, arg.IsAdmin))
}

const updateOperatorDefaultLimit = `UPDATE operators SET default_limit = $2, updated_at = NOW() WHERE id = $1`

type UpdateOperatorDefaultLimitParams struct {
	ID           int64
	DefaultLimit int32
}

func (q *Queries) UpdateOperatorDefaultLimit(ctx context.Context, arg UpdateOperatorDefaultLimitParams) error {
	_, err := q.db.Exec(ctx, updateOperatorDefaultLimit, arg.ID, arg.DefaultLimit)
	return err
}

const createAuditEvent = `
INSERT INTO audit_events (operator_id, action, phone, turn_ts, call_sid, detail)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, operator_id, action, phone, turn_ts, call_sid, detail, created_at`

type CreateAuditEventParams struct {
	OperatorID *int64
	Action     string
	Phone      string
	TurnTs     string
	CallSid    string
	Detail     string
}

func (q *Queries) CreateAuditEvent(ctx context.Context, arg CreateAuditEventParams) (AuditEvent, error) {
	row := q.db.QueryRow(ctx, createAuditEvent,
		arg.OperatorID,
		arg.Action,
		arg.Phone,
		arg.TurnTs,
		arg.CallSid,
		arg.Detail,
	)
	var i AuditEvent
	err := row.Scan(
		&i.ID,
		&i.OperatorID,
		&i.Action,
		&i.Phone,
		&i.TurnTs,
		&i.CallSid,
		&i.Detail,
		&i.CreatedAt,
	)
	return i, err
}

const listAuditEvents = `
SELECT id, operator_id, action, phone, turn_ts, call_sid, detail, created_at
FROM audit_events
ORDER BY created_at DESC, id DESC
LIMIT $1`

func (q *Queries) ListAuditEvents(ctx context.Context, limit int32) ([]AuditEvent, error) {
	rows, err := q.db.Query(ctx, listAuditEvents, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []AuditEvent
	for rows.Next() {
		var i AuditEvent
		if err := rows.Scan(
			&i.ID,
			&i.OperatorID,
			&i.Action,
			&i.Phone,
			&i.TurnTs,
			&i.CallSid,
			&i.Detail,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const checkAndIncrementRateLimit = `
INSERT INTO rate_limits (chat_id, window_start, count)
VALUES ($1, NOW(), 1)
ON CONFLICT (chat_id) DO UPDATE
SET count = CASE
        WHEN rate_limits.window_start < NOW() - INTERVAL '1 minute' THEN 1
        ELSE rate_limits.count + 1
    END,
    window_start = CASE
        WHEN rate_limits.window_start < NOW() - INTERVAL '1 minute' THEN NOW()
        ELSE rate_limits.window_start
    END
RETURNING count`

func (q *Queries) CheckAndIncrementRateLimit(ctx context.Context, chatID int64) (int32, error) {
	var count int32
	err := q.db.QueryRow(ctx, checkAndIncrementRateLimit, chatID).Scan(&count)
	return count, err
}

const cleanupRateLimits = `DELETE FROM rate_limits WHERE window_start < NOW() - INTERVAL '10 minutes'`

func (q *Queries) CleanupRateLimits(ctx context.Context) error {
	_, err := q.db.Exec(ctx, cleanupRateLimits)
	return err
}
