package domain

import "time"

type AuditAction string

const (
	AuditDeleteTurn    AuditAction = "delete_turn"
	AuditDeleteSession AuditAction = "delete_session"
	AuditUpdatePrompt  AuditAction = "update_prompt"
	AuditCreateFAQ     AuditAction = "create_faq"
	AuditUpdateFAQ     AuditAction = "update_faq"
	AuditDeleteFAQ     AuditAction = "delete_faq"
	AuditDeleteTask    AuditAction = "delete_task"
)

type AuditEvent struct {
	ID         int64
	OperatorID int64
	Action     AuditAction
	Phone      string
	TurnTS     string
	CallSID    string
	Detail     string
	CreatedAt  time.Time
}
