package repository

import (
	"context"

	"app/internal/domain/model"
)

// 監査ログの絞り込み条件。
type AuditQuery struct {
	UserID *int64
	Limit  int
}

type AuditStore interface {
	//追記のみ
	LogAudit(ctx context.Context, e model.AuditEntry) (Outcome, error)

	GetAuditLogs(ctx context.Context, q AuditQuery) ([]model.AuditEntry, error)
}
