package gormstore

import (
	"context"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"
)

func (s *Store) LogAudit(ctx context.Context, e model.AuditEntry) (repository.Outcome, error) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if e.Status == "" {
		e.Status = model.AuditStatusSuccess
	}
	return repository.OutcomeOK, s.db.WithContext(ctx).Create(&e).Error
}

func (s *Store) GetAuditLogs(ctx context.Context, q repository.AuditQuery) ([]model.AuditEntry, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 1000
	}

	tx := s.db.WithContext(ctx).Model(&model.AuditEntry{})
	if q.UserID != nil {
		tx = tx.Where("user_id = ?", *q.UserID)
	}

	var entries []model.AuditEntry
	if err := tx.Order("id asc").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
