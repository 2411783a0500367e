package csvstore

import (
	"context"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"
)

func decodeAuditEntry(row map[string]string) model.AuditEntry {
	var details map[string]any
	decodeJSONColumn(row["details"], &details)

	status := model.AuditStatus(row["status"])
	if status == "" {
		status = model.AuditStatusSuccess
	}

	return model.AuditEntry{
		Timestamp:    parseTime(row["timestamp"]),
		EventType:    model.AuditEventType(row["event_type"]),
		UserID:       parseOptionalID(row["user_id"]),
		UserEmail:    row["user_email"],
		Action:       row["action"],
		ResourceType: row["resource_type"],
		ResourceID:   row["resource_id"],
		Details:      details,
		IPAddress:    row["ip_address"],
		Status:       status,
	}
}

func encodeAuditEntry(e model.AuditEntry) map[string]string {
	details := ""
	if len(e.Details) > 0 {
		details = encodeJSONColumn(e.Details)
	}
	return map[string]string{
		"timestamp":     formatTime(e.Timestamp),
		"event_type":    string(e.EventType),
		"user_id":       formatOptionalID(e.UserID),
		"user_email":    e.UserEmail,
		"action":        e.Action,
		"resource_type": e.ResourceType,
		"resource_id":   e.ResourceID,
		"details":       details,
		"ip_address":    e.IPAddress,
		"status":        string(e.Status),
	}
}

// 監査ログは全書き換えではなく追記する。
func (s *Store) LogAudit(ctx context.Context, e model.AuditEntry) (repository.Outcome, error) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if e.Status == "" {
		e.Status = model.AuditStatusSuccess
	}
	return repository.OutcomeOK, s.appendRow(auditFile, encodeAuditEntry(e))
}

func (s *Store) GetAuditLogs(ctx context.Context, q repository.AuditQuery) ([]model.AuditEntry, error) {
	rows, err := s.readLocked(auditFile)
	if err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 1000
	}

	entries := []model.AuditEntry{}
	for _, row := range rows {
		if len(entries) >= limit {
			break
		}
		e := decodeAuditEntry(row)
		if q.UserID != nil {
			if e.UserID == nil || *e.UserID != *q.UserID {
				continue
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// 完全消去の一部としてだけ呼ぶ。
func (s *Store) deleteAuditForUser(userID int64) error {
	return s.mutate(auditFile, func(rows []map[string]string) ([]map[string]string, error) {
		out := rows[:0]
		for _, row := range rows {
			if id := parseOptionalID(row["user_id"]); id != nil && *id == userID {
				continue
			}
			out = append(out, row)
		}
		return out, nil
	})
}
