package csvstore

import (
	"context"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"
)

func decodeConsent(row map[string]string) model.Consent {
	return model.Consent{
		ID:          parseInt(row["id"]),
		UserID:      parseInt(row["user_id"]),
		ConsentType: model.ConsentType(row["consent_type"]),
		Value:       parseBool(row["value"]),
		Timestamp:   parseTime(row["timestamp"]),
	}
}

func encodeConsent(c model.Consent) map[string]string {
	return map[string]string{
		"id":           formatID(c.ID),
		"user_id":      formatID(c.UserID),
		"consent_type": string(c.ConsentType),
		"value":        formatBool(c.Value),
		"timestamp":    formatTime(c.Timestamp),
	}
}

func (s *Store) SaveConsent(ctx context.Context, c model.Consent) (int64, repository.Outcome, error) {
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now()
	}

	var id int64
	err := s.mutate(consentsFile, func(rows []map[string]string) ([]map[string]string, error) {
		if c.ID == 0 {
			c.ID = nextID(rows)
		}
		id = c.ID
		return append(rows, encodeConsent(c)), nil
	})
	if err != nil {
		return 0, repository.OutcomeOK, err
	}
	return id, repository.OutcomeOK, nil
}

// 追記順のまま返す。末尾が現在値。
func (s *Store) GetUserConsents(ctx context.Context, userID int64) ([]model.Consent, error) {
	rows, err := s.readLocked(consentsFile)
	if err != nil {
		return nil, err
	}
	consents := []model.Consent{}
	for _, row := range rows {
		if parseInt(row["user_id"]) == userID {
			consents = append(consents, decodeConsent(row))
		}
	}
	return consents, nil
}
