package gormstore

import (
	"context"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"
)

func (s *Store) SaveConsent(ctx context.Context, c model.Consent) (int64, repository.Outcome, error) {
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return 0, repository.OutcomeOK, err
	}
	return c.ID, repository.OutcomeOK, nil
}

func (s *Store) GetUserConsents(ctx context.Context, userID int64) ([]model.Consent, error) {
	var consents []model.Consent
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&consents).Error
	if err != nil {
		return nil, err
	}
	return consents, nil
}
