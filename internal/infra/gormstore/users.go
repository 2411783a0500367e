package gormstore

import (
	"context"
	"errors"

	"app/internal/domain/model"
	"app/internal/repository"

	"gorm.io/gorm"
)

func (s *Store) GetAllUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).Order("id asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, repository.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).Where("lower(email) = lower(?)", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, repository.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, u model.User) (int64, repository.Outcome, error) {
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		if isUniqueViolation(err) {
			return 0, repository.OutcomeOK, repository.ErrDuplicateEmail
		}
		return 0, repository.OutcomeOK, err
	}
	return u.ID, repository.OutcomeOK, nil
}

func (s *Store) UpdateUser(ctx context.Context, u model.User) (repository.Outcome, error) {
	res := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", u.ID).Updates(map[string]interface{}{
		"name":              u.Name,
		"email":             u.Email,
		"password":          u.PasswordHash,
		"role":              u.Role,
		"privacy_accept":    u.PrivacyAccept,
		"marketing_consent": u.MarketingConsent,
		"analytics_consent": u.AnalyticsConsent,
	})
	if res.Error != nil {
		return repository.OutcomeOK, res.Error
	}
	if res.RowsAffected == 0 {
		return repository.OutcomeOK, repository.ErrUserNotFound
	}
	return repository.OutcomeOK, nil
}
