package csvstore

import (
	"context"
	"strings"

	"app/internal/domain/model"
	"app/internal/repository"
)

func decodeUser(row map[string]string) model.User {
	role := model.Role(strings.TrimSpace(row["role"]))
	if role == "" {
		role = model.RoleUser
	}
	return model.User{
		ID:               parseInt(row["id"]),
		Name:             row["name"],
		Email:            row["email"],
		PasswordHash:     row["password"],
		Role:             role,
		PrivacyAccept:    parseBool(row["privacy_accept"]),
		MarketingConsent: parseBool(row["marketing_consent"]),
		AnalyticsConsent: parseBool(row["analytics_consent"]),
		CreatedAt:        parseTime(row["created_at"]),
	}
}

func encodeUser(u model.User) map[string]string {
	return map[string]string{
		"id":                formatID(u.ID),
		"name":              u.Name,
		"email":             u.Email,
		"password":          u.PasswordHash,
		"role":              string(u.Role),
		"privacy_accept":    formatBool(u.PrivacyAccept),
		"marketing_consent": formatBool(u.MarketingConsent),
		"analytics_consent": formatBool(u.AnalyticsConsent),
		"created_at":        formatTime(u.CreatedAt),
	}
}

func (s *Store) GetAllUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.readLocked(usersFile)
	if err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, decodeUser(row))
	}
	return users, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	rows, err := s.readLocked(usersFile)
	if err != nil {
		return model.User{}, err
	}
	for _, row := range rows {
		if parseInt(row["id"]) == id {
			return decodeUser(row), nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	rows, err := s.readLocked(usersFile)
	if err != nil {
		return model.User{}, err
	}
	for _, row := range rows {
		if strings.EqualFold(row["email"], email) {
			return decodeUser(row), nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (s *Store) CreateUser(ctx context.Context, u model.User) (int64, repository.Outcome, error) {
	var id int64
	err := s.mutate(usersFile, func(rows []map[string]string) ([]map[string]string, error) {
		for _, row := range rows {
			if strings.EqualFold(row["email"], u.Email) {
				return nil, repository.ErrDuplicateEmail
			}
		}
		if u.ID == 0 {
			u.ID = nextID(rows)
		}
		id = u.ID
		return append(rows, encodeUser(u)), nil
	})
	if err != nil {
		return 0, repository.OutcomeOK, err
	}
	return id, repository.OutcomeOK, nil
}

func (s *Store) UpdateUser(ctx context.Context, u model.User) (repository.Outcome, error) {
	err := s.mutate(usersFile, func(rows []map[string]string) ([]map[string]string, error) {
		for i, row := range rows {
			if parseInt(row["id"]) == u.ID {
				rows[i] = encodeUser(u)
				return rows, nil
			}
		}
		return nil, repository.ErrUserNotFound
	})
	return repository.OutcomeOK, err
}
