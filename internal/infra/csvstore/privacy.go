package csvstore

import (
	"context"

	"app/internal/domain/model"
	"app/internal/repository"
)

func (s *Store) ExportUserData(ctx context.Context, userID int64) (model.UserExport, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return model.UserExport{}, err
	}
	//パスワードはエクスポートに含めない
	user.PasswordHash = ""

	orders, err := s.GetOrdersByUser(ctx, userID)
	if err != nil {
		return model.UserExport{}, err
	}
	consents, err := s.GetUserConsents(ctx, userID)
	if err != nil {
		return model.UserExport{}, err
	}
	logs, err := s.GetAuditLogs(ctx, repository.AuditQuery{UserID: &userID})
	if err != nil {
		return model.UserExport{}, err
	}

	return model.UserExport{
		Profile:   user,
		Orders:    orders,
		Consents:  consents,
		AuditLogs: logs,
	}, nil
}

// ユーザーとその従属データを全部消す（Art. 17 DSGVO）。
func (s *Store) EraseUser(ctx context.Context, userID int64) (repository.Outcome, error) {
	err := s.mutate(usersFile, func(rows []map[string]string) ([]map[string]string, error) {
		out := rows[:0]
		for _, row := range rows {
			if parseInt(row["id"]) != userID {
				out = append(out, row)
			}
		}
		return out, nil
	})
	if err != nil {
		return repository.OutcomeOK, err
	}

	err = s.mutate(ordersFile, func(rows []map[string]string) ([]map[string]string, error) {
		out := rows[:0]
		for _, row := range rows {
			if id := parseOptionalID(row["user_id"]); id != nil && *id == userID {
				continue
			}
			out = append(out, row)
		}
		return out, nil
	})
	if err != nil {
		return repository.OutcomeOK, err
	}

	err = s.mutate(consentsFile, func(rows []map[string]string) ([]map[string]string, error) {
		out := rows[:0]
		for _, row := range rows {
			if parseInt(row["user_id"]) != userID {
				out = append(out, row)
			}
		}
		return out, nil
	})
	if err != nil {
		return repository.OutcomeOK, err
	}

	return repository.OutcomeOK, s.deleteAuditForUser(userID)
}

var _ repository.Store = (*Store)(nil)
