package gormstore

import (
	"context"

	"app/internal/domain/model"
	"app/internal/repository"

	"gorm.io/gorm"
)

func (s *Store) ExportUserData(ctx context.Context, userID int64) (model.UserExport, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return model.UserExport{}, err
	}
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

// 外部キーがあるので従属行から消す。順番は注文→同意→監査ログ→ユーザー。
func (s *Store) EraseUser(ctx context.Context, userID int64) (repository.Outcome, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.Order{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.Consent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.AuditEntry{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", userID).Delete(&model.User{}).Error
	})
	return repository.OutcomeOK, err
}
