package repository

import (
	"context"

	"app/internal/domain/model"
)

// DSGVO対応の操作。
type PrivacyStore interface {
	//プロフィール（パスワード抜き）・注文・同意・監査ログの束を返す
	ExportUserData(ctx context.Context, userID int64) (model.UserExport, error)

	//ユーザー本体、その注文、同意、監査ログを全部消す
	EraseUser(ctx context.Context, userID int64) (Outcome, error)
}
