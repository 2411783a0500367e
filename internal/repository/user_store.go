package repository

import (
	"context"

	"app/internal/domain/model"
)

// ユーザーの保存・取得を約束
type UserStore interface {
	GetAllUsers(ctx context.Context) ([]model.User, error)

	// 見つからなければErrUserNotFound
	GetUserByID(ctx context.Context, id int64) (model.User, error)

	//メールは大文字小文字を区別しない
	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	//IDが0なら採番する。採番済みIDを渡されたらそれを使う（ミラー書き込み用）。
	CreateUser(ctx context.Context, u model.User) (int64, Outcome, error)

	UpdateUser(ctx context.Context, u model.User) (Outcome, error)
}
