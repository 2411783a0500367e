package repository

import (
	"context"

	"app/internal/domain/model"
)

// 同意の記録は追記型。取得は時系列順で返し、最後のものが現在値。
type ConsentStore interface {
	SaveConsent(ctx context.Context, c model.Consent) (int64, Outcome, error)
	GetUserConsents(ctx context.Context, userID int64) ([]model.Consent, error)
}
