package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// DSGVO系の操作（同意の更新、エクスポート、完全消去）。
type PrivacyUsecase struct {
	store repository.Store
	log   zerolog.Logger
}

// DI
func NewPrivacyUsecase(store repository.Store, log zerolog.Logger) *PrivacyUsecase {
	return &PrivacyUsecase{
		store: store,
		log:   log.With().Str("component", "privacy").Logger(),
	}
}

type ConsentInput struct {
	ConsentType model.ConsentType `json:"consent_type"`
	Value       bool              `json:"value"`
}

var consentTypes = map[model.ConsentType]bool{
	model.ConsentPrivacyPolicy: true,
	model.ConsentMarketing:     true,
	model.ConsentAnalytics:     true,
	model.ConsentCookie:        true,
}

// UpdateConsent は履歴に追記し、ユーザーの現在値フラグも合わせる。
func (u *PrivacyUsecase) UpdateConsent(ctx context.Context, userID int64, in ConsentInput, ip string) ([]model.Consent, error) {
	if !consentTypes[in.ConsentType] {
		return nil, NewHTTPError(http.StatusBadRequest, "unknown consent type")
	}

	user, err := u.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusNotFound, "user not found")
	}

	if _, _, err := u.store.SaveConsent(ctx, model.Consent{
		UserID:      userID,
		ConsentType: in.ConsentType,
		Value:       in.Value,
		Timestamp:   time.Now(),
	}); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "store error")
	}

	switch in.ConsentType {
	case model.ConsentPrivacyPolicy:
		user.PrivacyAccept = in.Value
	case model.ConsentMarketing:
		user.MarketingConsent = in.Value
	case model.ConsentAnalytics:
		user.AnalyticsConsent = in.Value
	}
	if _, err := u.store.UpdateUser(ctx, user); err != nil {
		u.log.Error().Err(err).Int64("user_id", userID).Msg("consent flag update failed")
	}

	event := model.AuditConsentGiven
	if !in.Value {
		event = model.AuditConsentRevoked
	}
	if in.ConsentType == model.ConsentCookie {
		event = model.AuditCookieConsent
	}
	u.audit(ctx, model.AuditEntry{
		EventType: event,
		UserID:    &userID,
		UserEmail: user.Email,
		Action:    "consent updated",
		Details:   map[string]any{"consent_type": string(in.ConsentType), "value": in.Value},
		IPAddress: ip,
	})

	consents, err := u.store.GetUserConsents(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "store error")
	}
	return consents, nil
}

func (u *PrivacyUsecase) Export(ctx context.Context, userID int64, ip string) (model.UserExport, error) {
	export, err := u.store.ExportUserData(ctx, userID)
	if err == repository.ErrUserNotFound {
		return model.UserExport{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return model.UserExport{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}

	u.audit(ctx, model.AuditEntry{
		EventType: model.AuditUserDataExport,
		UserID:    &userID,
		UserEmail: export.Profile.Email,
		Action:    "user data exported",
		IPAddress: ip,
	})
	return export, nil
}

// Erase はユーザーと従属データを消す。消去の監査エントリは
// 本人に紐付けられないのでuser_idなしで残す。
func (u *PrivacyUsecase) Erase(ctx context.Context, userID int64, ip string) error {
	if _, err := u.store.GetUserByID(ctx, userID); err != nil {
		return NewHTTPError(http.StatusNotFound, "user not found")
	}

	if _, err := u.store.EraseUser(ctx, userID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "store error")
	}

	u.audit(ctx, model.AuditEntry{
		EventType: model.AuditUserDataDeleted,
		Action:    "user data erased",
		Details:   map[string]any{"erased_user_id": userID},
		IPAddress: ip,
	})
	return nil
}

func (u *PrivacyUsecase) audit(ctx context.Context, e model.AuditEntry) {
	if _, err := u.store.LogAudit(ctx, e); err != nil {
		u.log.Error().Err(err).Str("event", string(e.EventType)).Msg("audit write failed")
	}
}
