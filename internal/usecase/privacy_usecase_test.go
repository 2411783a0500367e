package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"app/internal/domain/model"
	"app/internal/infra/csvstore"
	"app/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newPrivacyUC(t *testing.T) (*PrivacyUsecase, repository.Store) {
	t.Helper()
	store, err := csvstore.New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return NewPrivacyUsecase(store, zerolog.Nop()), store
}

func seedUser(t *testing.T, store repository.Store) int64 {
	t.Helper()
	id, _, err := store.CreateUser(context.Background(), model.User{
		Name: "Maria", Email: "maria@example.com", PasswordHash: "hash", CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	return id
}

func TestUpdateConsentAppendsHistoryAndAudits(t *testing.T) {
	uc, store := newPrivacyUC(t)
	ctx := context.Background()
	id := seedUser(t, store)

	consents, err := uc.UpdateConsent(ctx, id, ConsentInput{ConsentType: model.ConsentMarketing, Value: true}, "10.0.0.1")
	require.NoError(t, err)
	require.Len(t, consents, 1)

	consents, err = uc.UpdateConsent(ctx, id, ConsentInput{ConsentType: model.ConsentMarketing, Value: false}, "10.0.0.1")
	require.NoError(t, err)
	require.Len(t, consents, 2)
	require.False(t, consents[1].Value)

	//ユーザーの現在値フラグも追従
	u, err := store.GetUserByID(ctx, id)
	require.NoError(t, err)
	require.False(t, u.MarketingConsent)

	logs, err := store.GetAuditLogs(ctx, repository.AuditQuery{UserID: &id})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, model.AuditConsentGiven, logs[0].EventType)
	require.Equal(t, model.AuditConsentRevoked, logs[1].EventType)

	_, err = uc.UpdateConsent(ctx, id, ConsentInput{ConsentType: "telepathy", Value: true}, "")
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, he.Status)
}

func TestExportAuditsAccess(t *testing.T) {
	uc, store := newPrivacyUC(t)
	ctx := context.Background()
	id := seedUser(t, store)

	export, err := uc.Export(ctx, id, "10.0.0.1")
	require.NoError(t, err)
	require.Equal(t, "maria@example.com", export.Profile.Email)
	require.Empty(t, export.Profile.PasswordHash)

	logs, err := store.GetAuditLogs(ctx, repository.AuditQuery{UserID: &id})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, model.AuditUserDataExport, logs[0].EventType)
}

func TestEraseLeavesAnonymousAuditEntry(t *testing.T) {
	uc, store := newPrivacyUC(t)
	ctx := context.Background()
	id := seedUser(t, store)

	require.NoError(t, uc.Erase(ctx, id, "10.0.0.1"))

	_, err := store.GetUserByID(ctx, id)
	require.ErrorIs(t, err, repository.ErrUserNotFound)

	//本人に紐付かない消去記録だけが残る
	logs, err := store.GetAuditLogs(ctx, repository.AuditQuery{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, model.AuditUserDataDeleted, logs[0].EventType)
	require.Nil(t, logs[0].UserID)
	require.Equal(t, float64(id), logs[0].Details["erased_user_id"])

	err = uc.Erase(ctx, id, "")
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, he.Status)
}
