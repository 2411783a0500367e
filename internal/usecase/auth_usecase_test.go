package usecase

import (
	"context"
	"net/http"
	"testing"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/infra/csvstore"
	"app/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newAuthUC(t *testing.T) (*AuthUsecase, repository.Store) {
	t.Helper()
	store, err := csvstore.New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	cfg := config.Config{JWTSecret: "test-secret", AdminPIN: "4711"}
	return NewAuthUsecase(cfg, store, nil, zerolog.Nop()), store
}

func validRegister() RegisterRequest {
	return RegisterRequest{
		Name:          "Maria",
		Email:         "maria@example.com",
		Password:      "supersecret",
		PrivacyAccept: true,
	}
}

func TestRegisterCreatesUserAndAuditTrail(t *testing.T) {
	uc, store := newAuthUC(t)
	ctx := context.Background()

	out, err := uc.Register(ctx, validRegister(), "10.0.0.1")
	require.NoError(t, err)
	require.Equal(t, int64(1), out.User.ID)
	require.Equal(t, "user", out.User.Role)
	require.NotEmpty(t, out.Token)

	//tokenのclaims
	tok, err := jwt.Parse(out.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := tok.Claims.(jwt.MapClaims)
	require.Equal(t, float64(1), claims["sub"])
	require.Equal(t, "maria@example.com", claims["email"])
	require.Equal(t, "user", claims["role"])

	//同意履歴3件
	consents, err := store.GetUserConsents(ctx, 1)
	require.NoError(t, err)
	require.Len(t, consents, 3)

	//監査ログ
	id := int64(1)
	logs, err := store.GetAuditLogs(ctx, repository.AuditQuery{UserID: &id})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, model.AuditUserRegistration, logs[0].EventType)
	require.Equal(t, "10.0.0.1", logs[0].IPAddress)
}

func TestRegisterValidation(t *testing.T) {
	uc, _ := newAuthUC(t)
	ctx := context.Background()

	req := validRegister()
	req.Password = "short"
	_, err := uc.Register(ctx, req, "")
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, he.Status)

	req = validRegister()
	req.Email = "not-an-email"
	_, err = uc.Register(ctx, req, "")
	he, _ = AsHTTPError(err)
	require.Equal(t, http.StatusBadRequest, he.Status)

	req = validRegister()
	req.PrivacyAccept = false
	_, err = uc.Register(ctx, req, "")
	he, _ = AsHTTPError(err)
	require.Equal(t, http.StatusBadRequest, he.Status)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	uc, _ := newAuthUC(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, validRegister(), "")
	require.NoError(t, err)

	_, err = uc.Register(ctx, validRegister(), "")
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusConflict, he.Status)
}

func TestRegisterAdminPIN(t *testing.T) {
	uc, _ := newAuthUC(t)
	ctx := context.Background()

	req := validRegister()
	req.AdminPIN = "4711"
	out, err := uc.Register(ctx, req, "")
	require.NoError(t, err)
	require.Equal(t, "admin", out.User.Role)

	req = validRegister()
	req.Email = "second@example.com"
	req.AdminPIN = "wrong"
	_, err = uc.Register(ctx, req, "")
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, he.Status)
}

func TestLoginSuccessAndFailure(t *testing.T) {
	uc, store := newAuthUC(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, validRegister(), "")
	require.NoError(t, err)

	out, err := uc.Login(ctx, LoginRequest{Email: "maria@example.com", Password: "supersecret"}, "10.0.0.2")
	require.NoError(t, err)
	require.Equal(t, int64(1), out.User.ID)
	require.NotEmpty(t, out.Token)

	_, err = uc.Login(ctx, LoginRequest{Email: "maria@example.com", Password: "wrongpass"}, "10.0.0.2")
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Status)

	_, err = uc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "whatever"}, "10.0.0.2")
	he, _ = AsHTTPError(err)
	require.Equal(t, http.StatusUnauthorized, he.Status)

	//成功1件、失敗2件が監査に残る
	logs, err := store.GetAuditLogs(ctx, repository.AuditQuery{})
	require.NoError(t, err)
	var login, failed int
	for _, e := range logs {
		switch e.EventType {
		case model.AuditUserLogin:
			login++
		case model.AuditUserLoginFailed:
			failed++
		}
	}
	require.Equal(t, 1, login)
	require.Equal(t, 2, failed)
}
