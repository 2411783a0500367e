package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/mailer"
	"app/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// accesstokenの有効期限
const accessTokenTTL = 24 * time.Hour

type UserDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`

	//管理者として登録する場合だけ入力
	AdminPIN string `json:"admin_pin"`

	PrivacyAccept    bool `json:"privacy_accept"`
	MarketingConsent bool `json:"marketing_consent"`
	AnalyticsConsent bool `json:"analytics_consent"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

type AuthUsecase struct {
	cfg   config.Config
	store repository.Store
	mail  *mailer.Mailer
	log   zerolog.Logger
}

// DI
func NewAuthUsecase(cfg config.Config, store repository.Store, mail *mailer.Mailer, log zerolog.Logger) *AuthUsecase {
	return &AuthUsecase{
		cfg:   cfg,
		store: store,
		mail:  mail,
		log:   log.With().Str("component", "auth").Logger(),
	}
}

func (u *AuthUsecase) Register(ctx context.Context, req RegisterRequest, ip string) (*AuthResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	//入力検証
	if req.Name == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "name required")
	}
	if !strings.Contains(req.Email, "@") {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid email")
	}
	if len(req.Password) < 8 {
		return nil, NewHTTPError(http.StatusBadRequest, "password must be at least 8 characters")
	}
	if !req.PrivacyAccept {
		return nil, NewHTTPError(http.StatusBadRequest, "privacy policy must be accepted")
	}

	//PINが合っているときだけ管理者
	role := model.RoleUser
	if req.AdminPIN != "" {
		if u.cfg.AdminPIN == "" || req.AdminPIN != u.cfg.AdminPIN {
			return nil, NewHTTPError(http.StatusForbidden, "invalid admin pin")
		}
		role = model.RoleAdmin
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := model.User{
		Name:             req.Name,
		Email:            req.Email,
		PasswordHash:     string(pwHash),
		Role:             role,
		PrivacyAccept:    req.PrivacyAccept,
		MarketingConsent: req.MarketingConsent,
		AnalyticsConsent: req.AnalyticsConsent,
		CreatedAt:        time.Now(),
	}

	id, _, err := u.store.CreateUser(ctx, user)
	if err == repository.ErrDuplicateEmail {
		return nil, NewHTTPError(http.StatusConflict, "email already registered")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "store error")
	}
	user.ID = id

	//同意履歴を追記。登録時の同意はすべて記録する。
	now := time.Now()
	consents := []model.Consent{
		{UserID: id, ConsentType: model.ConsentPrivacyPolicy, Value: true, Timestamp: now},
		{UserID: id, ConsentType: model.ConsentMarketing, Value: req.MarketingConsent, Timestamp: now},
		{UserID: id, ConsentType: model.ConsentAnalytics, Value: req.AnalyticsConsent, Timestamp: now},
	}
	for _, c := range consents {
		if _, _, err := u.store.SaveConsent(ctx, c); err != nil {
			u.log.Error().Err(err).Int64("user_id", id).Msg("consent save failed")
		}
	}

	u.audit(ctx, model.AuditEntry{
		EventType: model.AuditUserRegistration,
		UserID:    &id,
		UserEmail: user.Email,
		Action:    "user registered",
		IPAddress: ip,
	})

	u.mail.SendWelcome(user.Email, user.Name)

	token, err := u.issueToken(user)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return &AuthResponse{User: toUserDTO(user), Token: token}, nil
}

func (u *AuthUsecase) Login(ctx context.Context, req LoginRequest, ip string) (*AuthResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "email and password required")
	}

	user, err := u.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		//存在しないメールも失敗として監査に残す
		u.audit(ctx, model.AuditEntry{
			EventType: model.AuditUserLoginFailed,
			UserEmail: req.Email,
			Action:    "login failed: unknown email",
			IPAddress: ip,
			Status:    model.AuditStatusFailure,
		})
		return nil, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	//パスワード照合（bcrypt）
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		u.audit(ctx, model.AuditEntry{
			EventType: model.AuditUserLoginFailed,
			UserID:    &user.ID,
			UserEmail: user.Email,
			Action:    "login failed: wrong password",
			IPAddress: ip,
			Status:    model.AuditStatusFailure,
		})
		return nil, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	event := model.AuditUserLogin
	if user.Role == model.RoleAdmin {
		event = model.AuditAdminLogin
	}
	u.audit(ctx, model.AuditEntry{
		EventType: event,
		UserID:    &user.ID,
		UserEmail: user.Email,
		Action:    "login",
		IPAddress: ip,
	})

	token, err := u.issueToken(user)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return &AuthResponse{User: toUserDTO(user), Token: token}, nil
}

func (u *AuthUsecase) Logout(ctx context.Context, userID int64, email, ip string) {
	u.audit(ctx, model.AuditEntry{
		EventType: model.AuditUserLogout,
		UserID:    &userID,
		UserEmail: email,
		Action:    "logout",
		IPAddress: ip,
	})
}

func (u *AuthUsecase) Me(ctx context.Context, userID int64) (*UserDTO, error) {
	user, err := u.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	dto := toUserDTO(user)
	return &dto, nil
}

// jwt発行
func (u *AuthUsecase) issueToken(user model.User) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"sub":   user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(accessTokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(u.cfg.JWTSecret))
}

func (u *AuthUsecase) audit(ctx context.Context, e model.AuditEntry) {
	if _, err := u.store.LogAudit(ctx, e); err != nil {
		u.log.Error().Err(err).Str("event", string(e.EventType)).Msg("audit write failed")
	}
}

func toUserDTO(u model.User) UserDTO {
	return UserDTO{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  string(u.Role),
	}
}
