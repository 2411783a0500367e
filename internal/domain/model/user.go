package model

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID    int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string `gorm:"type:varchar(255);not null" json:"name"`
	Email string `gorm:"uniqueIndex;not null" json:"email"`

	//ハッシュ済みパスワード。平文は保存しない。
	PasswordHash string `gorm:"column:password;not null" json:"-"`

	Role Role `gorm:"type:varchar(20);not null;default:'user'" json:"role"`

	//登録時・設定画面で記録する同意フラグ。履歴はuser_consentsに残る。
	PrivacyAccept    bool `gorm:"not null;default:false" json:"privacy_accept"`
	MarketingConsent bool `gorm:"not null;default:false" json:"marketing_consent"`
	AnalyticsConsent bool `gorm:"not null;default:false" json:"analytics_consent"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
