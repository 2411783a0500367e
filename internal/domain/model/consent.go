package model

import "time"

type ConsentType string

const (
	ConsentPrivacyPolicy ConsentType = "privacy_policy"
	ConsentMarketing     ConsentType = "marketing"
	ConsentAnalytics     ConsentType = "analytics"
	ConsentCookie        ConsentType = "cookie"
)

// 同意の記録。上書きはせず追記し、最新のものが現在値。
type Consent struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64       `gorm:"not null;index" json:"user_id"`
	ConsentType ConsentType `gorm:"type:varchar(50);not null" json:"consent_type"`
	Value       bool        `gorm:"not null" json:"value"`
	Timestamp   time.Time   `gorm:"not null" json:"timestamp"`
}

func (Consent) TableName() string {
	return "user_consents"
}
