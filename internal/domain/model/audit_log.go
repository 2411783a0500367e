package model

import "time"

// コンプライアンス監査のイベント種別（閉じた集合）。
type AuditEventType string

const (
	AuditUserRegistration   AuditEventType = "user_registration"
	AuditUserLogin          AuditEventType = "user_login"
	AuditUserLogout         AuditEventType = "user_logout"
	AuditUserLoginFailed    AuditEventType = "user_login_failed"
	AuditUserDataExport     AuditEventType = "user_data_export"
	AuditUserDataDeleted    AuditEventType = "user_data_deleted"
	AuditUserProfileUpdated AuditEventType = "user_profile_updated"
	AuditOrderCreated       AuditEventType = "order_created"
	AuditOrderStatusUpdated AuditEventType = "order_status_updated"
	AuditOrderDeleted       AuditEventType = "order_deleted"
	AuditProductCreated     AuditEventType = "product_created"
	AuditProductUpdated     AuditEventType = "product_updated"
	AuditProductDeleted     AuditEventType = "product_deleted"
	AuditPaymentInitiated   AuditEventType = "payment_initiated"
	AuditPaymentCompleted   AuditEventType = "payment_completed"
	AuditPaymentFailed      AuditEventType = "payment_failed"
	AuditAdminLogin         AuditEventType = "admin_login"
	AuditAdminAction        AuditEventType = "admin_action"
	AuditDataAccess         AuditEventType = "data_access"
	AuditConsentGiven       AuditEventType = "gdpr_consent_given"
	AuditConsentRevoked     AuditEventType = "gdpr_consent_revoked"
	AuditCookieConsent      AuditEventType = "cookie_consent"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
	AuditStatusPending AuditStatus = "pending"
)

// 監査ログ1件。追記専用。
// ユーザーのエントリは完全消去のときだけ削除できる。
type AuditEntry struct {
	//リレーショナル側だけの主キー。CSVのログファイルには無い。
	ID int64 `gorm:"primaryKey;autoIncrement" json:"-"`

	Timestamp    time.Time      `gorm:"not null;index" json:"timestamp"`
	EventType    AuditEventType `gorm:"type:varchar(50);not null" json:"event_type"`
	UserID       *int64         `gorm:"index" json:"user_id"`
	UserEmail    string         `gorm:"type:varchar(255)" json:"user_email"`
	Action       string         `gorm:"type:text;not null" json:"action"`
	ResourceType string         `gorm:"type:varchar(50)" json:"resource_type"`
	ResourceID   string         `gorm:"type:varchar(255)" json:"resource_id"`
	Details      map[string]any `gorm:"serializer:json;type:text" json:"details"`
	IPAddress    string         `gorm:"type:varchar(64)" json:"ip_address"`
	Status       AuditStatus    `gorm:"type:varchar(20);not null;default:'success'" json:"status"`
}

func (AuditEntry) TableName() string {
	return "audit_log"
}
