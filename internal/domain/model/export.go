package model

// データエクスポートの束（DSGVO Art. 15 / 20）。
// Profileのパスワードはストア側で必ず空にする。
type UserExport struct {
	Profile   User         `json:"profile"`
	Orders    []Order      `json:"orders"`
	Consents  []Consent    `json:"consents"`
	AuditLogs []AuditEntry `json:"audit_logs"`
}
