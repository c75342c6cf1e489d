package models

import "encoding/json"

// AuditLog records one mutating operation on a client, avenue or
// investment. Changes holds the submitted fields as a JSON object.
type AuditLog struct {
	Base
	UserID       uint   `gorm:"not null;index" json:"user_id"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null;index:idx_audit_logs_resource" json:"resource_type"`
	ResourceID   string `gorm:"index:idx_audit_logs_resource" json:"resource_id"`
	IPAddress    string `json:"-"`
	Changes      string `json:"-"`
}

// ChangeSet returns Changes as raw JSON, or nil when none were recorded.
func (a AuditLog) ChangeSet() json.RawMessage {
	if a.Changes == "" || !json.Valid([]byte(a.Changes)) {
		return nil
	}
	return json.RawMessage(a.Changes)
}
