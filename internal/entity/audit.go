package entity

import "time"

const (
	AuditActionLogin          = "LOGIN"
	AuditActionLogout         = "LOGOUT"
	AuditActionChangePassword = "CHANGE_PASSWORD"

	AuditOutcomeSuccess = "SUCCESS"
	AuditOutcomeFailure = "FAILURE"

	// AuditActorUnknown is recorded when a failed login cannot be matched to
	// a stored account.
	AuditActorUnknown = "unknown"
)

// DbAuditEntry is an append-only record of an authentication-relevant
// action. Entries are never updated or deleted.
type DbAuditEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Actor     string    `gorm:"column:actor;type:varchar(64);index;not null" json:"actor"`
	Action    string    `gorm:"column:action;type:varchar(32);index;not null" json:"action"`
	Outcome   string    `gorm:"column:outcome;type:varchar(16);not null" json:"outcome"`
	Reason    string    `gorm:"column:reason;type:varchar(64)" json:"reason,omitempty"`
	IP        string    `gorm:"column:ip;type:varchar(64)" json:"ip"`
	UserAgent string    `gorm:"column:user_agent;type:varchar(512)" json:"user_agent"`
}

// TableName overrides default pluralised name.
func (DbAuditEntry) TableName() string {
	return "audit_entries"
}

// AuditQuery supports listing audit entries with pagination.
type AuditQuery struct {
	BaseParams
	Actor  string `json:"actor" form:"actor" query:"actor"`
	Action string `json:"action" form:"action" query:"action"`
}

// AuditListResponse is the response for listing audit entries.
type AuditListResponse struct {
	Entries []DbAuditEntry `json:"entries"`
	Meta    *Meta          `json:"meta"`
}
