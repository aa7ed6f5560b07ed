package models

import "time"

// AuditAction constants represent actions to be logged.
const (
	AuditActionLogin         = "LOGIN"
	AuditActionLogout        = "LOGOUT"
	AuditActionProfileUpsert = "PROFILE_UPSERT"
	AuditActionCatalogCreate = "CATALOG_CREATE"
)

// AuditLog represents an audit trail record. Writes are best-effort; a
// failed audit insert never fails the originating request.
type AuditLog struct {
	ID         int64     `db:"id" json:"id"`
	AccountID  *int64    `db:"account_id" json:"account_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	Detail     []byte    `db:"detail" json:"detail,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
