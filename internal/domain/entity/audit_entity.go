package entity

import "time"

type AuditAction string

const (
	AuditRegister         AuditAction = "register"
	AuditRegisterBusiness AuditAction = "register_business"
	AuditLoginSuccess     AuditAction = "login_success"
	AuditLoginFailure     AuditAction = "login_failure"
	AuditDeactivate       AuditAction = "deactivate"
)

type AuditEntry struct {
	ID        string
	TenantID  string
	UserID    string
	Email     string
	Action    AuditAction
	IP        string
	UserAgent string
	Metadata  map[string]any
	CreatedAt time.Time
}
