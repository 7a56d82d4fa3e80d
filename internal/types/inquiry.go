package types

import "time"

const (
	InquiryStatusNew     = "NEW"
	InquiryStatusRead    = "READ"
	InquiryStatusReplied = "REPLIED"
	InquiryStatusClosed  = "CLOSED"
)

func IsValidInquiryStatus(s string) bool {
	switch s {
	case InquiryStatusNew, InquiryStatusRead, InquiryStatusReplied, InquiryStatusClosed:
		return true
	}
	return false
}

type Inquiry struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	TenantID       uint       `gorm:"index;not null" json:"tenant_id"`
	Name           string     `gorm:"not null" json:"name"`
	Phone          string     `gorm:"not null" json:"phone"`
	Company        string     `gorm:"not null" json:"company"`
	Message        string     `gorm:"not null" json:"message"`
	Status         string     `gorm:"not null;default:NEW" json:"status"`
	ConsentGiven   bool       `gorm:"not null;default:false" json:"consent_given"`
	ConsentAt      *time.Time `json:"consent_at"`
	RetentionUntil *time.Time `gorm:"index:idx_inquiries_retention" json:"retention_until"`
	IPAddress      string     `json:"-"`
	UserAgent      string     `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (Inquiry) TableName() string { return "inquiries" }

const (
	ActorTypePublic = "public"
	ActorTypeAdmin  = "admin"
	ActorTypeSystem = "system"
)

type InquiryAuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TenantID  uint      `gorm:"index:idx_audit_tenant_created;not null" json:"tenant_id"`
	InquiryID *uint     `json:"inquiry_id"`
	Action    string    `gorm:"not null" json:"action"`
	Detail    string    `json:"detail"`
	ActorType string    `gorm:"not null" json:"actor_type"`
	ActorID   string    `json:"actor_id"`
	CreatedAt time.Time `gorm:"index:idx_audit_tenant_created" json:"created_at"`
}

func (InquiryAuditLog) TableName() string { return "inquiry_audit_logs" }
