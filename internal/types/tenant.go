package types

import "time"

// Tenant is the isolation boundary. Every other entity carries a TenantID.
type Tenant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

func (Tenant) TableName() string { return "tenants" }

type TenantSettings struct {
	TenantID             uint      `gorm:"primaryKey" json:"tenant_id"`
	InquiryRetentionDays int       `gorm:"not null;default:365" json:"inquiry_retention_days"`
	PrivacyPolicyText    string    `gorm:"not null" json:"privacy_policy_text"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (TenantSettings) TableName() string { return "tenant_settings" }
