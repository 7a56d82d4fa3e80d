package types

import "time"

type AdminUser struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	TenantID           uint       `gorm:"uniqueIndex:idx_admin_tenant_username;not null" json:"tenant_id"`
	Username           string     `gorm:"uniqueIndex:idx_admin_tenant_username;not null" json:"username"`
	PasswordHash       string     `gorm:"not null" json:"-"`
	DisplayName        string     `gorm:"not null" json:"display_name"`
	TwoFAEnabled       bool       `gorm:"column:twofa_enabled;not null;default:false" json:"twofa_enabled"`
	TwoFASecret        string     `gorm:"column:twofa_secret" json:"-"`
	FailedLoginCount   int        `gorm:"not null;default:0" json:"-"`
	LockedUntil        *time.Time `json:"-"`
	PasswordUpdatedAt  *time.Time `json:"-"`
	MustChangePassword bool       `gorm:"not null;default:false" json:"must_change_password"`
	CreatedAt          time.Time  `json:"created_at"`
}

func (AdminUser) TableName() string { return "admin_users" }

// TwoFactorSetup is a short-lived record holding the TOTP secret between
// the setup and enable steps, keyed to one admin. Rows expire and are
// deleted on consume.
type TwoFactorSetup struct {
	ID        uint      `gorm:"primaryKey"`
	TenantID  uint      `gorm:"index;not null"`
	AdminID   uint      `gorm:"index;not null"`
	Secret    string    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

func (TwoFactorSetup) TableName() string { return "two_factor_setups" }
