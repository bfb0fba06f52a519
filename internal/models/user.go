package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an operator of the system (cashier, admin, read-only)
type User struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	TenantID          uint       `gorm:"not null;index" json:"tenant_id"`
	Email             string     `gorm:"uniqueIndex;not null" json:"email"`
	EncryptedPassword string     `gorm:"column:encrypted_password;not null" json:"-"`
	FullName          string     `json:"full_name"`
	Role              string     `gorm:"default:consulta" json:"role"`
	Status            string     `gorm:"default:active" json:"status"`
	DiscardedAt       *time.Time `gorm:"index" json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook for setting defaults
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleConsulta
	}
	if u.Status == "" {
		u.Status = StatusActive
	}
	return nil
}

// Role constants
const (
	RoleAdmin    = "admin"
	RoleCajero   = "cajero"
	RoleConsulta = "consulta"
)

// Status constants
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

// IsAdmin returns true if user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsActive returns true if user status is active
func (u *User) IsActive() bool {
	return u.Status == StatusActive && u.DiscardedAt == nil
}

// UserResponse is the JSON response format for users
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents a JWT refresh token
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	Token     string     `gorm:"uniqueIndex" json:"token"`
	ExpiresAt *time.Time `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Associations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for RefreshToken
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// IsExpired returns true if the refresh token has expired
func (r *RefreshToken) IsExpired() bool {
	if r.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*r.ExpiresAt)
}
