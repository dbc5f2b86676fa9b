package models

import (
	"time"
)

// Role IDs as seeded in the roles table.
const (
	RoleTeacher = 1
	RoleFamily  = 2
	RoleAdmin   = 3
)

type User struct {
	UserID      int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	Email       string     `gorm:"column:email;unique" json:"email"`
	Password    string     `gorm:"column:password" json:"-"`
	DisplayName *string    `gorm:"column:display_name" json:"display_name,omitempty"`
	RoleID      int        `gorm:"column:role_id" json:"role_id"`
	FamilyID    *int       `gorm:"column:family_id" json:"family_id,omitempty"`
	Active      bool       `gorm:"column:active;default:1" json:"active"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Role   Role    `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Family *Family `gorm:"foreignKey:FamilyID" json:"family,omitempty"`
}

type Role struct {
	RoleID   int        `gorm:"primaryKey;column:role_id" json:"role_id"`
	Role     string     `gorm:"column:role" json:"role"` // teacher|family|admin
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}

// IsReviewer reports whether a role may mutate review fields.
func IsReviewer(roleID int) bool {
	return roleID == RoleTeacher || roleID == RoleAdmin
}
