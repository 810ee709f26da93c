package admin

import "time"

const (
	RoleOwner  = "owner"
	RoleEditor = "editor"
)

func ValidRole(r string) bool { return r == RoleOwner || r == RoleEditor }

// AdminUser is a back-office account. Owners see the contact inbox; editors
// only manage content.
type AdminUser struct {
	ID                  string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	Email               string     `json:"email" gorm:"size:254;uniqueIndex;not null"`
	PasswordHash        string     `json:"-" gorm:"not null"`
	Name                string     `json:"name" gorm:"size:120;not null"`
	Role                string     `json:"role" gorm:"size:16;not null;default:'editor'"`
	IsActive            bool       `json:"is_active" gorm:"not null;default:true"`
	FailedLoginAttempts int        `json:"-" gorm:"not null;default:0"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at"`
	LastLoginIP         string     `json:"last_login_ip,omitempty" gorm:"size:64"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}
