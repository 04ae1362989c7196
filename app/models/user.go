package models

import "time"

// Roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a storefront account. Email is unique and compared exactly as
// stored.
type User struct {
	ID        uint      `gorm:"primaryKey"                    json:"id"`
	Name      string    `gorm:"size:255;not null"             json:"name"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string    `gorm:"size:255;not null"             json:"-"` // hashed, never serialised
	Role      string    `gorm:"size:50;not null;default:user" json:"role"`
	CreatedAt time.Time `gorm:"index"                         json:"created_at"`
}

// IsAdmin reports whether u carries the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
