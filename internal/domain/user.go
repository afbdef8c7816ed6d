package domain

import "time"

type UserRole string

const (
	RoleTraveler UserRole = "user"
	RoleAdmin    UserRole = "admin"
)

// User is owned by the external auth service; the platform only needs
// the identity and the fields the admin booking search matches against.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:64;not null;uniqueIndex"`
	Email        string    `json:"email" gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"column:password_hash"`
	Role         UserRole  `json:"role" gorm:"size:16;not null;default:user"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
