package domain

import "context"

// RoleAdmin is the single privileged role permitted to mutate listings.
const RoleAdmin = "admin"

// User represents an account that can sign in to the admin panel.
type User struct {
	BaseModel
	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`
	Role         string `gorm:"size:50;not null;default:admin" json:"role"`
}

// UserRepository defines the data access interface for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
}
