package store

import (
	"errors"
	"time"
)

// Store errors.
var (
	// ErrUserNotFound is returned when a user lookup matches no record.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUser is returned when creating a user whose username
	// already exists.
	ErrDuplicateUser = errors.New("user already exists")
)

// Role is the backend role assigned to a seeded user.
type Role string

// Roles recognized by the backend.
const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleSale    Role = "sale"
	RoleKitchen Role = "kitchen"
)

// User is a backend account record. The bootstrap only ever creates
// users; all other account management belongs to the backend itself.
type User struct {
	// ID is a UUID assigned at creation.
	ID string `gorm:"primaryKey;size:36"`

	// Username is the unique login name.
	Username string `gorm:"uniqueIndex;size:150;not null"`

	// Email is the user's email address.
	Email string `gorm:"size:254"`

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `gorm:"size:128;not null"`

	// Role is the backend role (admin, manager, sale, kitchen).
	Role Role `gorm:"size:32;not null;default:sale"`

	// Superuser marks the account as a superuser. Only the seeded admin
	// gets this.
	Superuser bool `gorm:"not null;default:false"`

	CreatedAt time.Time
}
