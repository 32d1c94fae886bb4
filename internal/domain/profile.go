package domain

import "time"

// Profile roles
const (
	RoleFinder = "finder" // Browses and searches listings
	RoleOwner  = "owner"  // Creates, edits and deletes own listings
)

// Profile Model
type Profile struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"` // Identity id (UUID), one profile per account
	FullName     string    `gorm:"not null" json:"full_name"`             // Display name
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`     // Unique sign-in email
	Role         string    `gorm:"default:finder" json:"role"`            // Role: finder or owner
	PasswordHash string    `gorm:"not null" json:"-"`                     // Bcrypt hash, never serialized
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`      // Timestamp of account creation
}
