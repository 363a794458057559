package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// User represents a back-office account.
type User struct {
	// ID is the unique identifier for the user (UUID).
	ID string `gorm:"primaryKey;size:36" json:"id"`
	// Name is the display name of the user.
	Name string `gorm:"size:200;not null" json:"name"`
	// Email is the unique login of the user.
	Email string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	// Image is the avatar URL.
	Image *string `gorm:"size:500" json:"image"`
	// Password is the Argon2id hashed password.
	Password string `gorm:"size:255" json:"-"`
	// Active indicates whether the user account may log in.
	Active    bool      `gorm:"not null;default:true" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID when none was set.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	return nil
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams) //nolint:wrapcheck
}

// VerifyPassword verifies a plaintext password against the stored hash.
func (u *User) VerifyPassword(password string) bool {
	if u.Password == "" {
		return false
	}

	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Err(err).Str("user_id", u.ID).Msg("failed to verify password")
		return false
	}

	return match
}
