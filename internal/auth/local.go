package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/qa-office/qa-admin/internal/db/models"
)

// LocalProvider handles local database authentication.
type LocalProvider struct {
	db *gorm.DB
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db: db,
	}
}

var (
	// comparePassword is swapped in tests.
	comparePassword = argon2id.ComparePasswordAndHash //nolint:gochecknoglobals

	// unknownUserHash is compared against on a miss so unknown emails cost as much as known ones.
	unknownUserHash = sync.OnceValue(func() string { //nolint:gochecknoglobals
		hash, err := models.HashPassword(uuid.NewString())
		if err != nil {
			log.Error().Err(err).Msg("failed to create hash for unknown users")
		}

		return hash
	})
)

// Authenticate authenticates a user against the local database.
// The password is checked before the account state, so only its owner learns an account is disabled.
func (p *LocalProvider) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := p.GetUserByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		_, _ = comparePassword(password, unknownUserHash()) //nolint:errcheck
		return nil, err
	}

	if err != nil {
		return nil, err
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	return user, nil
}

// CreateUser creates a new active local user holding the given roles.
func (p *LocalProvider) CreateUser(ctx context.Context, name, email, password string, roleIDs ...string) (*models.User, error) {
	email = normalizeEmail(email)

	var count int64
	if err := p.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	if count > 0 {
		return nil, ErrUserEmailExists
	}

	hashedPassword, err := models.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Active:   true,
		Name:     name,
		Email:    email,
		Password: hashedPassword,
	}

	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		for _, roleID := range roleIDs {
			if err := tx.Create(&models.UserRole{UserID: user.ID, RoleID: roleID}).Error; err != nil {
				return fmt.Errorf("failed to assign role %s: %w", roleID, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetUserByEmail retrieves a user by email.
func (p *LocalProvider) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	err := p.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (p *LocalProvider) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User

	err := p.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
