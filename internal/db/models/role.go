// Package models contains database model definitions.
package models

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultRoleColor is the badge colour assigned to roles created without one.
const DefaultRoleColor = "#6366f1"

// Role represents a named bundle of permissions assignable to users.
// System roles are created by the seeder; their name is locked and they cannot be deleted.
type Role struct {
	// ID is the unique identifier for the role (UUID).
	ID string `gorm:"primaryKey;size:36" json:"id"`
	// Name is the unique slug of the role (e.g. "quality-reviewer").
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	// DisplayName is the human readable role name.
	DisplayName string `gorm:"size:100;not null" json:"displayName"`
	// Description explains what the role is meant for.
	Description *string `gorm:"size:255" json:"description"`
	// Color is the hex colour of the role badge in the admin screens.
	Color string `gorm:"size:20;not null" json:"color"`
	// IsSystem marks roles that cannot be renamed or deleted.
	IsSystem  bool      `gorm:"not null;default:false" json:"isSystem"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Permissions is only loaded on request, nil means not loaded.
	Permissions []RolePermission `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE" json:"permissions"`
	// Users is only loaded on request, nil means not loaded.
	Users []UserRole `gorm:"foreignKey:RoleID" json:"users"`
	// Count holds the number of assigned users and permissions.
	Count RoleCount `gorm:"-" json:"_count"`
}

// RoleCount is the relation counter attached to every role returned by the API.
type RoleCount struct {
	Users       int64 `json:"users"`
	Permissions int64 `json:"permissions"`
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}

// BeforeCreate assigns a UUID when none was set.
func (r *Role) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	return nil
}

// roleJSON is the wire form of Role.
type roleJSON struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	DisplayName string            `json:"displayName"`
	Description *string           `json:"description"`
	Color       string            `json:"color"`
	IsSystem    bool              `json:"isSystem"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	Permissions *[]RolePermission `json:"permissions,omitempty"`
	Users       *[]UserRole       `json:"users,omitempty"`
	Count       RoleCount         `json:"_count"`
}

// MarshalJSON leaves out relations that were not loaded and keeps loaded
// relations without rows as empty arrays.
func (r Role) MarshalJSON() ([]byte, error) {
	out := roleJSON{
		ID:          r.ID,
		Name:        r.Name,
		DisplayName: r.DisplayName,
		Description: r.Description,
		Color:       r.Color,
		IsSystem:    r.IsSystem,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Count:       r.Count,
	}

	if r.Permissions != nil {
		out.Permissions = &r.Permissions
	}

	if r.Users != nil {
		out.Users = &r.Users
	}

	return json.Marshal(out)
}
