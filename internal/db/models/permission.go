package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Permission represents an atomic capability checked by the authorization service.
// Permissions are seeded and referenced by roles, the role manager never mutates them.
type Permission struct {
	// ID is the unique identifier for the permission (UUID).
	ID string `gorm:"primaryKey;size:36" json:"id"`
	// Key is the unique capability identifier in resource.action format (e.g. "roles.view").
	Key string `gorm:"column:code;uniqueIndex;size:100;not null" json:"key"`
	// Name is the label shown in the permission picker.
	Name string `gorm:"size:100;not null" json:"name"`
	// Resource is the resource part of the key (e.g. "roles", "news").
	Resource string `gorm:"size:50;not null;index" json:"resource"`
	// Action is the action part of the key (e.g. "view", "assign-permissions").
	Action string `gorm:"size:50;not null" json:"action"`
	// Description provides a human-readable explanation of what this permission grants.
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the Permission model.
func (Permission) TableName() string {
	return "permissions"
}

// BeforeCreate assigns a UUID when none was set.
func (p *Permission) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	return nil
}
