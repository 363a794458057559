package models

import "time"

// UserRole is the join between users and roles.
// A role referenced by at least one row cannot be deleted.
type UserRole struct {
	UserID    string    `gorm:"primaryKey;size:36;column:user_id" json:"userId"`
	RoleID    string    `gorm:"primaryKey;size:36;column:role_id" json:"roleId"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the database table name for the UserRole model.
func (UserRole) TableName() string {
	return "user_roles"
}
