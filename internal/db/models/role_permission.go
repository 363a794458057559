package models

// RolePermission is the join between roles and permissions.
// Rows are removed together with their role or permission (CASCADE).
type RolePermission struct {
	RoleID       string     `gorm:"primaryKey;size:36;column:role_id" json:"roleId"`
	PermissionID string     `gorm:"primaryKey;size:36;column:permission_id" json:"permissionId"`
	Permission   Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE" json:"permission"`
}

// TableName specifies the database table name for the RolePermission model.
func (RolePermission) TableName() string {
	return "role_permissions"
}
