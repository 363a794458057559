// Package rbac implements the role and permission manager of the back-office.
//
// The Manager enforces the integrity rules around roles:
//   - role names are stored as slugs and are unique
//   - system roles are never renamed nor deleted
//   - a role still assigned to users cannot be deleted
//   - replacing the permission set of a role needs PermRolesAssignPermissions
//     on top of PermRolesUpdate
//
// Persistence goes through the Store interface and authorization through the
// PermissionChecker interface, both injected by the caller.
package rbac
