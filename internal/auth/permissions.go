package auth

import "strings"

// Permission constants define the available permissions in the system.
// These are used for role-based access control (RBAC) to restrict access
// to specific resources and actions.
const (
	// PermRolesView allows listing roles and permissions.
	PermRolesView = "roles.view"
	// PermRolesCreate allows creating roles.
	PermRolesCreate = "roles.create"
	// PermRolesUpdate allows editing role names, labels and colors.
	PermRolesUpdate = "roles.update"
	// PermRolesDelete allows deleting roles without assigned users.
	PermRolesDelete = "roles.delete"
	// PermRolesAssignPermissions allows replacing the permission set of a role.
	PermRolesAssignPermissions = "roles.assign-permissions"
)

// Content areas of the QA site, each gated by view/create/update/delete.
var contentResources = []string{ //nolint:gochecknoglobals
	"news",
	"documents",
	"staff",
	"accreditations",
	"programs",
	"users",
}

var crudActions = []string{"view", "create", "update", "delete"} //nolint:gochecknoglobals

// Definition describes a permission to seed.
type Definition struct {
	Key         string
	Name        string
	Resource    string
	Action      string
	Description string
}

// Definitions returns every permission known to the application.
func Definitions() []Definition {
	defs := []Definition{
		{Key: PermRolesView, Description: "View roles and their permissions"},
		{Key: PermRolesCreate, Description: "Create roles"},
		{Key: PermRolesUpdate, Description: "Edit roles"},
		{Key: PermRolesDelete, Description: "Delete roles"},
		{Key: PermRolesAssignPermissions, Description: "Change the permissions of a role"},
	}

	for _, resource := range contentResources {
		for _, action := range crudActions {
			defs = append(defs, Definition{
				Key:         resource + "." + action,
				Description: strings.ToUpper(action[:1]) + action[1:] + " " + resource,
			})
		}
	}

	for i := range defs {
		defs[i].Resource, defs[i].Action, _ = strings.Cut(defs[i].Key, ".")
		defs[i].Name = humanize(defs[i].Key)
	}

	return defs
}

// IsViewPermission reports whether key grants read access only.
func IsViewPermission(key string) bool {
	return strings.HasSuffix(key, ".view")
}

// humanize turns "roles.assign-permissions" into "Roles: Assign Permissions".
func humanize(key string) string {
	resource, action, _ := strings.Cut(key, ".")

	words := strings.Split(action, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}

	return strings.ToUpper(resource[:1]) + resource[1:] + ": " + strings.Join(words, " ")
}
