// Package auth provides authentication and authorization functionality for the application.
//
// # Authentication
//
// LocalProvider authenticates users by email against the local database
// with Argon2id password hashing. Disabled accounts are rejected.
//
// # Authorization
//
// Users hold roles, roles hold permissions. Service resolves the permission
// keys of a user through user_roles and role_permissions:
//   - HasPermission: Check if user has a specific permission
//   - GetUserPermissions: Retrieve all permissions for a user
//
// Resolved sets are cached in an expirable LRU. InvalidatePermissions drops the
// cache and is called by the role manager after every role mutation.
//
// # Middleware
//
// Fiber middleware functions are provided for route protection:
//   - RequireSession: Reject requests without a valid session cookie
//   - RequirePermission: Protect routes requiring a specific permission
//
// Example usage:
//
//	authService := auth.NewService(db, 1024, time.Minute)
//
//	app.Get("/api/permissions",
//	    auth.RequireSession(),
//	    auth.RequirePermission(authService, auth.PermRolesView),
//	    handler,
//	)
package auth
