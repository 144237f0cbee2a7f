package shared

import "context"

type contextKey string

const roleContextKey contextKey = "torque.role"

// ContextWithRole stores the authenticated role on the context.
func ContextWithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleContextKey, role)
}

// RoleFromContext returns the authenticated role, or "" when anonymous.
func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(roleContextKey).(string)
	return role
}
