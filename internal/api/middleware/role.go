package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/fsview/internal/providers/filesystem"
)

// DefaultRoleHeader names the header that carries the caller's role.
const DefaultRoleHeader = "X-Caller-Role"

const callerKey = "caller"

// RoleConfig controls how the caller role is read from requests.
type RoleConfig struct {
	Header      string
	DefaultRole filesystem.Role
}

// DefaultRoleConfig treats callers without a role header as users.
func DefaultRoleConfig() RoleConfig {
	return RoleConfig{Header: DefaultRoleHeader, DefaultRole: filesystem.RoleUser}
}

// Caller resolves the filesystem.Caller for each request from the role
// header. Unknown roles are passed through so the service rejects them.
func Caller(cfg RoleConfig) gin.HandlerFunc {
	header := cfg.Header
	if header == "" {
		header = DefaultRoleHeader
	}
	fallback := cfg.DefaultRole
	if fallback == "" {
		fallback = filesystem.RoleUser
	}

	return func(c *gin.Context) {
		role := fallback
		if raw := c.GetHeader(header); raw != "" {
			role = filesystem.ParseRole(raw)
		}
		c.Set(callerKey, filesystem.Caller{Role: role})
		c.Next()
	}
}

// CallerFrom returns the caller set by Caller. Without the middleware the
// caller is an unprivileged user.
func CallerFrom(c *gin.Context) filesystem.Caller {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(filesystem.Caller); ok {
			return caller
		}
	}
	return filesystem.Caller{Role: filesystem.RoleUser}
}
