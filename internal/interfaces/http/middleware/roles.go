package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/identity"
	"github.com/locddhe176242/G174---MMS-sub001/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// RoleConfig holds configuration for role middleware
type RoleConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
	// OnDenied is called when access is denied (optional)
	OnDenied func(c *gin.Context, required []identity.Role)
}

// RequireRole creates middleware that requires a specific role
func RequireRole(role identity.Role) gin.HandlerFunc {
	return RequireAnyRole(role)
}

// RequireAnyRole creates middleware that passes when the actor carries at
// least one of the listed roles. Managers always pass.
func RequireAnyRole(roles ...identity.Role) gin.HandlerFunc {
	return RequireAnyRoleWithConfig(RoleConfig{}, roles...)
}

// RequireAnyRoleWithConfig creates role middleware with custom config
func RequireAnyRoleWithConfig(cfg RoleConfig, roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			handleRoleDenied(c, cfg, roles, "No authenticated actor found")
			return
		}

		if !actor.IsManager() && !hasAnyRole(actor, roles) {
			handleRoleDenied(c, cfg, roles, "Actor lacks required role")
			return
		}

		if cfg.Logger != nil {
			cfg.Logger.Debug("Role check passed",
				zap.String("actor_id", actor.UserID.String()),
				zap.Any("required_any", roles),
			)
		}

		c.Next()
	}
}

func hasAnyRole(actor identity.Actor, roles []identity.Role) bool {
	for _, r := range roles {
		if actor.HasRole(r) {
			return true
		}
	}
	return false
}

// handleRoleDenied aborts the request with 403
func handleRoleDenied(c *gin.Context, cfg RoleConfig, roles []identity.Role, reason string) {
	if cfg.OnDenied != nil {
		cfg.OnDenied(c, roles)
		return
	}

	if cfg.Logger != nil {
		cfg.Logger.Warn("Role check failed",
			zap.String("reason", reason),
			zap.Any("required_any", roles),
			zap.String("path", c.Request.URL.Path),
		)
	}

	c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
		dto.ErrCodeForbidden,
		"You do not have the role required for this operation",
	))
}
