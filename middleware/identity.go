package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/open436/section-service/utils"
)

// ContextIdentityKey stores the caller identity inside Gin context.
const ContextIdentityKey = "identity"

// Gateway injected headers. The upstream gateway authenticates the
// caller and forwards who they are; this service trusts the values.
const (
	HeaderUserID   = "X-User-Id"
	HeaderUsername = "X-Username"
	HeaderUserRole = "X-User-Role"
)

// RoleAdmin is the role required for mutating endpoints.
const RoleAdmin = "admin"

// Identity describes the caller as reported by the gateway.
type Identity struct {
	UserID   uint
	Username string
	Role     string
}

// IsAdmin reports whether the identity carries the admin role.
func (id Identity) IsAdmin() bool {
	return id.Role == RoleAdmin
}

// GatewayIdentity extracts identity headers into an Identity value on
// the request context. Requests without a parseable X-User-Id stay
// anonymous; they are only rejected at the authorization check.
func GatewayIdentity() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		rawID := ctx.GetHeader(HeaderUserID)
		if rawID == "" {
			ctx.Next()
			return
		}

		userID, err := strconv.ParseUint(rawID, 10, 64)
		if err != nil {
			if utils.Sugar != nil {
				utils.Sugar.Warnf("invalid %s header: %q", HeaderUserID, rawID)
			}
			ctx.Next()
			return
		}

		role := ctx.GetHeader(HeaderUserRole)
		if role == "" {
			role = "user"
		}

		ctx.Set(ContextIdentityKey, Identity{
			UserID:   uint(userID),
			Username: ctx.GetHeader(HeaderUsername),
			Role:     role,
		})
		ctx.Next()
	}
}

// GetIdentity returns the identity attached by GatewayIdentity.
func GetIdentity(ctx *gin.Context) (Identity, bool) {
	value, exists := ctx.Get(ContextIdentityKey)
	if !exists {
		return Identity{}, false
	}
	id, ok := value.(Identity)
	return id, ok
}

// AdminRequired rejects anonymous callers with 401 and authenticated
// non-admins with 403.
func AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, ok := GetIdentity(ctx)
		if !ok {
			utils.Error(ctx, http.StatusUnauthorized, "Unauthorized", "authentication required")
			ctx.Abort()
			return
		}
		if !id.IsAdmin() {
			utils.Error(ctx, http.StatusForbidden, "Forbidden", "admin role required")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
