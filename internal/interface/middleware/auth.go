package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-microblog/pkg/helpers"
	"github.com/oksasatya/go-microblog/pkg/response"
)

// identityKey is where Auth stores the validated identity in the gin
// context. Only this package writes it.
const identityKey = "auth.identity"

// Identity proves a request was authorized on behalf of a user. The uuid
// field is unexported so an Identity can only be produced by the Auth
// middleware; handlers receive it, they cannot forge it.
type Identity struct {
	userUUID string
}

// UserUUID returns the authenticated user's identifier.
func (id Identity) UserUUID() string { return id.userUUID }

// Auth is the gatekeeper for every protected route. It extracts the
// bearer token from the Authorization header and validates it against
// the token service. Stateless: no credential-store lookup happens here,
// the signed token is the trust boundary.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error[any](c, http.StatusUnauthorized, response.CodeUnauthenticated, "no authentication token sent", nil)
			c.Abort()
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, response.CodeUnauthenticated, "invalid authentication token sent", nil)
			c.Abort()
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			// Expired and malformed collapse to the same outcome.
			response.Error[any](c, http.StatusUnauthorized, response.CodeUnauthenticated, "invalid authentication token sent", nil)
			c.Abort()
			return
		}
		c.Set(identityKey, Identity{userUUID: claims.UUID})
		c.Next()
	}
}

// IdentityFrom retrieves the identity set by Auth. The second return is
// false on routes that did not pass through the middleware.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
