package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"statusgraph/service"
)

// UIDKey is the context key under which gates store the resolved actor id.
const UIDKey = "uid"

type credentials struct {
	Password string `json:"password" form:"password"`
}

// Gates are the precondition checks in front of every handler that takes a
// username path parameter. Existence resolution always runs before password
// extraction and verification.
type Gates struct {
	users *service.UserService
}

func NewGates(users *service.UserService) *Gates {
	return &Gates{users: users}
}

// UserExists resolves :username to an id and aborts with 404 when there is
// no such user. The resolved id is stored under UIDKey for the handler.
func (g *Gates) UserExists() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := g.resolve(c)
		if !ok {
			return
		}
		c.Set(UIDKey, uid)
		c.Next()
	}
}

// AuthRequired runs the existence check, then extracts a password from the
// request body (or query string) and verifies it against the stored digest.
func (g *Gates) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := g.resolve(c)
		if !ok {
			return
		}

		// ShouldBindBodyWith caches the body so handlers can bind it again.
		var creds credentials
		if c.Request.Body != nil && c.Request.ContentLength > 0 {
			_ = c.ShouldBindBodyWith(&creds, binding.JSON)
		}
		password := creds.Password
		if password == "" {
			password = c.Query("password")
		}
		if password == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "password is required"})
			return
		}

		valid, err := g.users.VerifyPassword(c.Request.Context(), uid, password)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
			return
		}
		if !valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
			return
		}

		c.Set(UIDKey, uid)
		c.Next()
	}
}

func (g *Gates) resolve(c *gin.Context) (uint64, bool) {
	username := c.Param("username")
	uid, err := g.users.ResolveID(c.Request.Context(), username)
	if err != nil {
		if service.KindOf(err) == service.KindNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "user does not exist"})
		} else {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
		}
		return 0, false
	}
	return uid, true
}

// UID returns the actor id stored by a gate.
func UID(c *gin.Context) uint64 {
	uid, _ := c.Get(UIDKey)
	id, _ := uid.(uint64)
	return id
}
