package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenVerifier checks a preorder bearer token and returns its preorder id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// PreorderAuth requires "Authorization: Bearer <token>" issued for the
// preorder named by the :id path parameter.
func PreorderAuth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}
		id, err := v.Verify(strings.TrimSpace(token))
		if err != nil || id != c.Param("id") {
			abortUnauthorized(c, "token does not grant access to this preorder")
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":      msg,
		"code":       "unauthorized",
		"message":    msg,
		"request_id": GetRequestID(c),
	})
}
