package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinRequireOperator adapts the net/http AuthMiddleware to Gin so both
// kinds of handlers share one session check.
func GinRequireOperator(auth *AuthMiddleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Bridge handler to allow net/http middleware execution
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Next()
		})

		handler := auth.RequireOperator(next)
		handler.ServeHTTP(c.Writer, c.Request)

		// If auth middleware already handled the response, stop Gin chain
		if c.Writer.Written() {
			c.Abort()
			return
		}
	}
}
