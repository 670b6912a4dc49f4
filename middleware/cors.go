package middleware

import (
	"net/http"
	"os"
	"strings"

	"homefolio-api/pkg/appenv"

	"github.com/gin-gonic/gin"
)

const (
	corsMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsHeaders = "Origin, Content-Type, Authorization, X-Request-ID"
)

// CORSMiddleware reflects the Origin header for origins listed in the
// comma-separated ALLOWED_ORIGINS env var. In development any origin is
// accepted. Preflight requests are answered here and never reach handlers.
func CORSMiddleware() gin.HandlerFunc {
	allowAny := appenv.IsDevelopment() || appenv.IsTest()

	allowed := make(map[string]struct{})
	for _, o := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if origin := strings.TrimSpace(o); origin != "" {
			allowed[origin] = struct{}{}
		}
	}
	allowCredentials := strings.EqualFold(os.Getenv("ALLOW_CREDENTIALS"), "true")

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		c.Header("Vary", "Origin")

		switch {
		case allowAny:
			c.Header("Access-Control-Allow-Origin", "*")
			c.Header("Access-Control-Allow-Methods", corsMethods)
			c.Header("Access-Control-Allow-Headers", corsHeaders)
		case origin != "":
			if _, ok := allowed[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Access-Control-Allow-Methods", corsMethods)
				c.Header("Access-Control-Allow-Headers", corsHeaders)
				if allowCredentials {
					c.Header("Access-Control-Allow-Credentials", "true")
				}
			}
		}

		if c.Request.Method == http.MethodOptions {
			// Disallowed origins get a 204 without CORS headers; the browser
			// blocks the actual request.
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
