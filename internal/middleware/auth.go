package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"team-timelog/internal/identity"
)

// RequireAuth sends anonymous visitors to the landing page. A signed-in user
// whose profile could not be resolved lands there with the error flag.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := identity.CurrentUser(c); !ok {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		if flag := ProfileError(c); flag != "" {
			c.Redirect(http.StatusFound, "/?error="+flag)
			c.Abort()
			return
		}
		if _, ok := CurrentProfile(c); !ok {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin sends members back to their calendar. It must run after
// RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentProfile(c)
		if !ok || !p.IsAdmin() {
			c.Redirect(http.StatusFound, "/logger")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RedirectAuthenticated sends a signed-in user with a profile to their
// default page.
func RedirectAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if p, ok := CurrentProfile(c); ok {
			c.Redirect(http.StatusFound, DefaultPath(p))
			c.Abort()
			return
		}
		c.Next()
	}
}
