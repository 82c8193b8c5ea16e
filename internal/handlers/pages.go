package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"team-timelog/internal/identity"
	"team-timelog/internal/middleware"
)

// landingErrors are the error flags the landing page knows how to explain.
var landingErrors = map[string]string{
	middleware.ErrorAuth:            "Sign-in failed. Please try again.",
	middleware.ErrorProfileCreation: "We could not set up your profile. Please try again later.",
	middleware.ErrorProfileLoad:     "We could not load your profile. Please try again later.",
}

// Index is the landing page. Signed-in users with a profile never get here;
// RedirectAuthenticated sends them on.
func (h *Handler) Index(c *gin.Context) {
	flag := c.Query("error")
	if flag == "" {
		flag = middleware.ProfileError(c)
	}
	_, signedIn := identity.CurrentUser(c)

	h.render(c, http.StatusOK, "index.html", gin.H{
		"Error":    landingErrors[flag],
		"SignedIn": signedIn,
	})
}

func (h *Handler) Health(c *gin.Context) {
	if h.ping != nil {
		if err := h.ping(c.Request.Context()); err != nil {
			h.log.WithError(err).Warn("health check failed")
			c.String(http.StatusServiceUnavailable, "unavailable")
			return
		}
	}
	c.String(http.StatusOK, "ok")
}
