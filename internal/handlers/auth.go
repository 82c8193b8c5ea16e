package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"team-timelog/internal/identity"
	"team-timelog/internal/middleware"
	"team-timelog/internal/models"
)

func (h *Handler) Login(c *gin.Context) {
	state, err := identity.NewState(c)
	if err != nil {
		h.logError(c, err, "failed to store login state")
		c.Redirect(http.StatusFound, "/?error="+middleware.ErrorAuth)
		return
	}
	c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

// Callback finishes the provider round trip and sends the user to the page
// for their role.
func (h *Handler) Callback(c *gin.Context) {
	code := c.Query("code")
	valid, err := identity.ConsumeState(c, c.Query("state"))
	if err != nil {
		h.logError(c, err, "failed to save session")
		c.Redirect(http.StatusFound, "/?error="+middleware.ErrorAuth)
		return
	}
	if !valid || code == "" {
		h.log.WithField("request_id", c.GetString(middleware.RequestIDKey)).Warn("oauth callback with missing code or bad state")
		c.Redirect(http.StatusFound, "/?error="+middleware.ErrorAuth)
		return
	}

	user, err := h.provider.Exchange(c.Request.Context(), code)
	if err != nil {
		h.logError(c, err, "oauth exchange failed")
		c.Redirect(http.StatusFound, "/?error="+middleware.ErrorAuth)
		return
	}

	if err := identity.SignIn(c, user); err != nil {
		h.logError(c, err, "failed to save session")
		c.Redirect(http.StatusFound, "/?error="+middleware.ErrorAuth)
		return
	}

	p, err := h.profiles.Resolve(c.Request.Context(), user.ID, user.Email)
	if err != nil {
		h.logError(c, err, "failed to resolve profile")
		flag := middleware.ErrorProfileLoad
		if errors.Is(err, models.ErrProfileCreation) {
			flag = middleware.ErrorProfileCreation
		}
		c.Redirect(http.StatusFound, "/?error="+flag)
		return
	}

	c.Redirect(http.StatusFound, middleware.DefaultPath(p))
}

func (h *Handler) Logout(c *gin.Context) {
	if err := identity.SignOut(c); err != nil {
		h.logError(c, err, "failed to clear session")
	}
	c.Redirect(http.StatusFound, "/")
}
