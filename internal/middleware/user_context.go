package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"team-timelog/internal/identity"
	"team-timelog/internal/models"
)

const (
	profileKey      = "profile"
	profileErrorKey = "profile_error"
)

// Landing page error flags.
const (
	ErrorProfileCreation = "profile_creation_failed"
	ErrorProfileLoad     = "profile_load_failed"
	ErrorAuth            = "auth_error"
)

type ProfileResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID, email string) (models.Profile, error)
}

// LoadProfile resolves the signed-in user's profile once per request.
// Anonymous requests pass through untouched.
func LoadProfile(resolver ProfileResolver, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := identity.CurrentUser(c)
		if !ok {
			c.Next()
			return
		}

		p, err := resolver.Resolve(c.Request.Context(), user.ID, user.Email)
		if err != nil {
			log.WithError(err).WithFields(logrus.Fields{
				"user_id":    user.ID,
				"request_id": c.GetString(RequestIDKey),
			}).Error("failed to resolve profile")
			c.Set(profileErrorKey, err)
			c.Next()
			return
		}

		c.Set(profileKey, p)
		c.Next()
	}
}

// CurrentProfile returns the profile LoadProfile resolved for this request.
func CurrentProfile(c *gin.Context) (models.Profile, bool) {
	p, ok := c.Get(profileKey)
	if !ok {
		return models.Profile{}, false
	}
	profile, ok := p.(models.Profile)
	return profile, ok
}

// ProfileError returns the landing error flag for a failed profile
// resolution, or "" when there was none.
func ProfileError(c *gin.Context) string {
	v, ok := c.Get(profileErrorKey)
	if !ok {
		return ""
	}
	if err, _ := v.(error); errors.Is(err, models.ErrProfileCreation) {
		return ErrorProfileCreation
	}
	return ErrorProfileLoad
}

// Actor describes who is making this request, for the audit trail.
func Actor(c *gin.Context) models.Actor {
	a := models.Actor{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
	if p, ok := CurrentProfile(c); ok {
		a.UserID = p.ID
	}
	return a
}

// DefaultPath is where a profile lands after signing in.
func DefaultPath(p models.Profile) string {
	if p.IsAdmin() {
		return "/dashboard"
	}
	return "/logger"
}
