package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"team-timelog/internal/middleware"
	"team-timelog/internal/models"
)

// userMessage turns an error into the toast shown for it. action is the
// verb that failed, e.g. "save".
func userMessage(err error, action string) string {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, models.ErrForbidden):
		return "You are not allowed to " + action + " this"
	case errors.Is(err, models.ErrNotFound):
		return "Could not " + action + ": the entry no longer exists"
	default:
		return "Could not " + action + ", please retry"
	}
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusServiceUnavailable
	}
}

// logError records failures worth an operator's attention. Validation and
// stale reads are expected and stay quiet.
func (h *Handler) logError(c *gin.Context, err error, msg string) {
	if errors.Is(err, models.ErrValidation) || errors.Is(err, models.ErrStale) {
		return
	}
	entry := h.log.WithError(err).WithField("request_id", c.GetString(middleware.RequestIDKey))
	if p, ok := middleware.CurrentProfile(c); ok {
		entry = entry.WithField("user_id", p.ID)
	}
	var rerr *models.RemoteCallError
	if errors.As(err, &rerr) {
		entry = entry.WithField("op", rerr.Op)
	}
	if errors.Is(err, models.ErrForbidden) || errors.Is(err, models.ErrNotFound) {
		entry.Warn(msg)
		return
	}
	entry.WithFields(logrus.Fields{"path": c.Request.URL.Path}).Error(msg)
}
