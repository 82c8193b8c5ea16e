package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"team-timelog/internal/calendar"
	"team-timelog/internal/identity"
	"team-timelog/internal/middleware"
	"team-timelog/internal/models"
	"team-timelog/internal/roleview"
	"team-timelog/internal/timelog"
)

// loggerState is what the calendar page needs to come back to after a
// redirect: the month, the open day and whatever was typed in the dialog.
type loggerState struct {
	Month time.Time
	Day   *time.Time
	Hours string
}

func (h *Handler) loggerState(month, day, hours string) loggerState {
	st := loggerState{Month: calendar.StartOfMonth(calendar.Today(h.views.Now(), h.views.Location)), Hours: hours}
	if d, err := calendar.ParseDay(day); err == nil {
		st.Day = &d
		st.Month = calendar.StartOfMonth(d)
	}
	if m, err := calendar.ParseMonth(month); err == nil {
		st.Month = m
	}
	return st
}

func (st loggerState) url() string {
	v := url.Values{}
	v.Set("month", calendar.FormatMonth(st.Month))
	if st.Day != nil {
		v.Set("day", calendar.FormatDay(*st.Day))
	}
	if st.Hours != "" {
		v.Set("hours", st.Hours)
	}
	return "/logger?" + v.Encode()
}

func (h *Handler) view(c *gin.Context) (roleview.RoleView, bool) {
	p, ok := middleware.CurrentProfile(c)
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return nil, false
	}
	return roleview.For(p, h.views, middleware.Actor(c)), true
}

// ShowLogger renders the month calendar, with the day dialog open when a
// day is selected.
func (h *Handler) ShowLogger(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	st := h.loggerState(c.Query("month"), c.Query("day"), c.Query("hours"))
	h.renderLogger(c, view, st, http.StatusOK, "")
}

func (h *Handler) renderLogger(c *gin.Context, view roleview.RoleView, st loggerState, status int, fieldError string) {
	ctx := c.Request.Context()
	data := gin.H{"State": st, "FieldError": fieldError}

	page, err := view.Calendar(ctx, st.Month)
	if err != nil {
		h.logError(c, err, "failed to load calendar")
		flashes := h.flashes(c)
		flashes = append(flashes, identity.Flash{Kind: identity.FlashError, Message: userMessage(err, "load time logs")})
		data["Flashes"] = flashes
		data["LoadFailed"] = true
		page = roleview.CalendarPage{Month: st.Month, Prev: st.Month.AddDate(0, -1, 0), Next: st.Month.AddDate(0, 1, 0)}
		status = errorStatus(err)
	}
	data["Page"] = page

	if st.Day != nil && err == nil {
		panel, err := view.Day(ctx, *st.Day)
		if err != nil {
			h.logError(c, err, "failed to load day")
		} else {
			if st.Hours != "" {
				panel.Hours = st.Hours
			}
			data["Panel"] = panel
		}
	}

	h.render(c, status, "logger.html", data)
}

type dayForm struct {
	Date  string `form:"date"`
	Hours string `form:"hours"`
	Month string `form:"month"`
}

// SaveDay upserts the signed-in member's hours for one day.
func (h *Handler) SaveDay(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	var form dayForm
	_ = c.ShouldBind(&form)
	form.Hours = strings.TrimSpace(form.Hours)

	day, err := calendar.ParseDay(form.Date)
	if err != nil {
		h.addFlash(c, identity.FlashError, "Pick a valid day")
		c.Redirect(http.StatusSeeOther, h.loggerState(form.Month, "", "").url())
		return
	}
	st := h.loggerState(form.Month, form.Date, form.Hours)

	err = view.SaveDay(c.Request.Context(), day, form.Hours)
	switch {
	case err == nil:
		h.addFlash(c, identity.FlashSuccess, fmt.Sprintf("Saved %sh for %s", displayHours(form.Hours), day.Format(displayDay)))
		c.Redirect(http.StatusSeeOther, loggerState{Month: st.Month}.url())
	case errors.Is(err, models.ErrValidation):
		h.renderLogger(c, view, st, http.StatusUnprocessableEntity, userMessage(err, "save"))
	default:
		h.logError(c, err, "failed to save time log")
		h.addFlash(c, identity.FlashError, userMessage(err, "save"))
		if errors.Is(err, models.ErrForbidden) {
			st = loggerState{Month: st.Month}
		}
		c.Redirect(http.StatusSeeOther, st.url())
	}
}

// DeleteDay removes the signed-in member's log for one day.
func (h *Handler) DeleteDay(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	var form dayForm
	_ = c.ShouldBind(&form)

	day, err := calendar.ParseDay(form.Date)
	if err != nil {
		h.addFlash(c, identity.FlashError, "Pick a valid day")
		c.Redirect(http.StatusSeeOther, h.loggerState(form.Month, "", "").url())
		return
	}
	st := h.loggerState(form.Month, form.Date, "")

	if err := view.DeleteDay(c.Request.Context(), day); err != nil {
		h.logError(c, err, "failed to delete time log")
		h.addFlash(c, identity.FlashError, userMessage(err, "delete"))
		c.Redirect(http.StatusSeeOther, st.url())
		return
	}

	h.addFlash(c, identity.FlashSuccess, "Deleted entry for "+day.Format(displayDay))
	c.Redirect(http.StatusSeeOther, loggerState{Month: st.Month}.url())
}

const displayDay = "02/01/2006"

func displayHours(s string) string {
	h, err := timelog.ParseHours(s)
	if err != nil {
		return s
	}
	return timelog.FormatHours(h)
}
