package team

import (
	"strconv"
	"strings"
	"time"

	"team-timelog/internal/calendar"
	"team-timelog/internal/models"
	"team-timelog/internal/pagination"
)

const DefaultPageSize = 10

type DateFilter string

const (
	DateAll     DateFilter = "all"
	DateGreater DateFilter = "greater"
	DateLess    DateFilter = "less"
	DateBetween DateFilter = "between"
)

// ParseDateFilter falls back to DateAll for anything unknown.
func ParseDateFilter(s string) DateFilter {
	switch f := DateFilter(s); f {
	case DateGreater, DateLess, DateBetween:
		return f
	}
	return DateAll
}

// DashboardQuery holds the dashboard filters.
type DashboardQuery struct {
	Email      string
	DateFilter DateFilter
	From       *time.Time
	To         *time.Time
}

// Filter converts the query to a store filter. A date filter missing one of
// its bounds is not applied.
func (q DashboardQuery) Filter() models.TimeLogFilter {
	f := models.TimeLogFilter{EmailContains: strings.TrimSpace(q.Email)}
	switch q.DateFilter {
	case DateGreater:
		if q.From != nil {
			f.From = q.From
		}
	case DateLess:
		if q.To != nil {
			f.To = q.To
		}
	case DateBetween:
		if q.From != nil && q.To != nil {
			f.From, f.To = q.From, q.To
		}
	}
	return f
}

// Key fingerprints the filters that are actually applied.
func (q DashboardQuery) Key() string {
	f := q.Filter()
	parts := []string{strings.ToLower(f.EmailContains), "", ""}
	if f.From != nil {
		parts[1] = calendar.FormatDay(*f.From)
	}
	if f.To != nil {
		parts[2] = calendar.FormatDay(*f.To)
	}
	return strings.Join(parts, "|")
}

// DashboardState carries filters and paging between dashboard requests.
// Changing a filter or the page size returns to the first page.
type DashboardState struct {
	query DashboardQuery
	pages *pagination.State
}

func NewDashboardState() *DashboardState {
	return &DashboardState{query: DashboardQuery{DateFilter: DateAll}, pages: pagination.NewState(DefaultPageSize)}
}

// Restore loads the state a previous page was rendered with.
func (s *DashboardState) Restore(key string, page, pageSize int) {
	s.pages.Restore(key, page, pageSize)
}

func (s *DashboardState) SetQuery(q DashboardQuery) {
	if q.DateFilter == "" {
		q.DateFilter = DateAll
	}
	s.query = q
	s.pages.SetKey(s.key())
}

func (s *DashboardState) SetPageSize(n int) {
	s.pages.SetPageSize(n)
	s.pages.SetKey(s.key())
}

func (s *DashboardState) SetPage(n int) {
	s.pages.SetPage(n)
}

func (s *DashboardState) ResetFilters() {
	s.SetQuery(DashboardQuery{})
}

func (s *DashboardState) Query() DashboardQuery {
	return s.query
}

func (s *DashboardState) Request() pagination.Request {
	return s.pages.Request()
}

// Key is the fingerprint to send back with the next request.
func (s *DashboardState) Key() string {
	return s.pages.Key()
}

func (s *DashboardState) key() string {
	return s.query.Key() + "|" + strconv.Itoa(s.pages.Request().PageSize)
}
