package audit

import (
	"strconv"

	"team-timelog/internal/pagination"
)

// State carries audit filters and paging between requests. Changing a
// filter or the page size returns to the first page.
type State struct {
	query Query
	pages *pagination.State
}

func NewState() *State {
	return &State{pages: pagination.NewState(DefaultPageSize)}
}

func (s *State) Restore(key string, page, pageSize int) {
	s.pages.Restore(key, page, pageSize)
}

func (s *State) SetQuery(q Query) {
	s.query = q
	s.pages.SetKey(s.key())
}

func (s *State) SetPageSize(n int) {
	s.pages.SetPageSize(n)
	s.pages.SetKey(s.key())
}

func (s *State) SetPage(n int) {
	s.pages.SetPage(n)
}

func (s *State) Query() Query {
	return s.query
}

func (s *State) Request() pagination.Request {
	return s.pages.Request()
}

func (s *State) Key() string {
	return s.pages.Key()
}

func (s *State) key() string {
	return s.query.Key() + "|" + strconv.Itoa(s.pages.Request().PageSize)
}
