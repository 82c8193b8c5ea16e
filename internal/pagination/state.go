package pagination

// State tracks the current page of a filtered listing. Any change of the
// filter key or the page size moves it back to the first page.
type State struct {
	key string
	req Request
}

func NewState(defaultSize int) *State {
	return &State{req: Request{Page: DefaultPage, PageSize: defaultSize}}
}

// Restore puts the state back to what a previous request rendered.
func (s *State) Restore(key string, page, pageSize int) {
	s.key = key
	s.req = NewRequest(page, pageSize, s.req.PageSize)
}

// SetKey records the fingerprint of the current filters.
func (s *State) SetKey(key string) {
	if key != s.key {
		s.key = key
		s.req.Page = DefaultPage
	}
}

func (s *State) SetPageSize(n int) {
	if !ValidPageSize(n) {
		return
	}
	if n != s.req.PageSize {
		s.req.PageSize = n
		s.req.Page = DefaultPage
	}
}

func (s *State) SetPage(n int) {
	if n < DefaultPage {
		n = DefaultPage
	}
	s.req.Page = n
}

func (s *State) Key() string {
	return s.key
}

func (s *State) Request() Request {
	return s.req
}
