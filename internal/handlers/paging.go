package handlers

import (
	"net/url"
	"strconv"

	"team-timelog/internal/pagination"
)

type pageLinks struct {
	Prev string
	Next string
}

// links builds the previous/next URLs for base, carrying the filters in v.
func links[T any](base string, v url.Values, p pagination.Page[T]) pageLinks {
	at := func(page int) string {
		q := url.Values{}
		for k, vals := range v {
			q[k] = vals
		}
		q.Set("page", strconv.Itoa(page))
		q.Set("page_size", strconv.Itoa(p.PageSize))
		return base + "?" + q.Encode()
	}

	var l pageLinks
	if p.HasPrev() {
		l.Prev = at(p.PrevPage())
	}
	if p.HasNext() {
		l.Next = at(p.NextPage())
	}
	return l
}

func queryInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
