package httpapi

import (
	"errors"
	"net/http"
	"strconv"
)

// DefaultPageSize matches the original storefront's page size.
const DefaultPageSize = 12

var errInvalidPage = errors.New("invalid page")

// Page is the list envelope: next/previous are relative URLs of the
// adjacent pages, null at either end.
type Page struct {
	Count    int         `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// pageParam parses ?page=; absent means page 1. Requesting a page past
// the end of the list is an error, except page 1 of an empty list.
func pageParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, errInvalidPage
	}
	return page, nil
}

func newPage(r *http.Request, count, page, pageSize int, results interface{}) Page {
	envelope := Page{Count: count, Results: results}
	if page*pageSize < count {
		envelope.Next = pageURL(r, page+1)
	}
	if page > 1 {
		envelope.Previous = pageURL(r, page-1)
	}
	return envelope
}

func pageURL(r *http.Request, page int) *string {
	u := *r.URL
	q := u.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	s := u.RequestURI()
	return &s
}
