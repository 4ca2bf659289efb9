// Package pagination implements page number pagination for list endpoints.
package pagination

import (
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"
)

const (
	DefaultLimit = 6
	MaxLimit     = 100

	PageParam  = "page"
	LimitParam = "limit"
)

var (
	ErrInvalidPage  = errors.New("page must be a positive integer")
	ErrInvalidLimit = errors.New("limit must be a positive integer")
)

// Page is a requested page of results.
type Page struct {
	Number int32
	Limit  int32
}

func (p Page) Offset() int32 {
	return (p.Number - 1) * p.Limit
}

// Response is the envelope returned by paginated endpoints.
type Response[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// FromRequest reads the page and limit query parameters. Limits above
// MaxLimit are clamped. Pages whose offset does not fit in an int32 are
// rejected with ErrInvalidPage.
func FromRequest(r *http.Request) (Page, error) {
	page := Page{Number: 1, Limit: DefaultLimit}
	query := r.URL.Query()

	if raw := query.Get(PageParam); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || n < 1 {
			return Page{}, ErrInvalidPage
		}
		page.Number = int32(n)
	}
	if raw := query.Get(LimitParam); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || n < 1 {
			return Page{}, ErrInvalidLimit
		}
		page.Limit = int32(min(n, MaxLimit))
	}
	if (int64(page.Number)-1)*int64(page.Limit) > math.MaxInt32 {
		return Page{}, ErrInvalidPage
	}
	return page, nil
}

// New builds the envelope for results of page out of count rows. Next and
// previous links keep the other query parameters of r and are made absolute
// against origin.
func New[T any](r *http.Request, origin string, page Page, count int64, results []T) Response[T] {
	if results == nil {
		results = []T{}
	}
	resp := Response[T]{Count: count, Results: results}
	if int64(page.Number)*int64(page.Limit) < count {
		resp.Next = pageURL(r, origin, page.Number+1)
	}
	if page.Number > 1 {
		resp.Previous = pageURL(r, origin, page.Number-1)
	}
	return resp
}

func pageURL(r *http.Request, origin string, number int32) *string {
	u := url.URL{Path: r.URL.Path}
	if base, err := url.Parse(origin); err == nil {
		u.Scheme = base.Scheme
		u.Host = base.Host
	}
	query := r.URL.Query()
	if number == 1 {
		query.Del(PageParam)
	} else {
		query.Set(PageParam, strconv.FormatInt(int64(number), 10))
	}
	u.RawQuery = query.Encode()
	s := u.String()
	return &s
}
