package api

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

const (
	defaultPageLimit = 6
	maxPageLimit     = 100
)

// pageParams reads limit and offset. A missing limit yields 0, which the
// plain-array lists treat as "everything".
func pageParams(c *gin.Context) (types.PageRequest, error) {
	verr := &service.ValidationError{}
	page := types.PageRequest{
		Limit:  queryInt(c, "limit", verr),
		Offset: queryInt(c, "offset", verr),
	}
	if page.Limit > maxPageLimit {
		page.Limit = maxPageLimit
	}
	return page, verr.Err()
}

// paginatedParams is pageParams with the default page size applied.
func paginatedParams(c *gin.Context) (types.PageRequest, error) {
	page, err := pageParams(c)
	if page.Limit == 0 {
		page.Limit = defaultPageLimit
	}
	return page, err
}

// queryInt parses a non-negative integer query parameter, 0 when absent.
func queryInt(c *gin.Context, key string, verr *service.ValidationError) int {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		verr.Add(key, "A non-negative integer is required.")
		return 0
	}
	return n
}

// newPage builds the {count,next,previous,results} body with absolute links
// relative to the current request.
func newPage[T any](c *gin.Context, page types.PageRequest, total int64, results []T) types.Page[T] {
	if results == nil {
		results = []T{}
	}
	out := types.Page[T]{Count: total, Results: results}

	if int64(page.Offset+page.Limit) < total {
		out.Next = pageLink(c, page.Limit, page.Offset+page.Limit)
	}
	if page.Offset > 0 {
		prev := page.Offset - page.Limit
		if prev < 0 {
			prev = 0
		}
		out.Previous = pageLink(c, page.Limit, prev)
	}
	return out
}

func pageLink(c *gin.Context, limit, offset int) *string {
	u := url.URL{
		Scheme: requestScheme(c),
		Host:   c.Request.Host,
		Path:   c.Request.URL.Path,
	}
	q := c.Request.URL.Query()
	q.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	} else {
		q.Del("offset")
	}
	u.RawQuery = q.Encode()
	link := u.String()
	return &link
}

func requestScheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}

// baseURL is the absolute origin the client used to reach the server.
func baseURL(c *gin.Context) string {
	return requestScheme(c) + "://" + c.Request.Host
}
