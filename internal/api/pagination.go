package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// pageParams reads page and limit from the query string. Missing values fall
// back to the defaults; malformed ones are reported by field name.
func pageParams(c *gin.Context) (int, int, string, bool) {
	page, limit := 1, service.DefaultPageSize
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return 0, 0, "page", false
		}
		page = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return 0, 0, "limit", false
		}
		limit = n
	}
	page, limit = service.NormalizePage(page, limit)
	return page, limit, "", true
}

// newPage wraps results with links to the neighbouring pages of the
// current request
func newPage[T any](c *gin.Context, results []T, total int64, page, limit int) types.Page[T] {
	if results == nil {
		results = []T{}
	}
	p := types.Page[T]{Count: total, Results: results}
	if int64(page*limit) < total {
		next := pageURL(c, page+1)
		p.Next = &next
	}
	if page > 1 {
		prev := pageURL(c, page-1)
		p.Previous = &prev
	}
	return p
}

func pageURL(c *gin.Context, page int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	u := *c.Request.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	u.Scheme = scheme
	u.Host = c.Request.Host
	return u.String()
}
