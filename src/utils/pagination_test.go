package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsFor(t *testing.T, rawQuery, defaultSort, defaultOrder string) PaginationParams {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest("GET", "/", nil)
	ctx.Request.URL.RawQuery = rawQuery
	return GetPaginationParams(ctx, defaultSort, defaultOrder)
}

func TestPaginationDefaults(t *testing.T) {
	p := paramsFor(t, "", "fecha", "asc")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 0, p.Skip)
	assert.Equal(t, "fecha", p.Sort)
	assert.False(t, p.Desc)
}

func TestPaginationClamps(t *testing.T) {
	cases := []struct {
		query string
		page  int
		limit int
		skip  int
	}{
		{"page=0&limit=0", 1, 10, 0},
		{"page=-5&limit=-1", 1, 1, 0},
		{"page=99999&limit=1000", 10_000, 100, 9_999 * 100},
		{"page=abc&limit=xyz", 1, 10, 0},
		{"page=3&limit=25", 3, 25, 50},
	}
	for _, c := range cases {
		p := paramsFor(t, c.query, "fecha", "asc")
		assert.Equal(t, c.page, p.Page, c.query)
		assert.Equal(t, c.limit, p.Limit, c.query)
		assert.Equal(t, c.skip, p.Skip, c.query)
	}
}

func TestPaginationOrderRules(t *testing.T) {
	// An ascending-default listing flips only on order=desc.
	p := paramsFor(t, "", "fecha", "asc")
	assert.Equal(t, "ASC", p.Direction())
	p = paramsFor(t, "order=desc", "fecha", "asc")
	assert.Equal(t, "DESC", p.Direction())
	p = paramsFor(t, "order=banana", "fecha", "asc")
	assert.Equal(t, "ASC", p.Direction())

	// A descending-default listing flips only on order=asc.
	p = paramsFor(t, "", "createdAt", "desc")
	assert.Equal(t, "DESC", p.Direction())
	p = paramsFor(t, "order=asc", "createdAt", "desc")
	assert.Equal(t, "ASC", p.Direction())
	p = paramsFor(t, "order=banana", "createdAt", "desc")
	assert.Equal(t, "DESC", p.Direction())
}

func TestSortColumnAllowlist(t *testing.T) {
	allowed := map[string]string{"fecha": "fecha", "precioBase": "precio_base"}

	p := paramsFor(t, "sort=precioBase", "fecha", "asc")
	assert.Equal(t, "precio_base", p.SortColumn(allowed, "fecha"))

	p = paramsFor(t, "sort=password;DROP TABLE users", "fecha", "asc")
	assert.Equal(t, "fecha", p.SortColumn(allowed, "fecha"))
}

func TestEscapeLike(t *testing.T) {
	cases := map[string]string{
		"plain":      "plain",
		"100%":       `100\%`,
		"under_dog":  `under\_dog`,
		`back\slash`: `back\\slash`,
		`%_\`:        `\%\_\\`,
	}
	for in, want := range cases {
		assert.Equal(t, want, EscapeLike(in))
	}
}
