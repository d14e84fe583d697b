package utils

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type PaginationParams struct {
	Q     string
	Page  int
	Limit int
	Skip  int
	Sort  string
	Desc  bool
}

func Clamp(n, min, max int) int {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

// GetPaginationParams parses q/page/limit/sort/order off the query string.
// Page is clamped to [1,10000] and limit to [1,100]; non-numeric input falls
// back to the defaults. The order default is per endpoint: a listing that
// defaults ascending flips only on order=desc, and one that defaults
// descending flips only on order=asc.
func GetPaginationParams(ctx *gin.Context, defaultSort, defaultOrder string) PaginationParams {
	page, err := strconv.Atoi(ctx.Query("page"))
	if err != nil || page == 0 {
		page = 1
	}
	limit, err := strconv.Atoi(ctx.Query("limit"))
	if err != nil || limit == 0 {
		limit = 10
	}
	page = Clamp(page, 1, 10_000)
	limit = Clamp(limit, 1, 100)

	sort := ctx.DefaultQuery("sort", defaultSort)
	order := ctx.DefaultQuery("order", defaultOrder)
	var desc bool
	if defaultOrder == "asc" {
		desc = order == "desc"
	} else {
		desc = order != "asc"
	}

	return PaginationParams{
		Q:     ctx.Query("q"),
		Page:  page,
		Limit: limit,
		Skip:  (page - 1) * limit,
		Sort:  sort,
		Desc:  desc,
	}
}

// SortColumn maps the requested sort key onto a real column through an
// allowlist; anything unknown falls back to the endpoint default.
func (p PaginationParams) SortColumn(allowed map[string]string, fallback string) string {
	if col, ok := allowed[p.Sort]; ok {
		return col
	}
	return fallback
}

func (p PaginationParams) Direction() string {
	if p.Desc {
		return "DESC"
	}
	return "ASC"
}

// EscapeLike escapes the LIKE/ILIKE metacharacters so a search term only
// ever matches literal occurrences.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
