package main

import (
	"net/http"
	"strconv"

	"preludio/src/utils"

	"github.com/gin-gonic/gin"
)

// parseIDParam reads the :id path segment. Anything that is not a positive
// integer cannot name a stored record, so it short-circuits to 404 before
// any query runs.
func parseIDParam(ctx *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id < 1 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Recurso no encontrado"})
		return 0, false
	}
	return uint(id), true
}

func listResponse(ctx *gin.Context, items any, total int64, p utils.PaginationParams) {
	ctx.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": total,
		"page":  p.Page,
		"limit": p.Limit,
	})
}
