package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tasksync/tasksync-api/internal/constants"
)

// PaginationParams are the sanitized paging inputs for the admin task list.
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationResponse is the paging metadata returned alongside a list.
type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// GetPaginationParams reads page and limit from the query string and clamps
// them into range. An out-of-range limit falls back to the default rather
// than the nearest bound.
func GetPaginationParams(c *gin.Context) PaginationParams {
	page := intQuery(c, "page", constants.MinPageSize)
	limit := intQuery(c, "limit", constants.DefaultPageSize)

	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

func intQuery(c *gin.Context, key string, fallback int) int {
	value, err := strconv.Atoi(c.DefaultQuery(key, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return value
}
