package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vetdesk/backend/internal/domain/shared"
)

// parseFilter extracts common list parameters from the query string
func parseFilter(c *gin.Context) shared.Filter {
	filter := shared.DefaultFilter()

	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if pageSize, err := strconv.Atoi(c.Query("page_size")); err == nil && pageSize > 0 && pageSize <= 100 {
		filter.PageSize = pageSize
	}
	if search := c.Query("search"); search != "" {
		filter.Search = search
	}
	if orderBy := c.Query("order_by"); orderBy != "" {
		filter.OrderBy = orderBy
	}
	if orderDir := c.Query("order_dir"); orderDir == "asc" || orderDir == "desc" {
		filter.OrderDir = orderDir
	}

	return filter
}

// parseDayParam parses a YYYY-MM-DD query parameter, defaulting to today
// when absent.
func parseDayParam(c *gin.Context, param string) (time.Time, error) {
	value := c.Query(param)
	if value == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	return time.ParseInLocation("2006-01-02", value, time.Local)
}

// parseTimeParam parses an RFC 3339 query parameter
func parseTimeParam(c *gin.Context, param string) (time.Time, error) {
	return time.Parse(time.RFC3339, c.Query(param))
}
