package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"gstengine/internal/domain"
)

// actorHeader names the caller recorded on audit events.
const actorHeader = "X-Actor"

const defaultActor = "anonymous"

func actorFrom(c *gin.Context) string {
	if actor := strings.TrimSpace(c.GetHeader(actorHeader)); actor != "" {
		return actor
	}
	return defaultActor
}

// optionalQuery returns nil when the parameter is absent or blank.
func optionalQuery(c *gin.Context, key string) *string {
	v, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	if v = strings.TrimSpace(v); v == "" {
		return nil
	}
	return &v
}

// optionalDate parses a YYYY-MM-DD value. A nil result leaves the date to the service.
func optionalDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	return domain.ParseOptionalDate(*s)
}

func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
