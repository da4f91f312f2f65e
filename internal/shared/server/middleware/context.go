package middleware

import "github.com/gin-gonic/gin"

const (
	userIDKey    = "userId"
	historyIDKey = "historyId"
)

// SetUserID records the profile uuid a request operates on, for logging.
func SetUserID(c *gin.Context, userID string) {
	if userID != "" {
		c.Set(userIDKey, userID)
	}
}

// SetHistoryID records the history entry a request touched, for logging.
func SetHistoryID(c *gin.Context, historyID string) {
	if historyID != "" {
		c.Set(historyIDKey, historyID)
	}
}

// UserIDFromContext returns the uuid set by a handler, if any.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userIDKey)
}

// HistoryIDFromContext returns the history id set by a handler, if any.
func HistoryIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(historyIDKey)
}
