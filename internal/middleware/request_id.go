package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shopfront/internal/models"
)

const requestIDKey = "request_id"

// RequestID keeps the id the shopfront client sent, or mints one, and echoes
// it back so a failed call can be matched to its log line.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(models.RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Set(requestIDKey, id)
		c.Writer.Header().Set(models.RequestIDHeader, id)

		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
