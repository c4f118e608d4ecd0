package middleware

import (
	"time"

	"adhub/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request. Server errors log at error level.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		kv := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"ip", c.ClientIP(),
		}
		if uid := GetUserID(c); uid != 0 {
			kv = append(kv, "user_id", uid)
		}
		if c.Writer.Status() >= 500 {
			log.Errorw("request", append(kv, "errors", c.Errors.String())...)
			return
		}
		log.Debugw("request", kv...)
	}
}
