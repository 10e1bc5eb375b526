package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	resp "realestate3d/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小；handler 读超限且没写响应时补 413
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
		if c.Writer.Written() {
			return
		}
		for _, e := range c.Errors {
			var tooLarge *http.MaxBytesError
			if errors.As(e.Err, &tooLarge) {
				resp.Abort(c, http.StatusRequestEntityTooLarge, "")
				return
			}
		}
	}
}
