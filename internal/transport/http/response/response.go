package response

import "github.com/gin-gonic/gin"

// Err 所有失败响应的统一结构
type Err struct {
	Error string `json:"error"`
}

func Error(code int, customMsg string) Err {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return Err{Error: msg}
}

// Abort 写错误并中断后续 handler
func Abort(c *gin.Context, code int, customMsg string) {
	c.AbortWithStatusJSON(code, Error(code, customMsg))
}

type Message struct {
	Message string `json:"message"`
}
