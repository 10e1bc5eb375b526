package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"realestate3d/internal/service"
	httpez "realestate3d/internal/transport/http/ez"
)

// MapError 业务错误 → HTTP 状态：Invalid/Conflict 400，NotFound 404，InvalidCredentials 401
func MapError(err error) error {
	var se *service.Error
	if !errors.As(err, &se) {
		return err
	}
	switch {
	case errors.Is(se.Kind, service.ErrInvalid), errors.Is(se.Kind, service.ErrConflict):
		return httpez.BadRequest(se.Msg)
	case errors.Is(se.Kind, service.ErrNotFound):
		return httpez.NotFound(se.Msg)
	case errors.Is(se.Kind, service.ErrInvalidCredentials):
		return httpez.Unauthorized(se.Msg)
	}
	return err
}

// origin 当前请求的 scheme://host，用来拼资源绝对地址
func origin(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if p := c.GetHeader("X-Forwarded-Proto"); p != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(p, ",")[0]))
	}
	return scheme + "://" + c.Request.Host
}

// flexString 接受 JSON 字符串或数字（表单里本来就是字符串）
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*f = flexString(n.String())
	return nil
}

func (f flexString) String() string { return strings.TrimSpace(string(f)) }

// required 纯空白也算缺字段，binding:"required" 只挡空串
func required(vs ...string) error {
	for _, v := range vs {
		if strings.TrimSpace(v) == "" {
			return httpez.ErrMissing
		}
	}
	return nil
}

// parseID 路径/入参里的数字 id；非法时返回 ok=false
func parseID(s string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// openUpload 打开 multipart 文件；fh 为空时返回 nil
func openUpload(fh *multipart.FileHeader) (*service.Upload, func(), error) {
	if fh == nil {
		return nil, func() {}, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, httpez.BadRequest("cannot read upload " + fh.Filename)
	}
	return &service.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, func() { _ = f.Close() }, nil
}

type created[T any] struct {
	body T
	ok   bool
}

func (c created[T]) MarshalJSON() ([]byte, error) { return json.Marshal(c.body) }

func (c created[T]) StatusCode() int {
	if c.ok {
		return http.StatusCreated
	}
	return http.StatusOK
}
