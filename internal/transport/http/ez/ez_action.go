package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	resp "realestate3d/internal/transport/http/response"
)

type EZ struct {
	g      *gin.RouterGroup
	log    *zap.Logger
	mapErr func(error) error
}

// New mapErr 把业务错误转成 *AErr；nil 表示不转换
func New(g *gin.RouterGroup, log *zap.Logger, mapErr func(error) error) EZ {
	if log == nil {
		log = zap.NewNop()
	}
	return EZ{g: g, log: log, mapErr: mapErr}
}

// 绑定方式
type Binder string

const (
	BindBody  Binder = "body"  // 按 Content-Type 绑定 JSON / form / multipart
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// 统一错误对象
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: http.StatusBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: http.StatusUnauthorized, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: http.StatusNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}

// ErrMissing Validate 返回它时按 Action.Missing 回 400
var ErrMissing = errors.New("missing required fields")

// Validator 入参绑定后调用，处理 binding 标签表达不了的校验（比如纯空白）
type Validator interface{ Validate() error }

// StatusCoder 出参可自定义成功状态码（例如 201 / 200 二选一）
type StatusCoder interface{ StatusCode() int }

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PUT" | "DELETE"
	Path    string // 例："/login/"、"/bookings/:id/reschedule/"
	Binder  Binder
	Status  int    // 成功状态码，默认 200
	Missing string // binding:"required" 不满足时的提示；空则用校验器原文
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	okStatus := a.Status
	if okStatus == 0 {
		okStatus = http.StatusOK
	}

	h := func(c *gin.Context) {
		// 1) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindBody:
			bindErr = c.ShouldBind(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(bindErr, &tooLarge) {
				resp.Abort(c, http.StatusRequestEntityTooLarge, "")
				return
			}
			var verrs validator.ValidationErrors
			if errors.As(bindErr, &verrs) {
				resp.Abort(c, http.StatusBadRequest, a.missing(verrs))
				return
			}
			resp.Abort(c, http.StatusBadRequest, bindErr.Error())
			return
		}
		if v, ok := any(&in).(Validator); ok {
			if err := v.Validate(); err != nil {
				if errors.Is(err, ErrMissing) {
					err = BadRequest(a.missing(err))
				}
				e.fail(c, err)
				return
			}
		}

		// 2) 执行
		out, err := a.Handler(c, &in)
		if err != nil {
			e.fail(c, err)
			return
		}

		status := okStatus
		if sc, ok := any(out).(StatusCoder); ok {
			status = sc.StatusCode()
		}
		c.JSON(status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

func (a Action[I, O]) missing(err error) string {
	if a.Missing != "" {
		return a.Missing
	}
	return err.Error()
}

// fail 统一错误映射；未识别的错误一律 500 并带上原始信息
func (e EZ) fail(c *gin.Context, err error) {
	if e.mapErr != nil {
		err = e.mapErr(err)
	}
	var ae *AErr
	if !errors.As(err, &ae) {
		ae = &AErr{Code: http.StatusInternalServerError, Msg: err.Error(), Err: err}
	}
	if ae.Code >= http.StatusInternalServerError {
		_ = c.Error(err)
		e.log.Error("action failed",
			zap.String("rid", c.GetString("X-Request-ID")),
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
	}
	resp.Abort(c, ae.Code, ae.Error())
}
