package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"realestate3d/internal/service"
	httpez "realestate3d/internal/transport/http/ez"
)

type AuthHandler struct {
	svc *service.Identity
	log *zap.Logger
}

func NewAuthHandler(svc *service.Identity, log *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log}
}

func (h *AuthHandler) Priority() int { return 10 }

type checkEmailIn struct {
	Email string `json:"email" form:"email" binding:"required"`
}

func (in *checkEmailIn) Validate() error { return required(in.Email) }

type checkEmailOut struct {
	Exists bool   `json:"exists"`
	Email  string `json:"email"`
}

type loginIn struct {
	Email    string `json:"email"    form:"email"    binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

func (in *loginIn) Validate() error { return required(in.Email) }

type loginOut struct {
	Message string              `json:"message"`
	User    service.AccountView `json:"user"`
	Access  string              `json:"access"`
	Refresh string              `json:"refresh"`
}

type signupIn struct {
	Email         string                `form:"email"          json:"email"    binding:"required"`
	Password      string                `form:"password"       json:"password" binding:"required"`
	ContactNumber string                `form:"contact_number" json:"contact_number"`
	ProfilePic    *multipart.FileHeader `form:"profile_pic"    json:"-"`
}

func (in *signupIn) Validate() error { return required(in.Email) }

type signupOut struct {
	Message string              `json:"message"`
	User    service.AccountView `json:"user"`
}

type refreshIn struct {
	Refresh string `json:"refresh" form:"refresh" binding:"required"`
}

func (in *refreshIn) Validate() error { return required(in.Refresh) }

type refreshOut struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (h *AuthHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api, h.log, MapError)

	httpez.RegisterAction(ez, httpez.Action[checkEmailIn, checkEmailOut]{
		Method:  http.MethodPost,
		Path:    "/check-email/",
		Binder:  httpez.BindBody,
		Missing: "Email is required",
		Handler: func(c *gin.Context, in *checkEmailIn) (checkEmailOut, error) {
			email := strings.TrimSpace(in.Email)
			ok, err := h.svc.EmailExists(c.Request.Context(), email)
			if err != nil {
				return checkEmailOut{}, err
			}
			return checkEmailOut{Exists: ok, Email: email}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[loginIn, loginOut]{
		Method:  http.MethodPost,
		Path:    "/login/",
		Binder:  httpez.BindBody,
		Missing: "Email and password are required",
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			res, err := h.svc.Authenticate(c.Request.Context(), origin(c), strings.TrimSpace(in.Email), in.Password)
			if err != nil {
				var se *service.Error
				if errors.As(err, &se) {
					return loginOut{}, err
				}
				return loginOut{}, httpez.Internal("Server error: "+err.Error(), err)
			}
			return loginOut{Message: "Login successful", User: res.User, Access: res.Access, Refresh: res.Refresh}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[signupIn, signupOut]{
		Method:  http.MethodPost,
		Path:    "/signup/",
		Binder:  httpez.BindBody,
		Status:  http.StatusCreated,
		Missing: "Email and password are required",
		Handler: func(c *gin.Context, in *signupIn) (signupOut, error) {
			pic, closeFn, err := openUpload(in.ProfilePic)
			if err != nil {
				return signupOut{}, err
			}
			defer closeFn()

			u, err := h.svc.CreateAccount(c.Request.Context(), origin(c), service.SignupInput{
				Email:         strings.TrimSpace(in.Email),
				Password:      in.Password,
				ContactNumber: in.ContactNumber,
				ProfilePic:    pic,
			})
			if err != nil {
				return signupOut{}, err
			}
			return signupOut{Message: "User created successfully", User: u}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[refreshIn, refreshOut]{
		Method:  http.MethodPost,
		Path:    "/token/refresh/",
		Binder:  httpez.BindBody,
		Missing: "refresh is required",
		Handler: func(c *gin.Context, in *refreshIn) (refreshOut, error) {
			access, refresh, err := h.svc.Refresh(c.Request.Context(), in.Refresh)
			if err != nil {
				return refreshOut{}, err
			}
			return refreshOut{Access: access, Refresh: refresh}, nil
		},
	})
}
