package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"realestate3d/internal/domain"
	"realestate3d/internal/service"
	httpez "realestate3d/internal/transport/http/ez"
	resp "realestate3d/internal/transport/http/response"
)

type LikeHandler struct {
	svc *service.Preference
	log *zap.Logger
}

func NewLikeHandler(svc *service.Preference, log *zap.Logger) *LikeHandler {
	return &LikeHandler{svc: svc, log: log}
}

type emailQuery struct {
	Email string `form:"email" binding:"required"`
}

func (in *emailQuery) Validate() error { return required(in.Email) }

type addLikeIn struct {
	Email       string     `json:"email"         form:"email"         binding:"required"`
	LikedItemID flexString `json:"liked_item_id" form:"liked_item_id" binding:"required"`
}

func (in *addLikeIn) Validate() error { return required(in.Email, in.LikedItemID.String()) }

func (h *LikeHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api, h.log, MapError)

	httpez.RegisterAction(ez, httpez.Action[emailQuery, []domain.UserLike]{
		Method:  http.MethodGet,
		Path:    "/likes/",
		Binder:  httpez.BindQuery,
		Missing: "Email query param required",
		Handler: func(c *gin.Context, in *emailQuery) ([]domain.UserLike, error) {
			return h.svc.ListLikes(c.Request.Context(), strings.TrimSpace(in.Email))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[addLikeIn, created[resp.Message]]{
		Method:  http.MethodPost,
		Path:    "/likes/",
		Binder:  httpez.BindBody,
		Missing: "Email and liked_item_id required",
		Handler: func(c *gin.Context, in *addLikeIn) (created[resp.Message], error) {
			_, isNew, err := h.svc.AddLike(c.Request.Context(), strings.TrimSpace(in.Email), in.LikedItemID.String())
			if err != nil {
				return created[resp.Message]{}, err
			}
			if isNew {
				return created[resp.Message]{body: resp.Message{Message: "Like added"}, ok: true}, nil
			}
			return created[resp.Message]{body: resp.Message{Message: "Already liked"}}, nil
		},
	})
}
