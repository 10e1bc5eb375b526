package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"realestate3d/internal/service"
	httpez "realestate3d/internal/transport/http/ez"
)

type PropertyHandler struct {
	svc *service.Catalog
	log *zap.Logger
}

func NewPropertyHandler(svc *service.Catalog, log *zap.Logger) *PropertyHandler {
	return &PropertyHandler{svc: svc, log: log}
}

func (h *PropertyHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api, h.log, MapError)

	httpez.RegisterAction(ez, httpez.Action[struct{}, []service.PropertyView]{
		Method: http.MethodGet,
		Path:   "/properties/",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]service.PropertyView, error) {
			return h.svc.ListProperties(c.Request.Context(), origin(c))
		},
	})
}
