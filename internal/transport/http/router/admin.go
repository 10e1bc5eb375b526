package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"realestate3d/internal/core/auth"
	mdw "realestate3d/internal/transport/http/middleware"
)

func NewAdminEngine(l *zap.Logger, reg *Registry, jwter *auth.JWTer, o Options) *gin.Engine {
	r := newEngine(l, o)

	// 管理端 v1（统一要求 admin 角色）
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter, "admin"))
	reg.MountAllAdmin(admin)
	return r
}
