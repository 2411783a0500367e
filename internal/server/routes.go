package server

import (
	"app/internal/config"
	"app/internal/middleware"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	authMW := middleware.AuthJWT(cfg)

	h.Product.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e)
	h.Auth.RegisterRoutes(e, authMW)
	h.Order.RegisterRoutes(e, authMW)
	h.Privacy.RegisterRoutes(e, authMW)

	//管理系はJWT＋roleガード
	admin := e.Group("/admin", authMW, middleware.AdminRoleGuard())
	h.AdminProduct.RegisterRoutes(admin)
	h.AdminOrder.RegisterRoutes(admin)
	h.AdminUser.RegisterRoutes(admin)
}
