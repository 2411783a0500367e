package handler

import (
	"net/http"
	"strconv"

	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 管理側のユーザー一覧・監査ログ・ストア状態。
type AdminUserHandler struct {
	uc *usecase.AdminUsecase
}

// DI
func NewAdminUserHandler(uc *usecase.AdminUsecase) *AdminUserHandler {
	return &AdminUserHandler{uc: uc}
}

func (h *AdminUserHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/users", h.listUsers)
	g.GET("/audit-logs", h.listAuditLogs)
	g.GET("/storage", h.storageStatus)
	g.DELETE("/storage/fallbacks", h.clearFallbacks)
}

func (h *AdminUserHandler) listUsers(c echo.Context) error {
	out, err := h.uc.ListUsers(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminUserHandler) listAuditLogs(c echo.Context) error {
	var userID *int64
	if v := c.QueryParam("user_id"); v != "" {
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
		}
		userID = &x
	}

	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		x, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = x
	}

	out, err := h.uc.ListAuditLogs(c.Request().Context(), userID, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminUserHandler) storageStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.StorageStatus(c.Request().Context()))
}

func (h *AdminUserHandler) clearFallbacks(c echo.Context) error {
	adminID, _ := c.Get(middleware.CtxUserIDKey).(int64)

	h.uc.ClearFallbacks(c.Request().Context(), adminID)
	return c.JSON(http.StatusOK, SuccessResponse{Message: "cleared"})
}
