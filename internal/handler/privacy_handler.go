package handler

import (
	"net/http"

	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// DSGVO系のエンドポイント。全部本人のみ。
type PrivacyHandler struct {
	uc *usecase.PrivacyUsecase
}

// DI
func NewPrivacyHandler(uc *usecase.PrivacyUsecase) *PrivacyHandler {
	return &PrivacyHandler{uc: uc}
}

func (h *PrivacyHandler) RegisterRoutes(e *echo.Echo, authMW echo.MiddlewareFunc) {
	e.PUT("/privacy/consent", h.updateConsent, authMW)
	e.GET("/privacy/export", h.export, authMW)
	e.DELETE("/privacy/account", h.erase, authMW)
}

func (h *PrivacyHandler) updateConsent(c echo.Context) error {
	userID, _ := c.Get(middleware.CtxUserIDKey).(int64)

	var req usecase.ConsentInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateConsent(c.Request().Context(), userID, req, c.RealIP())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PrivacyHandler) export(c echo.Context) error {
	userID, _ := c.Get(middleware.CtxUserIDKey).(int64)

	out, err := h.uc.Export(c.Request().Context(), userID, c.RealIP())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PrivacyHandler) erase(c echo.Context) error {
	userID, _ := c.Get(middleware.CtxUserIDKey).(int64)

	if err := h.uc.Erase(c.Request().Context(), userID, c.RealIP()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "account erased"})
}
