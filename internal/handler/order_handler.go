package handler

import (
	"net/http"
	"strconv"

	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

// DI
func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, authMW echo.MiddlewareFunc) {
	e.POST("/checkout", h.checkout, authMW)
	//決済プロバイダのリダイレクト先なのでJWTなし
	e.GET("/checkout/success", h.confirm)
	e.GET("/orders", h.listMine, authMW)
	e.GET("/orders/:id", h.getMine, authMW)
}

func (h *OrderHandler) checkout(c echo.Context) error {
	userID, _ := c.Get(middleware.CtxUserIDKey).(int64)

	var req usecase.CheckoutInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	cartID := ""
	if ck, err := c.Cookie(cartCookieName); err == nil {
		cartID = ck.Value
	}

	out, err := h.uc.Checkout(c.Request().Context(), userID, cartID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) confirm(c echo.Context) error {
	sessionID := c.QueryParam("session_id")
	//PayPalはtokenで返してくる
	if sessionID == "" {
		sessionID = c.QueryParam("token")
	}

	cartID := ""
	if ck, err := c.Cookie(cartCookieName); err == nil {
		cartID = ck.Value
	}

	order, err := h.uc.Confirm(c.Request().Context(), sessionID, cartID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) listMine(c echo.Context) error {
	userID, _ := c.Get(middleware.CtxUserIDKey).(int64)

	out, err := h.uc.ListMine(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) getMine(c echo.Context) error {
	userID, _ := c.Get(middleware.CtxUserIDKey).(int64)

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetMine(c.Request().Context(), userID, orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
