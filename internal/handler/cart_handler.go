package handler

import (
	"net/http"
	"strconv"
	"time"

	"app/internal/session"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

const cartCookieName = "cart_id"

// /cartのHTTP
type CartHandler struct {
	uc    *usecase.CartUsecase
	carts *session.Manager
}

// DI
func NewCartHandler(uc *usecase.CartUsecase, carts *session.Manager) *CartHandler {
	return &CartHandler{uc: uc, carts: carts}
}

func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/cart", h.view)
	e.POST("/cart/items", h.add)
	e.PUT("/cart/items/:product_id", h.update)
	e.DELETE("/cart/items/:product_id", h.remove)
}

type AddCartRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type UpdateCartRequest struct {
	Quantity int64 `json:"quantity"`
}

// cartID はcookieからカートIDを取る。無ければ払い出してセットする。
func (h *CartHandler) cartID(c echo.Context) string {
	if ck, err := c.Cookie(cartCookieName); err == nil && ck.Value != "" {
		return ck.Value
	}

	id := h.carts.NewCartID()
	c.SetCookie(&http.Cookie{
		Name:     cartCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
	})
	return id
}

func (h *CartHandler) view(c echo.Context) error {
	out, err := h.uc.View(c.Request().Context(), h.cartID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) add(c echo.Context) error {
	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Add(c.Request().Context(), h.cartID(c), req.ProductID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) update(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product_id"})
	}

	var req UpdateCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Update(c.Request().Context(), h.cartID(c), productID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) remove(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product_id"})
	}

	out, err := h.uc.Remove(c.Request().Context(), h.cartID(c), productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
