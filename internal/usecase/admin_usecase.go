package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	"app/internal/infra/hybrid"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// 管理APIの業務ロジック。呼び出し元はAdminRoleGuardを通っている前提。
type AdminUsecase struct {
	store repository.Store
	coord *hybrid.Coordinator
	log   zerolog.Logger
}

// DI
func NewAdminUsecase(store repository.Store, coord *hybrid.Coordinator, log zerolog.Logger) *AdminUsecase {
	return &AdminUsecase{
		store: store,
		coord: coord,
		log:   log.With().Str("component", "admin").Logger(),
	}
}

type ProductInput struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Stock       int64   `json:"stock"`
}

func (in *ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.Price < 0 {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.Stock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	return nil
}

func (u *AdminUsecase) CreateProduct(ctx context.Context, adminID int64, in ProductInput) (model.Product, error) {
	if err := in.validate(); err != nil {
		return model.Product{}, err
	}

	p := model.Product{
		Name:        strings.TrimSpace(in.Name),
		Category:    in.Category,
		Price:       in.Price,
		Description: in.Description,
		Images:      []string{},
		Stock:       in.Stock,
	}

	id, _, err := u.store.CreateProduct(ctx, p)
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}
	p.ID = id

	u.audit(ctx, adminID, model.AuditProductCreated, "product created", "product", formatID(id),
		map[string]any{"name": p.Name, "price": p.Price})
	return p, nil
}

func (u *AdminUsecase) UpdateProduct(ctx context.Context, adminID, productID int64, in ProductInput) (model.Product, error) {
	if err := in.validate(); err != nil {
		return model.Product{}, err
	}

	current, err := u.store.GetProductByID(ctx, productID)
	if err == repository.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}

	current.Name = strings.TrimSpace(in.Name)
	current.Category = in.Category
	current.Price = in.Price
	current.Description = in.Description
	current.Stock = in.Stock

	if _, err := u.store.UpdateProduct(ctx, current); err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}

	u.audit(ctx, adminID, model.AuditProductUpdated, "product updated", "product", formatID(productID), nil)
	return current, nil
}

func (u *AdminUsecase) DeleteProduct(ctx context.Context, adminID, productID int64) error {
	_, err := u.store.DeleteProduct(ctx, productID)
	if err == repository.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "store error")
	}

	u.audit(ctx, adminID, model.AuditProductDeleted, "product deleted", "product", formatID(productID), nil)
	return nil
}

func (u *AdminUsecase) AddProductImage(ctx context.Context, adminID, productID int64, filename string) (model.Product, error) {
	if strings.TrimSpace(filename) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "filename required")
	}

	_, err := u.store.AddProductImage(ctx, productID, filename)
	if err == repository.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}

	u.audit(ctx, adminID, model.AuditProductUpdated, "product image added", "product", formatID(productID),
		map[string]any{"filename": filename})
	return u.store.GetProductByID(ctx, productID)
}

func (u *AdminUsecase) RemoveProductImage(ctx context.Context, adminID, productID int64, filename string) (model.Product, error) {
	_, err := u.store.RemoveProductImage(ctx, productID, filename)
	if err == repository.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}

	u.audit(ctx, adminID, model.AuditProductUpdated, "product image removed", "product", formatID(productID),
		map[string]any{"filename": filename})
	return u.store.GetProductByID(ctx, productID)
}

func (u *AdminUsecase) ListOrders(ctx context.Context) ([]model.Order, error) {
	orders, err := u.store.GetAllOrders(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "store error")
	}
	return orders, nil
}

func (u *AdminUsecase) UpdateOrderStatus(ctx context.Context, adminID, orderID int64, status model.OrderStatus) (model.Order, error) {
	_, err := u.store.UpdateOrderStatus(ctx, orderID, status)
	if err == repository.ErrInvalidStatus {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	if err == repository.ErrNotFound {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}

	u.audit(ctx, adminID, model.AuditOrderStatusUpdated, "order status updated", "order", formatID(orderID),
		map[string]any{"status": string(status)})
	return u.store.GetOrderByID(ctx, orderID)
}

func (u *AdminUsecase) DeleteOrder(ctx context.Context, adminID, orderID int64) error {
	_, err := u.store.DeleteOrder(ctx, orderID)
	if err == repository.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "store error")
	}

	u.audit(ctx, adminID, model.AuditOrderDeleted, "order deleted", "order", formatID(orderID), nil)
	return nil
}

func (u *AdminUsecase) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := u.store.GetAllUsers(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "store error")
	}
	return users, nil
}

func (u *AdminUsecase) ListAuditLogs(ctx context.Context, userID *int64, limit int) ([]model.AuditEntry, error) {
	entries, err := u.store.GetAuditLogs(ctx, repository.AuditQuery{UserID: userID, Limit: limit})
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "store error")
	}
	return entries, nil
}

// ストア構成の状態。フォールバックの中身もここで見せる。
type StorageStatus struct {
	Health    string            `json:"health"`
	Fallbacks []hybrid.Fallback `json:"fallbacks"`
}

func (u *AdminUsecase) StorageStatus(ctx context.Context) StorageStatus {
	return StorageStatus{
		Health:    u.coord.Health().String(),
		Fallbacks: u.coord.Fallbacks(),
	}
}

func (u *AdminUsecase) ClearFallbacks(ctx context.Context, adminID int64) {
	u.coord.ClearFallbacks()
	u.audit(ctx, adminID, model.AuditAdminAction, "fallback log cleared", "storage", "", nil)
}

func (u *AdminUsecase) audit(ctx context.Context, adminID int64, event model.AuditEventType, action, resourceType, resourceID string, details map[string]any) {
	if _, err := u.store.LogAudit(ctx, model.AuditEntry{
		EventType:    event,
		UserID:       &adminID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
	}); err != nil {
		u.log.Error().Err(err).Str("event", string(event)).Msg("audit write failed")
	}
}
