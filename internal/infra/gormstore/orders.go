package gormstore

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"

	"gorm.io/gorm"
)

func (s *Store) GetAllOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := s.db.WithContext(ctx).Order("id asc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) GetOrderByID(ctx context.Context, id int64) (model.Order, error) {
	var o model.Order
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repository.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (s *Store) GetOrdersByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) GetOrderByProviderID(ctx context.Context, providerID string) (model.Order, error) {
	if providerID == "" {
		return model.Order{}, repository.ErrNotFound
	}
	var o model.Order
	err := s.db.WithContext(ctx).Where("provider_id = ?", providerID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repository.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (s *Store) CreateOrder(ctx context.Context, o model.Order) (int64, repository.Outcome, error) {
	if o.Status == "" {
		o.Status = model.OrderStatusPending
	}
	if !o.Status.Valid() {
		return 0, repository.OutcomeOK, repository.ErrInvalidStatus
	}
	if o.Items == nil {
		o.Items = []model.OrderItem{}
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(&o).Error; err != nil {
		return 0, repository.OutcomeOK, err
	}
	return o.ID, repository.OutcomeOK, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) (repository.Outcome, error) {
	if !status.Valid() {
		return repository.OutcomeOK, repository.ErrInvalidStatus
	}
	res := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return repository.OutcomeOK, res.Error
	}
	if res.RowsAffected == 0 {
		return repository.OutcomeOK, repository.ErrNotFound
	}
	return repository.OutcomeOK, nil
}

func (s *Store) DeleteOrder(ctx context.Context, id int64) (repository.Outcome, error) {
	return repository.OutcomeOK, s.db.WithContext(ctx).Delete(&model.Order{}, id).Error
}
