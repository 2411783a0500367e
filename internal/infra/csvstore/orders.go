package csvstore

import (
	"context"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"
)

func decodeOrder(row map[string]string) model.Order {
	//itemsとcustomerが壊れていたら空のまま読む
	items := []model.OrderItem{}
	decodeJSONColumn(row["items"], &items)
	if items == nil {
		items = []model.OrderItem{}
	}

	var customer model.Customer
	decodeJSONColumn(row["customer"], &customer)

	status := model.OrderStatus(row["status"])
	if status == "" {
		status = model.OrderStatusPending
	}

	return model.Order{
		ID:              parseInt(row["id"]),
		UserID:          parseOptionalID(row["user_id"]),
		Items:           items,
		Total:           parseFloat(row["total"]),
		Customer:        customer,
		Status:          status,
		PaymentProvider: row["payment_provider"],
		ProviderID:      row["provider_id"],
		CreatedAt:       parseTime(row["created_at"]),
	}
}

func encodeOrder(o model.Order) map[string]string {
	if o.Items == nil {
		o.Items = []model.OrderItem{}
	}
	return map[string]string{
		"id":               formatID(o.ID),
		"user_id":          formatOptionalID(o.UserID),
		"items":            encodeJSONColumn(o.Items),
		"total":            formatFloat(o.Total),
		"customer":         encodeJSONColumn(o.Customer),
		"status":           string(o.Status),
		"payment_provider": o.PaymentProvider,
		"provider_id":      o.ProviderID,
		"created_at":       formatTime(o.CreatedAt),
	}
}

func (s *Store) GetAllOrders(ctx context.Context) ([]model.Order, error) {
	rows, err := s.readLocked(ordersFile)
	if err != nil {
		return nil, err
	}
	orders := make([]model.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, decodeOrder(row))
	}
	return orders, nil
}

func (s *Store) GetOrderByID(ctx context.Context, id int64) (model.Order, error) {
	rows, err := s.readLocked(ordersFile)
	if err != nil {
		return model.Order{}, err
	}
	for _, row := range rows {
		if parseInt(row["id"]) == id {
			return decodeOrder(row), nil
		}
	}
	return model.Order{}, repository.ErrNotFound
}

func (s *Store) GetOrdersByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	rows, err := s.readLocked(ordersFile)
	if err != nil {
		return nil, err
	}
	orders := []model.Order{}
	for _, row := range rows {
		o := decodeOrder(row)
		if o.UserID != nil && *o.UserID == userID {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

func (s *Store) GetOrderByProviderID(ctx context.Context, providerID string) (model.Order, error) {
	if providerID == "" {
		return model.Order{}, repository.ErrNotFound
	}
	rows, err := s.readLocked(ordersFile)
	if err != nil {
		return model.Order{}, err
	}
	for _, row := range rows {
		if row["provider_id"] == providerID {
			return decodeOrder(row), nil
		}
	}
	return model.Order{}, repository.ErrNotFound
}

func (s *Store) CreateOrder(ctx context.Context, o model.Order) (int64, repository.Outcome, error) {
	if o.Status == "" {
		o.Status = model.OrderStatusPending
	}
	if !o.Status.Valid() {
		return 0, repository.OutcomeOK, repository.ErrInvalidStatus
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}

	var id int64
	err := s.mutate(ordersFile, func(rows []map[string]string) ([]map[string]string, error) {
		if o.ID == 0 {
			o.ID = nextID(rows)
		}
		id = o.ID
		return append(rows, encodeOrder(o)), nil
	})
	if err != nil {
		return 0, repository.OutcomeOK, err
	}
	return id, repository.OutcomeOK, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) (repository.Outcome, error) {
	if !status.Valid() {
		return repository.OutcomeOK, repository.ErrInvalidStatus
	}
	err := s.mutate(ordersFile, func(rows []map[string]string) ([]map[string]string, error) {
		for i, row := range rows {
			if parseInt(row["id"]) == id {
				o := decodeOrder(row)
				o.Status = status
				rows[i] = encodeOrder(o)
				return rows, nil
			}
		}
		return nil, repository.ErrNotFound
	})
	return repository.OutcomeOK, err
}

func (s *Store) DeleteOrder(ctx context.Context, id int64) (repository.Outcome, error) {
	err := s.mutate(ordersFile, func(rows []map[string]string) ([]map[string]string, error) {
		out := rows[:0]
		for _, row := range rows {
			if parseInt(row["id"]) != id {
				out = append(out, row)
			}
		}
		return out, nil
	})
	return repository.OutcomeOK, err
}
