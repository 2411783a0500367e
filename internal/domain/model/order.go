package model

import "time"

type OrderStatus string

const (
	OrderStatusPending           OrderStatus = "pending"
	OrderStatusPaid              OrderStatus = "paid"
	OrderStatusInProcessing      OrderStatus = "in-processing"
	OrderStatusPreparingShipment OrderStatus = "preparing-shipment"
	OrderStatusShipped           OrderStatus = "shipped"
	OrderStatusDelivered         OrderStatus = "delivered"
)

var orderStatuses = map[OrderStatus]bool{
	OrderStatusPending:           true,
	OrderStatusPaid:              true,
	OrderStatusInProcessing:      true,
	OrderStatusPreparingShipment: true,
	OrderStatusShipped:           true,
	OrderStatusDelivered:         true,
}

// 未知のステータスは拒否する。補正はしない。
func (s OrderStatus) Valid() bool {
	return orderStatuses[s]
}

// チェックアウト時点のスナップショット。
// あとから商品を変更しても過去の注文明細は変わらない。
type OrderItem struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int64   `json:"quantity"`
}

// 配送先・請求先のスナップショット
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

type Order struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//古いCSV行にはuser_idが無いものがある
	UserID *int64 `gorm:"index" json:"user_id"`

	Items    []OrderItem `gorm:"serializer:json;type:text;not null" json:"items"`
	Total    float64     `gorm:"not null" json:"total"`
	Customer Customer    `gorm:"serializer:json;type:text;not null" json:"customer"`

	Status OrderStatus `gorm:"type:varchar(30);not null;default:'pending'" json:"status"`

	//外部決済セッションの識別子
	PaymentProvider string `gorm:"type:varchar(50)" json:"payment_provider"`
	ProviderID      string `gorm:"type:varchar(255)" json:"provider_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
