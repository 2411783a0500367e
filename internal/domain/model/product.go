package model

// 商品画像は最大20枚
const MaxProductImages = 20

type Product struct {
	ID       int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string  `gorm:"type:varchar(255);not null" json:"name"`
	Category string  `gorm:"type:varchar(255)" json:"category"`
	Price    float64 `gorm:"not null" json:"price"`

	Description string `gorm:"type:text" json:"description"`

	//アップロード済みファイル名の順序付きリスト。テキスト列にJSONで保存する。
	Images []string `gorm:"serializer:json;type:text" json:"images"`

	Stock int64 `gorm:"not null;default:0" json:"stock"`
}
