package session

import (
	"sync"

	"github.com/google/uuid"
)

// カートの1行。商品情報は持たず、表示時に商品ストアから引く。
type CartItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// Manager はcart_id cookie単位のカートをメモリに持つ。
// 注文確定まで永続化しない。
type Manager struct {
	mu    sync.Mutex
	carts map[string][]CartItem
}

func NewManager() *Manager {
	return &Manager{carts: make(map[string][]CartItem)}
}

// NewCartID は新しいカートの識別子を払い出す。
func (m *Manager) NewCartID() string {
	return uuid.NewString()
}

func (m *Manager) Get(cartID string) []CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := m.carts[cartID]
	out := make([]CartItem, len(items))
	copy(out, items)
	return out
}

// Add は同じ商品なら数量を足す。
func (m *Manager) Add(cartID string, productID, quantity int64) {
	if quantity <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	items := m.carts[cartID]
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity += quantity
			m.carts[cartID] = items
			return
		}
	}
	m.carts[cartID] = append(items, CartItem{ProductID: productID, Quantity: quantity})
}

// SetQuantity は0以下で行ごと削除。
func (m *Manager) SetQuantity(cartID string, productID, quantity int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := m.carts[cartID]
	for i := range items {
		if items[i].ProductID != productID {
			continue
		}
		if quantity <= 0 {
			m.carts[cartID] = append(items[:i], items[i+1:]...)
			return
		}
		items[i].Quantity = quantity
		m.carts[cartID] = items
		return
	}
}

func (m *Manager) Remove(cartID string, productID int64) {
	m.SetQuantity(cartID, productID, 0)
}

func (m *Manager) Clear(cartID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, cartID)
}
