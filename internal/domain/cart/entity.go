// internal/domain/cart/entity.go
package cart

import (
	"time"
)

// Item is one cart line. UnitPrice is in the base currency.
type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Currency  string  `json:"currency"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
}

// LineTotal returns unitPrice x quantity
func (i Item) LineTotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// ProductSnapshot is the catalog data captured when a product is added
type ProductSnapshot struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image,omitempty"`
}

// SessionCart is the persisted cart document for one session
type SessionCart struct {
	SessionID string    `json:"session_id"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary is the cart view returned to clients
type Summary struct {
	SessionID     string  `json:"sessionId"`
	Items         []Item  `json:"items"`
	ItemCount     int     `json:"itemCount"`     // Number of unique items
	TotalQuantity int     `json:"totalQuantity"` // Sum of all quantities
	Total         float64 `json:"total"`
	Currency      string  `json:"currency"`
}

// Total folds unitPrice x quantity over the items
func Total(items []Item) float64 {
	var total float64
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}
