package domain

import "math"

type BasketKind string

const (
	KindCart     BasketKind = "cart"
	KindWishlist BasketKind = "wishlist"
)

type BasketItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Basket is a session's cart or wishlist.
type Basket struct {
	SessionID string       `json:"sessionId"`
	Kind      BasketKind   `json:"kind"`
	Items     []BasketItem `json:"items"`
	Count     int          `json:"count"`
	Subtotal  float64      `json:"subtotal"`
}

// NewBasket derives Count and Subtotal (rounded to cents) from items.
func NewBasket(kind BasketKind, sessionID string, items []BasketItem) Basket {
	b := Basket{SessionID: sessionID, Kind: kind, Items: items}
	if b.Items == nil {
		b.Items = []BasketItem{}
	}
	var total float64
	for _, it := range b.Items {
		b.Count += it.Quantity
		total += it.Product.Price * float64(it.Quantity)
	}
	b.Subtotal = math.Round(total*100) / 100
	return b
}

func (b Basket) Contains(productID int64) bool {
	for _, it := range b.Items {
		if it.Product.ID == productID {
			return true
		}
	}
	return false
}
