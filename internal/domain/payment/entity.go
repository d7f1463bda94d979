// internal/domain/payment/entity.go
package payment

import (
	"time"
)

// Status represents the payment status
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
	StatusCompleted Status = "completed"
)

// Method represents how the customer pays
type Method string

const (
	MethodCreditCard   Method = "Credit Card"
	MethodBankTransfer Method = "Bank Transfer"
	MethodCOD          Method = "COD"
	MethodRazorpay     Method = "Razorpay"
	MethodStripe       Method = "Stripe"
	MethodPayHere      Method = "PayHere"
	MethodOnlineWallet Method = "Online Wallet"
)

// Methods lists every accepted payment method
var Methods = []Method{
	MethodCreditCard,
	MethodBankTransfer,
	MethodCOD,
	MethodRazorpay,
	MethodStripe,
	MethodPayHere,
	MethodOnlineWallet,
}

// Actor identifies who caused a status change
type Actor string

const (
	ActorSystem   Actor = "system"
	ActorAdmin    Actor = "admin"
	ActorGateway  Actor = "gateway"
	ActorCustomer Actor = "customer"
)

// Defaults applied on create
const (
	DefaultCurrency = "LKR"
	DefaultMethod   = MethodCreditCard
)

// Payment is the persisted order/payment record. Items and history live in the
// same row so one read returns the whole record.
type Payment struct {
	ID      string  `gorm:"primaryKey;size:36" json:"id"`
	UserID  *string `gorm:"size:64;index" json:"userId,omitempty"` // Nullable for guest checkout
	OrderID string  `gorm:"size:100;index" json:"orderId,omitempty"`

	// Customer snapshot
	Name    string `gorm:"not null;size:255" json:"name"`
	Email   string `gorm:"not null;size:255;index" json:"email"`
	Phone   string `gorm:"size:50" json:"phone,omitempty"`
	Address string `gorm:"type:text" json:"address,omitempty"`

	// Financial Information
	Amount       float64  `gorm:"not null" json:"amount"`
	Currency     string   `gorm:"size:3;not null;default:'LKR'" json:"currency"`
	AmountBase   *float64 `json:"amountBase,omitempty"`
	BaseCurrency string   `gorm:"size:3" json:"baseCurrency,omitempty"`

	Method Method `gorm:"size:50;not null" json:"method"`
	Status Status `gorm:"size:20;not null;index" json:"status"`

	Items   []Item         `gorm:"type:text;serializer:json" json:"items"`
	Meta    Meta           `gorm:"embedded;embeddedPrefix:meta_" json:"meta"`
	History []HistoryEntry `gorm:"type:text;serializer:json" json:"history"`

	Version   int64     `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Item is a purchased line, snapshotted at checkout
type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// Meta carries gateway details (embedded in Payment)
type Meta struct {
	Gateway       string `gorm:"size:50" json:"gateway,omitempty"`
	TransactionID string `gorm:"size:100;index" json:"transactionId,omitempty"`
	Notes         string `gorm:"type:text" json:"notes,omitempty"`
}

// HistoryEntry records one status change
type HistoryEntry struct {
	From Status    `json:"from"`
	To   Status    `json:"to"`
	At   time.Time `json:"at"`
	By   Actor     `json:"by"`
	Note string    `json:"note,omitempty"`
}

// StatusNone is the pseudo-state a record is created from
const StatusNone Status = "none"

// TableName overrides the table name
func (Payment) TableName() string { return "payments" }

// ItemsTotal returns the sum of unitPrice x quantity over all lines
func (p *Payment) ItemsTotal() float64 {
	var total float64
	for _, item := range p.Items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}

// LastTransition returns the most recent history entry
func (p *Payment) LastTransition() (HistoryEntry, bool) {
	if len(p.History) == 0 {
		return HistoryEntry{}, false
	}
	return p.History[len(p.History)-1], true
}

// Receipt is the read-only projection rendered to customers
type Receipt struct {
	ReceiptNo     string          `json:"receiptNo"`
	OrderID       string          `json:"orderId,omitempty"`
	Customer      ReceiptCustomer `json:"customer"`
	Amount        ReceiptAmount   `json:"amount"`
	Method        Method          `json:"method"`
	Status        Status          `json:"status"`
	TransactionID string          `json:"transactionId,omitempty"`
	Items         []Item          `json:"items"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ReceiptCustomer is the customer block of a receipt
type ReceiptCustomer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// ReceiptAmount is the amount block of a receipt
type ReceiptAmount struct {
	Total        float64  `json:"total"`
	Currency     string   `json:"currency"`
	Base         *float64 `json:"base,omitempty"`
	BaseCurrency string   `json:"baseCurrency,omitempty"`
}

// ToReceipt projects the record into a receipt
func (p *Payment) ToReceipt() *Receipt {
	items := make([]Item, len(p.Items))
	copy(items, p.Items)

	return &Receipt{
		ReceiptNo: p.ID,
		OrderID:   p.OrderID,
		Customer: ReceiptCustomer{
			Name:    p.Name,
			Email:   p.Email,
			Phone:   p.Phone,
			Address: p.Address,
		},
		Amount: ReceiptAmount{
			Total:        p.Amount,
			Currency:     p.Currency,
			Base:         p.AmountBase,
			BaseCurrency: p.BaseCurrency,
		},
		Method:        p.Method,
		Status:        p.Status,
		TransactionID: p.Meta.TransactionID,
		Items:         items,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
