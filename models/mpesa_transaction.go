package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TransactionPending = "Pending"
	TransactionSuccess = "Success"
	TransactionFailed  = "Failed"
)

// MpesaTransaction records one STK push attempt. It is created Pending at
// initiation and moved to a terminal status exactly once by the callback.
type MpesaTransaction struct {
	gorm.Model
	UserID            uint            `gorm:"index;not null" json:"user_id"`
	PhoneNumber       string          `gorm:"not null" json:"phone_number"`
	Amount            decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	MerchantRequestID string          `gorm:"column:merchant_request_id" json:"merchant_request_id"`
	CheckoutRequestID string          `gorm:"column:checkout_request_id;unique;not null" json:"checkout_request_id"`
	ReceiptNumber     string          `gorm:"column:receipt_number" json:"receipt_number"`
	Status            string          `gorm:"not null;default:Pending" json:"status"` // Pending, Success, Failed
}
