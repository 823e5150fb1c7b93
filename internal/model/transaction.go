// internal/model/transaction.go
package model

import "time"

// Transaction is one row of the external orders source. The marketing core
// never writes this table; it reads it to classify customers and to pick up
// their latest contact details.
type Transaction struct {
	ID           int       `db:"id" json:"id"`
	CustomerID   string    `db:"customer_id" json:"customer_id"`
	OrderDate    time.Time `db:"order_date" json:"order_date"`
	Amount       float64   `db:"amount" json:"amount"`
	Category     string    `db:"category" json:"category"`
	Gender       string    `db:"gender" json:"gender"`
	CustomerName string    `db:"customer_name" json:"customer_name"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone"`
}

// Contact is the deliverability data joined from the orders source.
// Any field may be empty for a customer the orders source no longer knows.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Recipient is one resolved audience member.
type Recipient struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}
