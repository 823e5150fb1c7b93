// internal/repository/transaction_repository.go
package repository

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/mayfashion/marketing-backend/internal/model"
)

// TransactionRepositoryInterface reads the external orders source. This
// system never writes it.
type TransactionRepositoryInterface interface {
	DistinctCustomerIDs() ([]string, error)
	// ListByCustomer returns a customer's transactions, most recent first.
	ListByCustomer(customerID string) ([]model.Transaction, error)
	// CustomerIDsSince returns customers with at least one transaction on or
	// after the cutoff.
	CustomerIDsSince(cutoff time.Time) ([]string, error)
	// ContactsFor joins contact fields for the given customers, taking the
	// most recently seen non-empty value per field. Customers unknown to the
	// orders source are simply absent from the result.
	ContactsFor(customerIDs []string) (map[string]model.Contact, error)
}

type TransactionRepository struct {
	DB *sql.DB
}

func (r *TransactionRepository) DistinctCustomerIDs() ([]string, error) {
	return r.queryIDs(`SELECT DISTINCT customer_id FROM transactions`)
}

func (r *TransactionRepository) ListByCustomer(customerID string) ([]model.Transaction, error) {
	query := `
        SELECT id, customer_id, order_date, amount,
               COALESCE(category,''), COALESCE(gender,''),
               COALESCE(customer_name,''), COALESCE(email,''), COALESCE(phone,'')
        FROM transactions
        WHERE customer_id = $1
        ORDER BY order_date DESC
    `
	rows, err := r.DB.Query(query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := []model.Transaction{}
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.CustomerID, &t.OrderDate, &t.Amount,
			&t.Category, &t.Gender, &t.CustomerName, &t.Email, &t.Phone); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (r *TransactionRepository) CustomerIDsSince(cutoff time.Time) ([]string, error) {
	return r.queryIDs(`SELECT DISTINCT customer_id FROM transactions WHERE order_date >= $1`, cutoff)
}

func (r *TransactionRepository) ContactsFor(customerIDs []string) (map[string]model.Contact, error) {
	if len(customerIDs) == 0 {
		return map[string]model.Contact{}, nil
	}

	// DISTINCT ON picks the newest non-empty value per field independently,
	// so a customer whose latest order lacks a phone still keeps the phone
	// from an earlier one.
	query := `
        SELECT customer_id,
               COALESCE((SELECT customer_name FROM transactions t2
                         WHERE t2.customer_id = t.customer_id AND t2.customer_name IS NOT NULL AND t2.customer_name <> ''
                         ORDER BY t2.order_date DESC LIMIT 1), ''),
               COALESCE((SELECT email FROM transactions t2
                         WHERE t2.customer_id = t.customer_id AND t2.email IS NOT NULL AND t2.email <> ''
                         ORDER BY t2.order_date DESC LIMIT 1), ''),
               COALESCE((SELECT phone FROM transactions t2
                         WHERE t2.customer_id = t.customer_id AND t2.phone IS NOT NULL AND t2.phone <> ''
                         ORDER BY t2.order_date DESC LIMIT 1), '')
        FROM (SELECT DISTINCT customer_id FROM transactions WHERE customer_id = ANY($1)) t
    `
	rows, err := r.DB.Query(query, pq.Array(customerIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := map[string]model.Contact{}
	for rows.Next() {
		var id string
		var c model.Contact
		if err := rows.Scan(&id, &c.Name, &c.Email, &c.Phone); err != nil {
			return nil, err
		}
		contacts[id] = c
	}
	return contacts, rows.Err()
}

func (r *TransactionRepository) queryIDs(query string, args ...any) ([]string, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

var _ TransactionRepositoryInterface = (*TransactionRepository)(nil)
