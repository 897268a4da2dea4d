package domain

import "time"

// Invoice statuses keep the Spanish vocabulary of the external contract.
const (
	InvoiceStatusPending = "Pendiente"
	InvoiceStatusPaid    = "Pagado"
	InvoiceStatusOverdue = "Vencido"
)

// ValidInvoiceStatus reports whether status belongs to the closed status set.
func ValidInvoiceStatus(status string) bool {
	switch status {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// Invoice models a billing document owned by an account.
type Invoice struct {
	ID           string     `json:"id"`
	AccountID    string     `json:"user_id"`
	Status       string     `json:"status"`
	Amount       int64      `json:"amount"`
	EmissionDate time.Time  `json:"emission_date"`
	PaymentDate  *time.Time `json:"payment_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// InvoiceFilter narrows a listing. Zero values impose no constraint.
type InvoiceFilter struct {
	AccountID string
	Status    string
}
