package domain

// Event topics. Queue names match topic names on the broker.
const (
	TopicAccountCreated       = "account_created"
	TopicInvoiceStatusChanged = "invoice_status_changed"
)

// AccountCreated is published after a new account is committed.
type AccountCreated struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// InvoiceStatusChanged is published after an invoice status mutation.
// RecipientEmail is denormalized so the consumer needs no further lookup.
type InvoiceStatusChanged struct {
	ID             string `json:"id"`
	RecipientEmail string `json:"recipientEmail"`
	Amount         int64  `json:"amount"`
	Status         string `json:"status"`
}
