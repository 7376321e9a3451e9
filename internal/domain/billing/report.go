package billing

import "github.com/google/uuid"

// ProfessionEarnings is the paid-job total earned by contractors of one profession.
type ProfessionEarnings struct {
	Profession string `json:"profession"`
	Earned     Money  `json:"profit"`
}

// ClientPayments is the paid-job total spent by one client.
type ClientPayments struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullName"`
	Paid     Money     `json:"totalPayments"`
}
