package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ContractStatusNew        = "new"
	ContractStatusInProgress = "in_progress"
	ContractStatusTerminated = "terminated"
)

// Contract links one client and one contractor. Status transitions are managed outside this service.
type Contract struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Terms string `gorm:"column:terms;not null" json:"terms"`

	// new|in_progress|terminated
	Status string `gorm:"column:status;not null;index" json:"status"`

	ClientID     uuid.UUID `gorm:"type:uuid;column:client_id;not null;index" json:"client_id"`
	ContractorID uuid.UUID `gorm:"type:uuid;column:contractor_id;not null;index" json:"contractor_id"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Contract) TableName() string { return "contracts" }

func (c *Contract) HasParty(profileID uuid.UUID) bool {
	return c != nil && profileID != uuid.Nil && (c.ClientID == profileID || c.ContractorID == profileID)
}

func IsKnownContractStatus(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ContractStatusNew, ContractStatusInProgress, ContractStatusTerminated:
		return true
	default:
		return false
	}
}
