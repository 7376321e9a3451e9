package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ProfileTypeClient     = "client"
	ProfileTypeContractor = "contractor"
)

type Profile struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	FirstName  string `gorm:"column:first_name;not null" json:"first_name"`
	LastName   string `gorm:"column:last_name;not null" json:"last_name"`
	Profession string `gorm:"column:profession;not null;index" json:"profession"`

	// client|contractor
	Type string `gorm:"column:type;not null;index" json:"type"`

	// Minor units. Written only by the payment and deposit aggregates.
	Balance Money `gorm:"column:balance;type:bigint;not null;default:0;check:chk_profiles_balance_non_negative,balance >= 0" json:"balance"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

func (p *Profile) IsClient() bool {
	return p != nil && NormalizeProfileType(p.Type) == ProfileTypeClient
}

func (p *Profile) FullName() string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func NormalizeProfileType(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

func IsKnownProfileType(t string) bool {
	switch NormalizeProfileType(t) {
	case ProfileTypeClient, ProfileTypeContractor:
		return true
	default:
		return false
	}
}
