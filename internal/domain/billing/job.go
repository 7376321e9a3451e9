package billing

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrJobAlreadyPaid = errors.New("job already paid")

type Job struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Description string `gorm:"column:description;not null" json:"description"`
	Price       Money  `gorm:"column:price;type:bigint;not null;check:chk_jobs_price_positive,price > 0" json:"price"`

	// Paid flips false -> true once; PaymentDate is set in the same write.
	Paid        bool       `gorm:"column:paid;not null;default:false;index" json:"paid"`
	PaymentDate *time.Time `gorm:"column:payment_date;index" json:"payment_date,omitempty"`

	ContractID uuid.UUID `gorm:"type:uuid;column:contract_id;not null;index" json:"contract_id"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Job) TableName() string { return "jobs" }

// MarkPaid applies the single allowed payment transition in memory.
func (j *Job) MarkPaid(at time.Time) error {
	if j.Paid {
		return ErrJobAlreadyPaid
	}
	at = at.UTC()
	j.Paid = true
	j.PaymentDate = &at
	return nil
}

// PaymentStateConsistent reports whether paid and payment_date agree.
func (j Job) PaymentStateConsistent() bool {
	return j.Paid == (j.PaymentDate != nil)
}
