package domain

import "github.com/yungbote/contractpay-backend/internal/domain/billing"

type Money = billing.Money
type Profile = billing.Profile
type Contract = billing.Contract
type Job = billing.Job
type ProfessionEarnings = billing.ProfessionEarnings
type ClientPayments = billing.ClientPayments

const (
	ProfileTypeClient     = billing.ProfileTypeClient
	ProfileTypeContractor = billing.ProfileTypeContractor

	ContractStatusNew        = billing.ContractStatusNew
	ContractStatusInProgress = billing.ContractStatusInProgress
	ContractStatusTerminated = billing.ContractStatusTerminated
)

// Models lists every persisted billing table in migration order.
func Models() []interface{} {
	return []interface{}{
		&billing.Profile{},
		&billing.Contract{},
		&billing.Job{},
	}
}
