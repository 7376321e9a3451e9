package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/contractpay-backend/internal/data/repos/billing"
	"github.com/yungbote/contractpay-backend/internal/platform/logger"
)

type ProfileRepo = billing.ProfileRepo
type ContractRepo = billing.ContractRepo
type JobRepo = billing.JobRepo
type ReportRepo = billing.ReportRepo

type PaidRange = billing.PaidRange

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	return billing.NewProfileRepo(db, baseLog)
}
func NewContractRepo(db *gorm.DB, baseLog *logger.Logger) ContractRepo {
	return billing.NewContractRepo(db, baseLog)
}
func NewJobRepo(db *gorm.DB, baseLog *logger.Logger) JobRepo {
	return billing.NewJobRepo(db, baseLog)
}
func NewReportRepo(db *gorm.DB, baseLog *logger.Logger) ReportRepo {
	return billing.NewReportRepo(db, baseLog)
}
