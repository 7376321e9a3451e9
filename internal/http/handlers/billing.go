package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/yungbote/contractpay-backend/internal/domain/aggregates"
	"github.com/yungbote/contractpay-backend/internal/domain/billing"
	"github.com/yungbote/contractpay-backend/internal/http/response"
	"github.com/yungbote/contractpay-backend/internal/services"
)

type BillingHandler struct {
	billing services.BillingService
}

func NewBillingHandler(billing services.BillingService) *BillingHandler {
	return &BillingHandler{billing: billing}
}

// POST /jobs/:job_id/pay
func (h *BillingHandler) PayForJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("job_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_job_id", err)
		return
	}
	if _, err := h.billing.PayForJob(c.Request.Context(), jobID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type depositRequest struct {
	Amount *billing.Money `json:"amount"`
}

type depositResponse struct {
	ProfileID   uuid.UUID     `json:"profileId"`
	Amount      billing.Money `json:"amount"`
	Balance     billing.Money `json:"balance"`
	Outstanding billing.Money `json:"outstanding"`
	MaxDeposit  billing.Money `json:"maxDeposit"`
}

// POST /balances/deposit/:userId
func (h *BillingHandler) Deposit(c *gin.Context) {
	target, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	if req.Amount == nil {
		response.RespondError(c, http.StatusBadRequest, "validation", errors.New("amount is required"))
		return
	}
	res, err := h.billing.DepositToClient(c.Request.Context(), target, *req.Amount)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, depositResponse{
		ProfileID:   res.ProfileID,
		Amount:      res.Amount,
		Balance:     res.Balance,
		Outstanding: res.Outstanding,
		MaxDeposit:  domainagg.MaxDeposit(res.Outstanding),
	})
}
