package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/contractpay-backend/internal/domain/aggregates"
	"github.com/yungbote/contractpay-backend/internal/services"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// StatusForCode maps an aggregate error code to its HTTP status.
func StatusForCode(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeValidation:
		return http.StatusBadRequest
	case domainagg.CodeInvalidActorRole:
		return http.StatusForbidden
	case domainagg.CodeJobNotOwnedByActor, domainagg.CodeUnknownUser:
		return http.StatusNotFound
	case domainagg.CodeJobAlreadyPaid, domainagg.CodeInsufficientBalance:
		return http.StatusConflict
	case domainagg.CodeDepositExceedsCap:
		return http.StatusUnprocessableEntity
	case domainagg.CodeTransactionFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondServiceError writes err using the aggregate code or service sentinel it carries.
// Internal failures are reported without their cause.
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	case errors.Is(err, services.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
		return
	case errors.Is(err, services.ErrInvalidRange):
		RespondError(c, http.StatusBadRequest, string(domainagg.CodeValidation), err)
		return
	}
	code := domainagg.CodeOf(err)
	if code == "" {
		code = domainagg.CodeInternal
	}
	status := StatusForCode(code)
	if status == http.StatusInternalServerError {
		err = errors.New(code.Summary())
	}
	if code == domainagg.CodeTransactionFailure {
		c.Header("Retry-After", "1")
	}
	RespondError(c, status, string(code), err)
}
