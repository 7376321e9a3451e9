package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/contractpay-backend/internal/http/response"
	"github.com/yungbote/contractpay-backend/internal/platform/dbctx"
	"github.com/yungbote/contractpay-backend/internal/services"
)

type AdminHandler struct {
	reports services.ReportService
}

func NewAdminHandler(reports services.ReportService) *AdminHandler {
	return &AdminHandler{reports: reports}
}

// GET /admin/best-profession?start=&end=
func (h *AdminHandler) BestProfession(c *gin.Context) {
	start, end, ok := parseRange(c)
	if !ok {
		return
	}
	best, err := h.reports.BestProfession(dbctx.Context{Ctx: c.Request.Context()}, start, end)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, best)
}

// GET /admin/best-clients?start=&end=&limit=
func (h *AdminHandler) BestClients(c *gin.Context) {
	start, end, ok := parseRange(c)
	if !ok {
		return
	}
	limit := services.DefaultBestClientsLimit
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.RespondError(c, http.StatusBadRequest, "validation", fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = n
	}
	clients, err := h.reports.BestClients(dbctx.Context{Ctx: c.Request.Context()}, start, end, limit)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, clients)
}

func parseRange(c *gin.Context) (*time.Time, *time.Time, bool) {
	start, err := parseBound(c.Query("start"), false)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return nil, nil, false
	}
	end, err := parseBound(c.Query("end"), true)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return nil, nil, false
	}
	return start, end, true
}

// parseBound accepts RFC 3339 timestamps or YYYY-MM-DD dates. A date used as an
// upper bound covers the whole day.
func parseBound(raw string, upper bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", raw)
	}
	if upper {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
