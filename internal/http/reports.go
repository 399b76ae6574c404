package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"seniorcare/internal/core"
	"seniorcare/internal/services"
)

type reportHandler struct {
	svc *services.ReportService
}

type categoryAmountResponse struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type monthlyReportResponse struct {
	Year       int                      `json:"year"`
	Month      int                      `json:"month"`
	Added      string                   `json:"added"`
	Released   string                   `json:"released"`
	Pending    string                   `json:"pending"`
	Available  string                   `json:"available"`
	ByCategory []categoryAmountResponse `json:"by_category"`
}

func toMonthlyReportResponse(r core.MonthlyFundReport) monthlyReportResponse {
	out := monthlyReportResponse{
		Year:       r.Year,
		Month:      r.Month,
		Added:      r.Added.String(),
		Released:   r.Released.String(),
		Pending:    r.Pending.String(),
		Available:  r.Available.String(),
		ByCategory: make([]categoryAmountResponse, 0, len(r.ByCategory)),
	}
	for _, row := range r.ByCategory {
		out.ByCategory = append(out.ByCategory, categoryAmountResponse{Name: row.Name, Amount: row.Amount.String()})
	}
	return out
}

// reportPeriod reads year/month query params, defaulting to the current
// month.
func reportPeriod(c *gin.Context) (int, int, bool) {
	now := time.Now()
	year, month := now.Year(), int(now.Month())

	if v := c.Query("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return 0, 0, false
		}
		year = parsed
	}
	if v := c.Query("month"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
			return 0, 0, false
		}
		month = parsed
	}
	return year, month, true
}

func (h *reportHandler) monthly(c *gin.Context) {
	year, month, ok := reportPeriod(c)
	if !ok {
		return
	}
	report, err := h.svc.Monthly(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMonthlyReportResponse(report))
}

func (h *reportHandler) export(c *gin.Context) {
	year, month, ok := reportPeriod(c)
	if !ok {
		return
	}
	if err := h.svc.Export(c.Request.Context(), year, month); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"year": year, "month": month})
}
