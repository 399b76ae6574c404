package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"seniorcare/internal/core"
	"seniorcare/internal/services"
)

type fundHandler struct {
	svc      *services.FundService
	receipts *ReceiptStore
}

type addFundRequest struct {
	Date        string `json:"date" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	Source      string `json:"source" binding:"required"`
	Description string `json:"description"`
	ReceiptURL  string `json:"receipt_url"`
}

type fundHistoryResponse struct {
	ID              int64  `json:"id"`
	Date            string `json:"date"`
	Amount          string `json:"amount"`
	Source          string `json:"source"`
	Description     string `json:"description"`
	ReceiptURL      string `json:"receipt_url"`
	PreviousBalance string `json:"previous_balance"`
	NewBalance      string `json:"new_balance"`
}

type fundOverviewResponse struct {
	TotalFund        string                `json:"total_fund"`
	AvailableBalance string                `json:"available_balance"`
	History          []fundHistoryResponse `json:"history"`
}

type transactionResponse struct {
	ID            int64  `json:"id"`
	Date          string `json:"date"`
	Amount        string `json:"amount"`
	Type          string `json:"type"`
	Category      string `json:"category"`
	SeniorName    string `json:"senior_name"`
	Barangay      string `json:"barangay"`
	Description   string `json:"description"`
	ApplicationID int64  `json:"application_id,omitempty"`
}

func toFundHistoryResponse(r core.FundHistoryRecord) fundHistoryResponse {
	return fundHistoryResponse{
		ID:              r.ID,
		Date:            r.Date.Format(time.RFC3339),
		Amount:          r.Amount.String(),
		Source:          r.Source,
		Description:     r.Description,
		ReceiptURL:      r.ReceiptURL,
		PreviousBalance: r.PreviousBalance.String(),
		NewBalance:      r.NewBalance.String(),
	}
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:            t.ID,
		Date:          t.Date.Format(time.RFC3339),
		Amount:        t.Amount.String(),
		Type:          string(t.Type),
		Category:      t.Category,
		SeniorName:    t.SeniorName,
		Barangay:      t.Barangay,
		Description:   t.Description,
		ApplicationID: t.ApplicationID,
	}
}

func (h *fundHandler) overview(c *gin.Context) {
	ov, err := h.svc.Overview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	history := make([]fundHistoryResponse, 0, len(ov.History))
	for _, r := range ov.History {
		history = append(history, toFundHistoryResponse(r))
	}
	c.JSON(http.StatusOK, fundOverviewResponse{
		TotalFund:        ov.TotalFund.String(),
		AvailableBalance: ov.AvailableBalance.String(),
		History:          history,
	})
}

func (h *fundHandler) addHistory(c *gin.Context) {
	var req addFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		if date, err = time.Parse(time.RFC3339, req.Date); err != nil {
			respondError(c, core.ErrMissingDate)
			return
		}
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		respondError(c, core.ErrInvalidAmount)
		return
	}

	created, err := h.svc.AddFund(c.Request.Context(), core.FundHistoryRecord{
		Date:        date,
		Amount:      amount,
		Source:      req.Source,
		Description: req.Description,
		ReceiptURL:  req.ReceiptURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toFundHistoryResponse(created))
}

func (h *fundHandler) deleteHistory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteFundRecord(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *fundHandler) transactions(c *gin.Context) {
	list, err := h.svc.ListTransactions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]transactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTransactionResponse(t))
	}
	c.JSON(http.StatusOK, out)
}

func (h *fundHandler) uploadReceipt(c *gin.Context) {
	if h.receipts == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "receipt storage not configured"})
		return
	}
	file, err := c.FormFile("receipt")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing receipt file"})
		return
	}
	url, err := h.receipts.Save(c, file)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"receipt_url": url})
}
