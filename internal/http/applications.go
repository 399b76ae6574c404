package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"seniorcare/internal/core"
	"seniorcare/internal/services"
)

type applicationHandler struct {
	svc *services.ApplicationService
}

type submitApplicationRequest struct {
	SeniorID  int64 `json:"senior_id" binding:"required"`
	BenefitID int64 `json:"benefit_id" binding:"required"`
}

type applicationResponse struct {
	ID         int64  `json:"id"`
	SeniorID   int64  `json:"senior_id"`
	BenefitID  int64  `json:"benefit_id"`
	StatusID   int64  `json:"status_id"`
	CategoryID int64  `json:"category_id"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

func toApplicationResponse(a core.Application) applicationResponse {
	return applicationResponse{
		ID:         a.ID,
		SeniorID:   a.SeniorID,
		BenefitID:  a.BenefitID,
		StatusID:   a.StatusID,
		CategoryID: a.CategoryID,
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  a.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *applicationHandler) list(c *gin.Context) {
	apps, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]applicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, toApplicationResponse(a))
	}
	c.JSON(http.StatusOK, out)
}

func (h *applicationHandler) submit(c *gin.Context) {
	var req submitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	app, err := h.svc.Submit(c.Request.Context(), req.SeniorID, req.BenefitID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toApplicationResponse(app))
}

func (h *applicationHandler) approve(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Approve(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": core.StatusApproved})
}

func (h *applicationHandler) reject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Reject(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": core.StatusRejected})
}

func (h *applicationHandler) release(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	tx, err := h.svc.Release(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTransactionResponse(tx))
}
