package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"seniorcare/internal/core"
	"seniorcare/internal/services"
)

type seniorHandler struct {
	svc *services.SeniorService
}

type seniorRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Birthdate string `json:"birthdate" binding:"required"`
	Barangay  string `json:"barangay"`
	PWD       bool   `json:"pwd"`
	LowIncome bool   `json:"low_income"`
}

type seniorResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Birthdate string `json:"birthdate"`
	Barangay  string `json:"barangay"`
	PWD       bool   `json:"pwd"`
	LowIncome bool   `json:"low_income"`
	Age       int    `json:"age"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (r seniorRequest) toCore() (core.Senior, error) {
	birthdate, err := time.Parse("2006-01-02", r.Birthdate)
	if err != nil {
		return core.Senior{}, core.ErrMissingBirthdate
	}
	return core.Senior{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Birthdate: birthdate,
		Barangay:  r.Barangay,
		PWD:       r.PWD,
		LowIncome: r.LowIncome,
	}, nil
}

func toSeniorResponse(s core.Senior) seniorResponse {
	return seniorResponse{
		ID:        s.ID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Birthdate: s.Birthdate.Format("2006-01-02"),
		Barangay:  s.Barangay,
		PWD:       s.PWD,
		LowIncome: s.LowIncome,
		Age:       s.Age,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *seniorHandler) list(c *gin.Context) {
	seniors, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]seniorResponse, 0, len(seniors))
	for _, s := range seniors {
		out = append(out, toSeniorResponse(s))
	}
	c.JSON(http.StatusOK, out)
}

func (h *seniorHandler) create(c *gin.Context) {
	var req seniorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	senior, err := req.toCore()
	if err != nil {
		respondError(c, err)
		return
	}
	created, err := h.svc.Register(c.Request.Context(), senior)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSeniorResponse(created))
}

func (h *seniorHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	senior, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSeniorResponse(senior))
}

func (h *seniorHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req seniorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	senior, err := req.toCore()
	if err != nil {
		respondError(c, err)
		return
	}
	senior.ID = id
	updated, err := h.svc.Update(c.Request.Context(), senior)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSeniorResponse(updated))
}

func (h *seniorHandler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *seniorHandler) applications(apps *services.ApplicationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		list, err := apps.BySenior(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		out := make([]applicationResponse, 0, len(list))
		for _, a := range list {
			out = append(out, toApplicationResponse(a))
		}
		c.JSON(http.StatusOK, out)
	}
}
