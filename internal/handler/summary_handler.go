package handler

import (
	"net/http"

	"fiscal/internal/model"
	"fiscal/internal/repository"
	"fiscal/internal/service"
	"fiscal/pkg/response"

	"github.com/gin-gonic/gin"
)

type SummaryHandler struct {
	summaryService service.SummaryService
}

func NewSummaryHandler(summaryService service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

func (h *SummaryHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/api/tax/summary", h.Summarize)
}

type SummaryRequest struct {
	Transactions []model.Transaction `json:"transactions" binding:"required"`
}

// Summarize folds a transaction set into period remittance totals and the
// obligations they imply.
func (h *SummaryHandler) Summarize(c *gin.Context) {
	var req SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	summary, obligations, err := h.summaryService.Analyze(req.Transactions)
	if err != nil {
		status := http.StatusInternalServerError
		if repository.IsNotFound(err) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"summary":     summary,
		"obligations": obligations,
	}))
}
