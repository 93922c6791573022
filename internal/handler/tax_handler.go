package handler

import (
	"net/http"

	"fiscal/internal/model"
	"fiscal/internal/repository"
	"fiscal/internal/service"
	"fiscal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type TaxHandler struct {
	taxService       service.TaxService
	deductionService service.DeductionService
}

func NewTaxHandler(taxService service.TaxService, deductionService service.DeductionService) *TaxHandler {
	return &TaxHandler{taxService: taxService, deductionService: deductionService}
}

func (h *TaxHandler) RegisterRoutes(router *gin.RouterGroup) {
	tax := router.Group("/api/tax")
	{
		tax.POST("/gst", h.CalculateGST)
		tax.POST("/qst", h.CalculateQST)
		tax.POST("/combined", h.CalculateCombined)
		tax.POST("/deductions", h.ApplyDeductions)
		tax.POST("/credits", h.ApplyCredits)
	}
}

// --- DTOs ---

type CalculateRequest struct {
	Amount    string `json:"amount" binding:"required"` // Decimal string, e.g. "1000.00"
	ZeroRated bool   `json:"zero_rated"`
}

type DeductionsRequest struct {
	Items []model.LineItem `json:"items" binding:"required"`
}

type CreditsRequest struct {
	TaxAmount string           `json:"tax_amount" binding:"required"`
	Items     []model.LineItem `json:"items" binding:"required"`
}

// --- Handlers ---

func (h *TaxHandler) CalculateGST(c *gin.Context) {
	h.calculate(c, h.taxService.CalculateGST)
}

func (h *TaxHandler) CalculateQST(c *gin.Context) {
	h.calculate(c, h.taxService.CalculateQST)
}

func (h *TaxHandler) calculate(c *gin.Context, compute func(decimal.Decimal, bool) (model.TaxCalculation, error)) {
	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid amount: "+err.Error()))
		return
	}

	calc, err := compute(amount, req.ZeroRated)
	if err != nil {
		status := http.StatusInternalServerError
		if repository.IsNotFound(err) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, calc))
}

func (h *TaxHandler) CalculateCombined(c *gin.Context) {
	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid amount: "+err.Error()))
		return
	}

	calc, err := h.taxService.CalculateCombined(amount, req.ZeroRated)
	if err != nil {
		status := http.StatusInternalServerError
		if repository.IsNotFound(err) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, calc))
}

// ApplyDeductions evaluates active deduction rules against the submitted
// line items. Items with malformed amounts are skipped; the response
// carries a warning instead of failing the whole batch.
func (h *TaxHandler) ApplyDeductions(c *gin.Context) {
	var req DeductionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	deductions, err := h.deductionService.ApplyDeductions(req.Items)
	data := gin.H{"deductions": deductions}
	if err != nil {
		data["warnings"] = err.Error()
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, data))
}

func (h *TaxHandler) ApplyCredits(c *gin.Context) {
	var req CreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	taxAmount, err := decimal.NewFromString(req.TaxAmount)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid tax_amount: "+err.Error()))
		return
	}

	credits, err := h.deductionService.ApplyCredits(taxAmount, req.Items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"credits": credits}))
}
