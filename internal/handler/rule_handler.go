package handler

import (
	"net/http"

	"fiscal/internal/middleware"
	"fiscal/internal/model"
	"fiscal/internal/repository"
	"fiscal/internal/websocket"
	"fiscal/pkg/pagination"
	"fiscal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type RuleHandler struct {
	store *repository.RuleStore
	hub   *websocket.Hub
}

func NewRuleHandler(store *repository.RuleStore, hub *websocket.Hub) *RuleHandler {
	return &RuleHandler{store: store, hub: hub}
}

func (h *RuleHandler) RegisterRoutes(router *gin.RouterGroup) {
	rules := router.Group("/api/tax-rules")
	{
		rules.GET("", h.ListRules)
		rules.GET("/export", h.ExportRules)
		rules.GET("/:name", h.GetRule)
	}

	admin := router.Group("/api/tax-rules")
	admin.Use(middleware.RequireRole("admin", "accountant"))
	{
		admin.POST("", h.UpsertRule)
		admin.PATCH("/:name/value", h.UpdateRuleValue)
		admin.POST("/import", h.ImportRules)
	}
}

// --- DTOs ---

type UpsertRuleRequest struct {
	Name          string                     `json:"name" binding:"required"`
	Description   string                     `json:"description"`
	Jurisdiction  string                     `json:"jurisdiction" binding:"required,oneof=QC CA both"`
	Category      string                     `json:"category" binding:"required,oneof=rate deduction credit threshold"`
	Value         string                     `json:"value" binding:"required"` // Decimal string, e.g. "0.05"
	Conditions    map[string]model.Condition `json:"conditions"`
	EffectiveDate string                     `json:"effective_date"` // YYYY-MM-DD, optional
	ExpiryDate    string                     `json:"expiry_date"`    // YYYY-MM-DD, optional
	IsActive      *bool                      `json:"is_active"`      // defaults to true
}

type UpdateRuleValueRequest struct {
	Value         string `json:"value" binding:"required"`
	EffectiveDate string `json:"effective_date"` // YYYY-MM-DD, optional
}

// --- Handlers ---

// ListRules returns rules sorted by name. With ?active=true only the rules
// in force today are returned, optionally narrowed by ?jurisdiction= and
// ?category=.
func (h *RuleHandler) ListRules(c *gin.Context) {
	var rules []model.TaxRule
	if c.Query("active") == "true" {
		rules = h.store.Active(
			model.Jurisdiction(c.Query("jurisdiction")),
			model.Category(c.Query("category")),
		)
	} else {
		rules = h.store.All()
	}

	p := pagination.Parse(c)
	start, end := p.Bounds(len(rules))

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"rules": rules[start:end],
		"total": len(rules),
		"page":  p.Page,
		"limit": p.Limit,
	}))
}

func (h *RuleHandler) GetRule(c *gin.Context) {
	rule, err := h.store.Get(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rule))
}

// UpsertRule inserts or replaces a rule by name. Duplicate names replace
// the previous rule: last write wins.
func (h *RuleHandler) UpsertRule(c *gin.Context) {
	var req UpsertRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rule, err := req.toRule()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	h.store.Add(rule)
	h.hub.BroadcastRuleEvent("rule_created", rule.Name)

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rule))
}

// UpdateRuleValue mutates a rule's value (and optionally effective date)
// in place. Unknown rule names are a 404, not a silent no-op.
func (h *RuleHandler) UpdateRuleValue(c *gin.Context) {
	var req UpdateRuleValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	value, err := decimal.NewFromString(req.Value)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid rule value: "+err.Error()))
		return
	}

	var effective *model.Date
	if req.EffectiveDate != "" {
		d, err := model.ParseDate(req.EffectiveDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
			return
		}
		effective = &d
	}

	name := c.Param("name")
	if err := h.store.UpdateValue(name, value, effective); err != nil {
		if repository.IsNotFound(err) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	h.hub.BroadcastRuleEvent("rule_updated", name)

	rule, _ := h.store.Get(name)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rule))
}

// ExportRules streams the full rule set as JSON.
func (h *RuleHandler) ExportRules(c *gin.Context) {
	c.Header("Content-Type", "application/json")
	c.Header("Content-Disposition", `attachment; filename="tax_rules.json"`)
	c.Status(http.StatusOK)
	if err := h.store.Export(c.Writer); err != nil {
		// Headers are gone at this point; nothing left to do but log via gin's recovery
		_ = c.Error(err)
	}
}

// ImportRules upserts a JSON rule set from the request body.
func (h *RuleHandler) ImportRules(c *gin.Context) {
	if err := h.store.Import(c.Request.Body); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	h.hub.BroadcastRuleEvent("rules_imported", "")

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"total": h.store.Count()}))
}

func (r UpsertRuleRequest) toRule() (model.TaxRule, error) {
	value, err := decimal.NewFromString(r.Value)
	if err != nil {
		return model.TaxRule{}, err
	}

	rule := model.TaxRule{
		Name:         r.Name,
		Description:  r.Description,
		Jurisdiction: model.Jurisdiction(r.Jurisdiction),
		Category:     model.Category(r.Category),
		Value:        value,
		Conditions:   r.Conditions,
		IsActive:     true,
	}
	if r.IsActive != nil {
		rule.IsActive = *r.IsActive
	}

	if r.EffectiveDate != "" {
		d, err := model.ParseDate(r.EffectiveDate)
		if err != nil {
			return model.TaxRule{}, err
		}
		rule.EffectiveDate = &d
	}
	if r.ExpiryDate != "" {
		d, err := model.ParseDate(r.ExpiryDate)
		if err != nil {
			return model.TaxRule{}, err
		}
		rule.ExpiryDate = &d
	}

	return rule, nil
}
