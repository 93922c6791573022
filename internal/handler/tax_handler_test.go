package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"fiscal/internal/repository"
	"fiscal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTaxRouter(store *repository.RuleStore) *gin.Engine {
	router := gin.New()
	NewTaxHandler(service.NewTaxService(store), service.NewDeductionService(store)).
		RegisterRoutes(router.Group(""))
	return router
}

func TestCalculateCombinedEndpoint(t *testing.T) {
	router := newTaxRouter(repository.NewRuleStore())

	w := doJSON(router, http.MethodPost, "/api/tax/combined", `{"amount":"1000.00"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			TotalTax    string `json:"total_tax"`
			TotalAmount string `json:"total_amount"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "149.75", resp.Data.TotalTax)
	assert.Equal(t, "1149.75", resp.Data.TotalAmount)
}

func TestCalculateEndpointErrors(t *testing.T) {
	router := newTaxRouter(repository.NewRuleStore())

	w := doJSON(router, http.MethodPost, "/api/tax/gst", `{"amount":"abc"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/api/tax/gst", `{}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A rule set without the GST rate is a semantic failure, not a bad request
	empty := newTaxRouter(repository.NewEmptyRuleStore())
	w = doJSON(empty, http.MethodPost, "/api/tax/gst", `{"amount":"100"}`, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestApplyDeductionsEndpointWarnings(t *testing.T) {
	router := newTaxRouter(repository.NewRuleStore())

	body := `{"items":[
		{"amount":"not-a-number","expense_type":"business","documented":true},
		{"amount":100.0,"expense_type":"business","documented":true}
	]}`
	w := doJSON(router, http.MethodPost, "/api/tax/deductions", body, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Deductions []struct {
				Rule   string `json:"rule"`
				Amount string `json:"amount"`
			} `json:"deductions"`
			Warnings string `json:"warnings"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Deductions, 1)
	assert.Equal(t, "Business_Expense_Deduction", resp.Data.Deductions[0].Rule)
	assert.NotEmpty(t, resp.Data.Warnings, "skipped items are reported, not silently dropped")
}
