package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fiscal/internal/middleware"
	"fiscal/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRuleRouter(store *repository.RuleStore) *gin.Engine {
	router := gin.New()
	NewRuleHandler(store, nil).RegisterRoutes(router.Group(""))
	return router
}

func bearerToken(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "test-user",
		"role": role,
	}).SignedString(middleware.GetJWTSecret())
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(router *gin.Engine, method, path, body, auth string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListRulesActiveByJurisdiction(t *testing.T) {
	router := newRuleRouter(repository.NewRuleStore())

	w := doJSON(router, http.MethodGet, "/api/tax-rules?active=true&jurisdiction=CA", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Rules []struct {
				Name string `json:"name"`
			} `json:"rules"`
			Total int `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	names := make([]string, 0, len(resp.Data.Rules))
	for _, r := range resp.Data.Rules {
		names = append(names, r.Name)
	}
	assert.Contains(t, names, "TPS_Rate")
	assert.NotContains(t, names, "TVQ_Rate")
}

func TestGetRule(t *testing.T) {
	router := newRuleRouter(repository.NewRuleStore())

	w := doJSON(router, http.MethodGet, "/api/tax-rules/TPS_Rate", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"0.05"`)

	w = doJSON(router, http.MethodGet, "/api/tax-rules/No_Such_Rule", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpsertRuleRequiresAuth(t *testing.T) {
	router := newRuleRouter(repository.NewRuleStore())

	body := `{"name":"X","jurisdiction":"QC","category":"rate","value":"0.1"}`
	w := doJSON(router, http.MethodPost, "/api/tax-rules", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodPost, "/api/tax-rules", body, bearerToken(t, "analyst"))
	assert.Equal(t, http.StatusForbidden, w.Code, "read-only roles cannot mutate rules")
}

func TestUpsertRule(t *testing.T) {
	store := repository.NewRuleStore()
	router := newRuleRouter(store)

	body := `{
		"name": "EV_Credit_QC",
		"description": "Electric vehicle purchase credit",
		"jurisdiction": "QC",
		"category": "credit",
		"value": "0.10",
		"conditions": {"vehicle_type": "electric", "purchase_price": "<80000"},
		"effective_date": "2024-01-01"
	}`
	w := doJSON(router, http.MethodPost, "/api/tax-rules", body, bearerToken(t, "admin"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	rule, err := store.Get("EV_Credit_QC")
	require.NoError(t, err)
	assert.True(t, rule.IsActive, "is_active defaults to true")
	assert.Len(t, rule.Conditions, 2)
}

func TestUpsertRuleRejectsBadPayload(t *testing.T) {
	router := newRuleRouter(repository.NewRuleStore())
	auth := bearerToken(t, "admin")

	for name, body := range map[string]string{
		"unknown jurisdiction": `{"name":"X","jurisdiction":"US","category":"rate","value":"0.1"}`,
		"unknown category":     `{"name":"X","jurisdiction":"QC","category":"levy","value":"0.1"}`,
		"non-decimal value":    `{"name":"X","jurisdiction":"QC","category":"rate","value":"ten"}`,
		"malformed condition":  `{"name":"X","jurisdiction":"QC","category":"rate","value":"0.1","conditions":{"revenue":">abc"}}`,
		"bad date":             `{"name":"X","jurisdiction":"QC","category":"rate","value":"0.1","effective_date":"01/02/2024"}`,
	} {
		w := doJSON(router, http.MethodPost, "/api/tax-rules", body, auth)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
}

func TestUpdateRuleValue(t *testing.T) {
	store := repository.NewRuleStore()
	router := newRuleRouter(store)

	w := doJSON(router, http.MethodPatch, "/api/tax-rules/TPS_Rate/value",
		`{"value":"0.06","effective_date":"2026-01-01"}`, bearerToken(t, "accountant"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	rule, err := store.Get("TPS_Rate")
	require.NoError(t, err)
	assert.Equal(t, "0.06", rule.Value.String())

	w = doJSON(router, http.MethodPatch, "/api/tax-rules/No_Such_Rule/value",
		`{"value":"0.06"}`, bearerToken(t, "accountant"))
	assert.Equal(t, http.StatusNotFound, w.Code, "updates do not silently no-op on unknown names")
}

func TestExportImportEndpoints(t *testing.T) {
	store := repository.NewRuleStore()
	router := newRuleRouter(store)

	w := doJSON(router, http.MethodGet, "/api/tax-rules/export", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var exported map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &exported))
	assert.Contains(t, exported, "TPS_Rate")

	// Importing the export into a fresh store reproduces the rule set
	fresh := repository.NewEmptyRuleStore()
	freshRouter := newRuleRouter(fresh)
	w = doJSON(freshRouter, http.MethodPost, "/api/tax-rules/import", w.Body.String(), bearerToken(t, "admin"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, store.Count(), fresh.Count())
}
