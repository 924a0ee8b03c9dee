package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crednova/credit-engine/internal/cache"
	"github.com/crednova/credit-engine/internal/database"
	apperrors "github.com/crednova/credit-engine/internal/errors"
	"github.com/crednova/credit-engine/internal/model"
	"github.com/crednova/credit-engine/internal/monitoring"
	"github.com/crednova/credit-engine/internal/scoring"
	"github.com/crednova/credit-engine/internal/security"
)

const testJWTSecret = "test-secret"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := database.NewRepository(db)
	metrics := monitoring.NewMetrics()
	logger := monitoring.NewLogger()

	artifact := model.DefaultArtifact()
	adapter := model.NewAdapter(artifact)

	engine, err := scoring.NewEngine(scoring.DefaultConfig(), adapter)
	require.NoError(t, err)

	appCache := cache.NewCache(time.Minute)
	srv := newServer(engine, repo, metrics, logger, appCache, artifact.Version)

	r := gin.New()
	r.Use(apperrors.ErrorHandler())
	r.Use(apperrors.RecoveryHandler())

	r.POST("/score", srv.handleScore)
	r.POST("/score/batch", srv.handleScoreBatch)
	r.GET("/history/:entity_id", srv.handleHistory)
	r.GET("/personas", srv.handlePersonas)
	r.GET("/health", srv.handleHealth)
	r.GET("/metrics", srv.handleMetrics)
	r.GET("/cache/stats", srv.handleCacheStats)

	admin := r.Group("/admin", security.RequireAdmin(testJWTSecret))
	admin.PUT("/weights", srv.handleUpdateWeights)

	return r
}

func postJSON(r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func scorePayload(entityID string) map[string]any {
	return map[string]any{
		"entity_id":          entityID,
		"persona_or_segment": "salaried_prime",
		"features": map[string]any{
			"pan_verified":             true,
			"monthly_income":           120000,
			"previous_defaults_count":  0,
			"bounced_cheques_count":    0,
			"repayment_on_time_ratio":  0.97,
			"credit_utilization_ratio": 0.25,
			"bureau_score_external":    780,
		},
	}
}

func TestScoreEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(r, "/score", scorePayload("cust-1"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Score            int     `json:"score"`
		ProbDefault90DPD float64 `json:"prob_default_90dpd"`
		RiskCategory     string  `json:"risk_category"`
		ModelVersion     string  `json:"model_version"`
		EntityID         string  `json:"entity_id"`
		Timestamp        string  `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "cust-1", resp.EntityID)
	assert.GreaterOrEqual(t, resp.Score, 300)
	assert.LessOrEqual(t, resp.Score, 900)
	assert.NotEmpty(t, resp.RiskCategory)
	assert.Equal(t, "gbm_v2.1.0", resp.ModelVersion)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestScoreEndpointDeterministic(t *testing.T) {
	r := newTestRouter(t)

	first := postJSON(r, "/score", scorePayload("cust-2"))
	second := postJSON(r, "/score", scorePayload("cust-2"))
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)

	var a, b map[string]any
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))

	assert.Equal(t, a["score"], b["score"])
	assert.Equal(t, a["prob_default_90dpd"], b["prob_default_90dpd"])
	assert.Equal(t, a["risk_category"], b["risk_category"])
}

func TestScoreEndpointValidation(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name    string
		payload map[string]any
	}{
		{
			name:    "missing entity id",
			payload: map[string]any{"persona_or_segment": "salaried_prime"},
		},
		{
			name:    "unknown persona",
			payload: map[string]any{"entity_id": "cust-3", "persona_or_segment": "time_traveler"},
		},
		{
			name: "string feature value",
			payload: map[string]any{
				"entity_id":          "cust-3",
				"persona_or_segment": "salaried_prime",
				"features":           map[string]any{"monthly_income": "lots"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(r, "/score", tt.payload)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestHistoryEndpoint(t *testing.T) {
	r := newTestRouter(t)

	require.Equal(t, http.StatusOK, postJSON(r, "/score", scorePayload("cust-4")).Code)
	require.Equal(t, http.StatusOK, postJSON(r, "/score", scorePayload("cust-4")).Code)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/history/cust-4", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		EntityID string                 `json:"entity_id"`
		Count    int                    `json:"count"`
		History  []database.ScoreRecord `json:"history"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "cust-4", resp.EntityID)
	assert.Equal(t, 2, resp.Count)
	for _, rec := range resp.History {
		assert.Equal(t, "salaried_prime", rec.Persona)
		assert.NotEmpty(t, rec.FeatureHash)
	}
}

func TestPersonasEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/personas", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Personas []struct {
			ID      string             `json:"id"`
			Domain  string             `json:"domain"`
			Weights map[string]float64 `json:"weights"`
		} `json:"personas"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Personas, 10)
	for _, p := range resp.Personas {
		sum := 0.0
		for _, w := range p.Weights {
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 1e-6, "persona %s", p.ID)
	}
}

func TestBatchEndpoint(t *testing.T) {
	r := newTestRouter(t)

	csvBody := "entity_id,persona_or_segment,monthly_income,previous_defaults_count\n" +
		"cust-10,salaried_prime,90000,0\n" +
		"cust-11,time_traveler,50000,1\n" +
		"cust-12,gig_worker,40000,0\n"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "batch.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csvBody))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/score/batch", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		BatchID    string `json:"batch_id"`
		RowCount   int    `json:"row_count"`
		ErrorCount int    `json:"error_count"`
		Results    []struct {
			Row   int    `json:"row"`
			Error string `json:"error"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.BatchID)
	assert.Equal(t, 3, resp.RowCount)
	assert.Equal(t, 1, resp.ErrorCount, "the unknown persona row must fail")
	require.Len(t, resp.Results, 3)
	assert.NotEmpty(t, resp.Results[1].Error)
}

func TestAdminWeightsRequiresAuth(t *testing.T) {
	r := newTestRouter(t)

	body, _ := json.Marshal(map[string]any{"personas": map[string]any{}})
	req := httptest.NewRequest("PUT", "/admin/weights", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminWeightsUpdate(t *testing.T) {
	r := newTestRouter(t)

	token, err := security.IssueAdminToken(testJWTSecret, "ops", time.Minute)
	require.NoError(t, err)

	payload := map[string]any{
		"personas": map[string]any{
			"salaried_prime": map[string]any{
				"weights": map[string]float64{
					"A_identity":           0.10,
					"B_income":             0.20,
					"C_banking_conduct":    0.15,
					"D_repayment_history":  0.25,
					"E_obligations":        0.15,
					"F_fraud_indicators":   0.05,
					"G_external_footprint": 0.10,
				},
			},
		},
	}

	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("PUT", "/admin/weights", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestAdminWeightsRejectsBadTable(t *testing.T) {
	r := newTestRouter(t)

	token, err := security.IssueAdminToken(testJWTSecret, "ops", time.Minute)
	require.NoError(t, err)

	payload := map[string]any{
		"personas": map[string]any{
			"salaried_prime": map[string]any{
				"weights": map[string]float64{"A_identity": 0.9},
			},
		},
	}

	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("PUT", "/admin/weights", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The live table must be unchanged.
	score := postJSON(r, "/score", scorePayload(fmt.Sprintf("cust-%d", time.Now().UnixNano())))
	assert.Equal(t, http.StatusOK, score.Code)
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "gbm_v2.1.0", resp["model_version"])
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t)

	require.Equal(t, http.StatusOK, postJSON(r, "/score", scorePayload("cust-20")).Code)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1.0, resp["scores_computed"])
}
