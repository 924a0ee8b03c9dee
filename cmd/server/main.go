package main

import (
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/crednova/credit-engine/internal/cache"
	"github.com/crednova/credit-engine/internal/config"
	"github.com/crednova/credit-engine/internal/database"
	apperrors "github.com/crednova/credit-engine/internal/errors"
	"github.com/crednova/credit-engine/internal/model"
	"github.com/crednova/credit-engine/internal/monitoring"
	"github.com/crednova/credit-engine/internal/scoring"
	"github.com/crednova/credit-engine/internal/security"
	"github.com/crednova/credit-engine/internal/types"
)

const serviceVersion = "1.0.0"

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db, err := database.NewDB(cfg.DataDir)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer apperrors.SafeClose(db, "database")

	repo := database.NewRepository(db)

	appMetrics := monitoring.NewMetrics()
	appLogger := monitoring.NewLogger()

	// Model artifact: configured path, else the bundled snapshot.
	artifact := model.DefaultArtifact()
	if cfg.ModelArtifactPath != "" {
		loaded, err := model.LoadArtifact(cfg.ModelArtifactPath)
		if err != nil {
			slog.Error("Failed to load model artifact, using bundled snapshot",
				"path", cfg.ModelArtifactPath, "error", err)
		} else {
			artifact = loaded
		}
	}
	adapter := model.NewAdapter(artifact,
		model.WithFallbackHook(appMetrics.IncrementModelFallback))

	scoringCfg := scoring.DefaultConfig()
	if cfg.WeightsPath != "" {
		if err := config.ApplyWeightOverrides(scoringCfg, cfg.WeightsPath); err != nil {
			slog.Error("Failed to apply weight overrides", "path", cfg.WeightsPath, "error", err)
			os.Exit(1)
		}
	}

	engine, err := scoring.NewEngine(scoringCfg, adapter)
	if err != nil {
		slog.Error("Invalid scoring configuration", "error", err)
		os.Exit(1)
	}

	r := gin.New()

	r.Use(monitoring.MonitoringMiddleware(appMetrics, appLogger))
	r.Use(monitoring.SecurityMonitoringMiddleware(appLogger))

	r.Use(apperrors.ErrorHandler())
	r.Use(apperrors.RecoveryHandler())

	securityConfig := security.DefaultSecurityConfig()
	securityConfig.RequestTimeout = cfg.RequestTimeout
	securityMiddleware := security.NewSecurityMiddleware(securityConfig)

	r.Use(securityMiddleware.CORSConfig())
	r.Use(securityMiddleware.SecurityHeaders)
	r.Use(securityMiddleware.RequestTimeout)
	r.Use(securityMiddleware.ValidateContentType)
	r.Use(securityMiddleware.RateLimitByIP)

	appCache := cache.NewCache(cfg.CacheTTL)
	r.Use(appCache.Middleware(appMetrics))

	srv := newServer(engine, repo, appMetrics, appLogger, appCache, artifact.Version)

	r.POST("/score", srv.handleScore)
	r.POST("/score/batch", srv.handleScoreBatch)
	r.GET("/history/:entity_id", srv.handleHistory)
	r.GET("/personas", srv.handlePersonas)

	r.GET("/health", srv.handleHealth)
	r.GET("/metrics", srv.handleMetrics)
	r.GET("/cache/stats", srv.handleCacheStats)

	admin := r.Group("/admin", security.RequireAdmin(cfg.JWTSecret))
	admin.PUT("/weights", srv.handleUpdateWeights)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  90 * time.Second,
	}

	go func() {
		slog.Info("Starting credit engine server", "port", cfg.Port, "model_version", artifact.Version)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	}
	slog.Info("Server stopped")
}

// server bundles the handler dependencies
type server struct {
	engine       *scoring.Engine
	repo         *database.Repository
	metrics      *monitoring.Metrics
	logger       *monitoring.Logger
	cache        *cache.Cache
	modelVersion string
}

func newServer(engine *scoring.Engine, repo *database.Repository, metrics *monitoring.Metrics, logger *monitoring.Logger, c *cache.Cache, modelVersion string) *server {
	return &server{
		engine:       engine,
		repo:         repo,
		metrics:      metrics,
		logger:       logger,
		cache:        c,
		modelVersion: modelVersion,
	}
}

// handleScore godoc
// @Summary Score a single entity
// @Accept json
// @Produce json
// @Param request body types.ScoreRequest true "scoring request"
// @Success 200 {object} types.ScoreResponse
// @Router /score [post]
func (s *server) handleScore(c *gin.Context) {
	var req types.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewValidationError("invalid JSON body", err.Error()))
		return
	}

	start := time.Now()
	resp, appErr := s.scoreOne(c.Request.Context(), &req, "")
	if appErr != nil {
		c.Error(appErr)
		return
	}

	s.logger.ScoreLogger(req.PersonaOrSegment, len(req.Features), resp.Score,
		string(resp.RiskCategory), string(resp.RecommendedDecision),
		resp.ModelVersion, time.Since(start), false)

	c.JSON(http.StatusOK, resp)
}

// scoreOne coerces, scores and persists a single request. batchID is
// empty for the online endpoint.
func (s *server) scoreOne(ctx context.Context, req *types.ScoreRequest, batchID string) (*types.ScoreResponse, *apperrors.AppError) {
	engineReq, problems := req.ToEngineRequest()
	if problems != nil {
		return nil, apperrors.NewValidationErrorWithMap(problems)
	}

	result, err := s.engine.Score(ctx, engineReq)
	if err != nil {
		if errors.Is(err, scoring.ErrUnknownPersona) {
			return nil, apperrors.NewValidationError("unknown persona_or_segment", req.PersonaOrSegment)
		}
		return nil, apperrors.NewInternalError("scoring failed", err)
	}

	resp := &types.ScoreResponse{
		Response:  *result,
		EntityID:  req.EntityID,
		Timestamp: time.Now().UTC(),
	}

	s.metrics.RecordScore(req.PersonaOrSegment)
	s.persistScore(resp, req.PersonaOrSegment, engineReq.Features, batchID)

	return resp, nil
}

// persistScore writes the decision to the score history. Persistence
// is best-effort: a storage failure is logged, never surfaced.
func (s *server) persistScore(resp *types.ScoreResponse, persona string, features map[string]float64, batchID string) {
	payload, err := json.Marshal(resp)
	if err != nil {
		slog.Warn("Failed to marshal score payload", "error", err)
		return
	}

	rec := database.NewScoreRecord(resp.EntityID, featureHash(features), persona)
	rec.Score = resp.Score
	rec.ProbDefault = resp.ProbDefault90DPD
	rec.RiskCategory = string(resp.RiskCategory)
	rec.Decision = string(resp.RecommendedDecision)
	rec.ModelVersion = resp.ModelVersion
	rec.DataConfidence = resp.DataConfidence
	rec.Payload = string(payload)
	rec.BatchID = batchID

	if err := s.repo.SaveScore(rec); err != nil {
		slog.Warn("Failed to persist score", "entity_id", resp.EntityID, "error", err)
	}
}

// featureHash fingerprints the raw feature vector. Map keys marshal
// in sorted order, so the hash is stable for identical inputs.
func featureHash(features map[string]float64) string {
	data, _ := json.Marshal(features)
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

// handleScoreBatch godoc
// @Summary Score a CSV batch upload
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV with entity_id, persona_or_segment and feature columns"
// @Success 200 {object} types.BatchResponse
// @Router /score/batch [post]
func (s *server) handleScoreBatch(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperrors.NewValidationError("missing file upload", err.Error()))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperrors.NewInternalError("failed to open upload", err))
		return
	}
	defer apperrors.SafeClose(file, "batch upload")

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		c.Error(apperrors.NewValidationError("failed to read CSV header", err.Error()))
		return
	}

	entityCol, personaCol := -1, -1
	for i, name := range header {
		switch name {
		case "entity_id":
			entityCol = i
		case "persona_or_segment":
			personaCol = i
		}
	}
	if entityCol < 0 || personaCol < 0 {
		c.Error(apperrors.NewValidationError("CSV must have entity_id and persona_or_segment columns"))
		return
	}

	job := database.NewBatchJob(0, 0)
	batch := types.BatchResponse{
		BatchID:   job.ID,
		Results:   []types.BatchRowResult{},
		Timestamp: time.Now().UTC(),
	}

	for rowNum := 1; ; rowNum++ {
		row, err := reader.Read()
		if err != nil {
			break
		}
		batch.RowCount++

		rowResult := types.BatchRowResult{Row: rowNum}

		req := &types.ScoreRequest{Features: make(map[string]any)}
		for i, cell := range row {
			if i >= len(header) || cell == "" {
				continue
			}
			switch i {
			case entityCol:
				req.EntityID = cell
			case personaCol:
				req.PersonaOrSegment = cell
			default:
				value, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					rowResult.Error = fmt.Sprintf("column %q: %v", header[i], err)
				} else {
					req.Features[header[i]] = value
				}
			}
		}

		rowResult.EntityID = req.EntityID
		if rowResult.Error == "" {
			resp, appErr := s.scoreOne(c.Request.Context(), req, job.ID)
			if appErr != nil {
				rowResult.Error = appErr.Error()
			} else {
				rowResult.Result = resp
			}
		}

		if rowResult.Error != "" {
			batch.ErrorCount++
		}
		batch.Results = append(batch.Results, rowResult)
	}

	job.RowCount = batch.RowCount
	job.ErrorCount = batch.ErrorCount
	if err := s.repo.SaveBatchJob(job); err != nil {
		slog.Warn("Failed to persist batch job", "batch_id", job.ID, "error", err)
	}

	s.metrics.AddBatchRows(batch.RowCount)
	c.JSON(http.StatusOK, batch)
}

// handleHistory godoc
// @Summary List recent scoring decisions for an entity
// @Produce json
// @Param entity_id path string true "entity identifier"
// @Param limit query int false "max rows (default 20)"
// @Router /history/{entity_id} [get]
func (s *server) handleHistory(c *gin.Context) {
	entityID := c.Param("entity_id")

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	records, err := s.repo.HistoryByEntity(entityID, limit)
	if err != nil {
		c.Error(apperrors.NewInternalError("failed to load history", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entity_id": entityID,
		"count":     len(records),
		"history":   records,
	})
}

// handlePersonas godoc
// @Summary List configured personas and their weight tables
// @Produce json
// @Router /personas [get]
func (s *server) handlePersonas(c *gin.Context) {
	personas := s.engine.Personas()

	out := make([]types.PersonaInfo, 0, len(personas))
	for _, p := range personas {
		weights := make(map[string]float64, len(p.Weights))
		for cat, w := range p.Weights {
			weights[string(cat)] = w
		}
		out = append(out, types.PersonaInfo{
			ID:      p.ID,
			Domain:  string(p.Domain),
			Weights: weights,
		})
	}

	c.JSON(http.StatusOK, gin.H{"personas": out})
}

func (s *server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"timestamp":     time.Now().Format(time.RFC3339),
		"version":       serviceVersion,
		"model_version": s.modelVersion,
		"personas":      len(s.engine.Personas()),
		"metrics":       s.metrics.GetStats(),
	})
}

func (s *server) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, s.metrics.GetStats())
}

func (s *server) handleCacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.cache.Stats())
}

// handleUpdateWeights godoc
// @Summary Hot-swap persona weight tables
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body types.WeightsUpdateRequest true "replacement weights"
// @Router /admin/weights [put]
func (s *server) handleUpdateWeights(c *gin.Context) {
	var req types.WeightsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewValidationError("invalid JSON body", err.Error()))
		return
	}

	current := s.engine.Config()

	// Copy-on-write: in-flight requests keep scoring against the old
	// tables until the swap lands.
	next := *current
	next.Personas = make(map[string]scoring.Persona, len(current.Personas))
	for id, p := range current.Personas {
		next.Personas[id] = p
	}

	for id, update := range req.Personas {
		persona, ok := next.Personas[id]
		if !ok {
			c.Error(apperrors.NewValidationError("unknown persona", id))
			return
		}

		weights := make(scoring.PersonaWeights, len(update.Weights))
		for cat, w := range update.Weights {
			weights[scoring.Category(cat)] = w
		}
		persona.Weights = weights
		next.Personas[id] = persona
	}

	if err := s.engine.SwapConfig(&next); err != nil {
		c.Error(apperrors.NewValidationError("rejected weight update", err.Error()))
		return
	}

	s.cache.Clear()
	slog.Info("Persona weights updated", "personas", len(req.Personas), "by", c.GetString("admin_subject"))

	c.JSON(http.StatusOK, gin.H{
		"status":           "updated",
		"personas_changed": len(req.Personas),
		"timestamp":        time.Now().Format(time.RFC3339),
	})
}
