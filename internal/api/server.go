// Package api exposes the engine's verbs over HTTP for the operator
// dashboard: validation, dry runs, live sends, summaries and folder
// browsing, plus serve-mode config hot reload and scheduled runs.
package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saltline/sendwave/internal/app"
	"github.com/saltline/sendwave/internal/cliconfig"
	"github.com/saltline/sendwave/internal/domain"
	"github.com/saltline/sendwave/internal/ports"
)

// Deps are the live adapters the API serves from.
type Deps struct {
	Directory ports.ContactDirectory
	Sender    ports.TemplateSender
	Ledger    ports.Ledger
	Reporter  ports.ResultReporter
}

// Server is the dashboard HTTP API.
type Server struct {
	mu   sync.RWMutex
	cfg  cliconfig.Config
	deps Deps
	log  ports.Logger

	engine *gin.Engine
}

// NewServer builds the API around the given adapters and configuration.
func NewServer(cfg cliconfig.Config, deps Deps, log ports.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{cfg: cfg, deps: deps, log: log}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLog())

	api := engine.Group("/api")
	{
		api.GET("/validate", s.validate)
		api.POST("/dry-run", s.dryRun)
		api.POST("/send", s.send)
		api.GET("/summary", s.summary)
		api.GET("/folders", s.folders)
		api.GET("/folder-levels", s.folderLevels)
	}

	s.engine = engine
	return s
}

// Handler exposes the router for serving and tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves the API on addr, blocking until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.Info("dashboard api listening", ports.String("addr", addr))
	return s.engine.Run(addr)
}

// UpdateConfig swaps the active configuration; used by the config watcher.
func (s *Server) UpdateConfig(cfg cliconfig.Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	s.log.Info("configuration reloaded")
}

func (s *Server) config() cliconfig.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("http request",
			ports.String("method", c.Request.Method),
			ports.String("path", c.Request.URL.Path),
			ports.Int("status", c.Writer.Status()),
			ports.Duration("elapsed", time.Since(start)),
		)
	}
}

type validateResponse struct {
	ConfigOK   bool   `json:"config_ok"`
	Directory  string `json:"directory"`
	Messaging  string `json:"messaging"`
	Env        string `json:"env"`
	DailyLimit int    `json:"daily_limit"`
}

func (s *Server) validate(c *gin.Context) {
	cfg := s.config()
	resp := validateResponse{ConfigOK: true, Env: cfg.Env, DailyLimit: cfg.DailyLimit}

	resp.Directory = "ok"
	if err := s.deps.Directory.Ping(c.Request.Context()); err != nil {
		resp.Directory = err.Error()
	}
	resp.Messaging = "ok"
	if err := s.deps.Sender.Verify(c.Request.Context()); err != nil {
		resp.Messaging = err.Error()
	}

	status := http.StatusOK
	if resp.Directory != "ok" || resp.Messaging != "ok" {
		status = http.StatusBadGateway
	}
	c.JSON(status, resp)
}

type runRequest struct {
	CampaignID string   `json:"campaign_id"`
	Limit      int      `json:"limit"`
	Category   string   `json:"category"`
	Experience string   `json:"experience"`
	ListID     int64    `json:"list_id"`
	Variables  []string `json:"variables"`
	Confirm    bool     `json:"confirm"`
}

type planCandidate struct {
	ID    string `json:"id"`
	Phone string `json:"phone"`
}

type planSegment struct {
	Label      string          `json:"label"`
	ListID     int64           `json:"list_id"`
	Template   string          `json:"template"`
	Candidates []planCandidate `json:"candidates"`
}

func (s *Server) dryRun(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}

	cfg := s.config()
	ctx := c.Request.Context()

	segments, err := app.BuildSegments(ctx, s.deps.Directory, orDefault(req.Category, cfg.CategoryFolder), req.Experience, orDefaultInt64(req.ListID, cfg.ListID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orch := s.newEngine(cfg)
	plans, err := orch.Plan(ctx, app.RunSpec{
		Segments:   segments,
		Limit:      req.Limit,
		CampaignID: orDefault(req.CampaignID, "dry-run"),
		Variables:  req.Variables,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	out := make([]planSegment, 0, len(plans))
	total := 0
	for _, p := range plans {
		seg := planSegment{
			Label:      p.Segment.Label,
			ListID:     p.Segment.ListID,
			Template:   p.Template,
			Candidates: make([]planCandidate, 0, len(p.Candidates)),
		}
		for _, cand := range p.Candidates {
			seg.Candidates = append(seg.Candidates, planCandidate{
				ID:    cand.ExternalID,
				Phone: domain.MaskPhone(cand.Phone),
			})
			total++
		}
		out = append(out, seg)
	}
	c.JSON(http.StatusOK, gin.H{"segments": out, "total": total})
}

func (s *Server) send(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg := s.config()
	if !req.Confirm {
		c.JSON(http.StatusForbidden, gin.H{"error": domain.ErrConfirmRequired.Error()})
		return
	}
	if req.CampaignID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingCampaignID.Error()})
		return
	}
	if req.Limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be positive"})
		return
	}

	ctx := c.Request.Context()
	segments, err := app.BuildSegments(ctx, s.deps.Directory, orDefault(req.Category, cfg.CategoryFolder), req.Experience, orDefaultInt64(req.ListID, cfg.ListID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orch := s.newEngine(cfg)
	report, err := orch.Run(ctx, app.RunSpec{
		Segments:   segments,
		Limit:      req.Limit,
		CampaignID: req.CampaignID,
		Variables:  req.Variables,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

type summaryResponse struct {
	Success24h int64              `json:"success_24h"`
	Failed24h  int64              `json:"failed_24h"`
	DailyLimit int                `json:"daily_limit"`
	Remaining  int64              `json:"remaining"`
	Daily      ports.DailySummary `json:"daily"`
}

func (s *Server) summary(c *gin.Context) {
	cfg := s.config()
	ctx := c.Request.Context()

	counts, err := s.deps.Ledger.RecentOutcomes(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	daily, err := s.deps.Reporter.Summary(ctx, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	remaining := int64(cfg.DailyLimit) - counts.Success
	if remaining < 0 {
		remaining = 0
	}
	c.JSON(http.StatusOK, summaryResponse{
		Success24h: counts.Success,
		Failed24h:  counts.Failed,
		DailyLimit: cfg.DailyLimit,
		Remaining:  remaining,
		Daily:      daily,
	})
}

func (s *Server) folders(c *gin.Context) {
	folders, err := s.deps.Directory.Folders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"folders": folders})
}

func (s *Server) folderLevels(c *gin.Context) {
	folder := c.Query("folder")
	if folder == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "folder query parameter is required"})
		return
	}

	segments, err := app.BuildSegments(c.Request.Context(), s.deps.Directory, folder, "", 0)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"levels": segments})
}

func (s *Server) newEngine(cfg cliconfig.Config) *app.Orchestrator {
	return app.NewEngine(s.deps.Directory, s.deps.Sender, s.deps.Ledger, s.deps.Reporter, EngineParams(cfg), s.log)
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func orDefaultInt64(v, fallback int64) int64 {
	if v > 0 {
		return v
	}
	return fallback
}
