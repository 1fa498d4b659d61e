package httpapi

import (
	"math/rand"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"witness-lab/internal/consensus"
	"witness-lab/internal/domain"
	"witness-lab/internal/llm"
	"witness-lab/internal/market"
)

// Handler mantiene dependencias para los endpoints del laboratorio.
// Guarda en memoria el ultimo reporte y su protocolo para que la
// herramienta externa de analisis consulte metricas despues de la corrida.
type Handler struct {
	logger  *zap.Logger
	cfg     market.Config
	k       float64
	weights map[string]float64
	client  llm.Client
	seed    int64

	mu       sync.Mutex
	protocol *consensus.Protocol
	report   *domain.SimulationSummary
}

func NewHandler(logger *zap.Logger, cfg market.Config, k float64, weights map[string]float64, client llm.Client, seed int64) *Handler {
	return &Handler{
		logger:  logger,
		cfg:     cfg,
		k:       k,
		weights: weights,
		client:  client,
		seed:    seed,
	}
}

// Simulate maneja POST /simulate: corre una simulacion de mercado
// completa con los knobs configurados y retiene el reporte.
func (h *Handler) Simulate(c *gin.Context) {
	var req struct {
		Days int   `json:"days"`
		Seed int64 `json:"seed"`
	}
	// Body opcional: sin body se usan los valores configurados.
	_ = c.ShouldBindJSON(&req)

	cfg := h.cfg
	if req.Days > 0 {
		cfg.SimulationDays = req.Days
	}
	seed := h.seed
	if req.Seed != 0 {
		seed = req.Seed
	}

	protocol := consensus.New(h.k, h.weights, h.logger)
	rng := rand.New(rand.NewSource(seed))
	engine := market.NewEngine(cfg, protocol, h.client, rng, h.logger)

	summary := engine.Run(c.Request.Context())

	h.mu.Lock()
	h.protocol = protocol
	h.report = &summary
	h.mu.Unlock()

	h.logger.Info("simulation run finished",
		zap.Int("days", summary.TotalDays),
		zap.Float64("total_minted", summary.TotalMinted),
		zap.Int("round_failures", engine.RoundFailures()),
	)

	c.JSON(http.StatusOK, summary)
}

// Report maneja GET /report: devuelve el ultimo reporte de simulacion.
func (h *Handler) Report(c *gin.Context) {
	h.mu.Lock()
	report := h.report
	h.mu.Unlock()

	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no simulation has run"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// IMIMetrics maneja GET /metrics/imi.
func (h *Handler) IMIMetrics(c *gin.Context) {
	h.mu.Lock()
	protocol := h.protocol
	h.mu.Unlock()

	if protocol == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no simulation has run"})
		return
	}

	windowDays := 30
	if raw := c.Query("window_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid window_days"})
			return
		}
		windowDays = parsed
	}

	c.JSON(http.StatusOK, protocol.IMIMetrics(windowDays))
}

// ParticipantStats maneja GET /participants/:id.
func (h *Handler) ParticipantStats(c *gin.Context) {
	h.mu.Lock()
	protocol := h.protocol
	h.mu.Unlock()

	if protocol == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no simulation has run"})
		return
	}

	c.JSON(http.StatusOK, protocol.ParticipantStats(c.Param("id")))
}
