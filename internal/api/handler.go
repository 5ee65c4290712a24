package api

import (
	"github.com/gin-gonic/gin"

	"coursepulse/internal/config"
	"coursepulse/internal/importer"
)

// Handler HTTP handlers of the analysis API
type Handler struct {
	cfg            *config.AppConfig
	coordinator    *importer.Coordinator
	uploadDir      string
	maxUploadBytes int64
}

// NewHandler creates the API handler; uploads are staged in uploadDir
func NewHandler(cfg *config.AppConfig, uploadDir string) *Handler {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Handler{
		cfg:            cfg,
		coordinator:    importer.NewCoordinator(cfg),
		uploadDir:      uploadDir,
		maxUploadBytes: cfg.Server.MaxUploadBytes(),
	}
}

// RegisterRoutes registers the API routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)
	router.GET("/config", h.GetConfig)

	// workbook analysis
	router.POST("/upload", h.Upload)
	router.POST("/export", h.Export)
}
