package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coursepulse/internal/api"
	"coursepulse/internal/config"
)

// Server HTTP server
type Server struct {
	router *gin.Engine
	api    *api.Handler
}

// NewServer creates the server; uploads are staged in uploadDir
func NewServer(cfg *config.AppConfig, uploadDir string) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.MaxMultipartMemory = cfg.Server.MaxUploadBytes()

	s := &Server{
		router: router,
		api:    api.NewHandler(cfg, uploadDir),
	}
	s.setupRoutes()
	return s
}

// setupRoutes registers middleware and routes
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID, Content-Disposition")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	group := s.router.Group("/api")
	{
		s.api.RegisterRoutes(group)
	}
}

// Handler exposes the router (tests, custom listeners)
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts listening on addr
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
