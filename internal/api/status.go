package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Version reported by /api/status
var Version = "dev"

// StatusResponse liveness response
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// GetStatus liveness check
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{Status: "ok", Version: Version})
}

// ConfigResponse active sheet candidates and alias dictionary
type ConfigResponse struct {
	HeaderScanRows int                 `json:"headerScanRows"`
	Sheets         map[string][]string `json:"sheets"`
	Aliases        map[string][]string `json:"aliases"`
	PassingGrade   float64             `json:"passingGrade"`
}

// GetConfig read-only view of the ingestion configuration
// GET /api/config
func (h *Handler) GetConfig(c *gin.Context) {
	aliases := make(map[string][]string)
	for f, list := range h.cfg.Aliases.Dictionary() {
		aliases[string(f)] = list
	}
	c.JSON(http.StatusOK, ConfigResponse{
		HeaderScanRows: h.cfg.Parser.HeaderScanRows,
		Sheets: map[string][]string{
			"progress":   h.cfg.Sheets.Progress,
			"diagnostic": h.cfg.Sheets.Diagnostic,
			"final":      h.cfg.Sheets.Final,
		},
		Aliases:      aliases,
		PassingGrade: h.cfg.Calculator.PassingGrade,
	})
}
