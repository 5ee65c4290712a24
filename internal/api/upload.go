package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"coursepulse/internal/excel"
	"coursepulse/internal/exporter"
	"coursepulse/internal/model"
)

// ErrorResponse failure payload
type ErrorResponse struct {
	Message string `json:"message"`
}

// Upload analyzes an uploaded workbook
// POST /api/upload (multipart: file, currentWeek, totalWeeks)
func (h *Handler) Upload(c *gin.Context) {
	a, ok := h.analyzeUpload(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, a.result)
}

// Export analyzes an uploaded workbook and returns the KPI report as .xlsx
// POST /api/export (multipart: file, currentWeek, totalWeeks)
func (h *Handler) Export(c *gin.Context) {
	a, ok := h.analyzeUpload(c)
	if !ok {
		return
	}

	file, err := exporter.Export(a.result, exporter.ExportOptions{Weeks: a.weeks})
	if err != nil {
		log.Printf("[%s] export failed: %v", a.requestID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "No se pudo generar el reporte."})
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", exporter.ContentDisposition(a.weeks))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Writer); err != nil {
		log.Printf("[%s] write report failed: %v", a.requestID, err)
	}
}

type uploadAnalysis struct {
	requestID string
	weeks     model.WeekRange
	result    *model.Result
}

// analyzeUpload stages the multipart file, runs the pipeline and removes the file.
// On failure the error response has already been written.
func (h *Handler) analyzeUpload(c *gin.Context) (*uploadAnalysis, bool) {
	requestID := uuid.New().String()
	c.Header("X-Request-ID", requestID)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	uploaded, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Message: "El archivo supera el tamaño máximo permitido."})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "No se subió ningún archivo."})
		return nil, false
	}

	weeks, err := parseWeeks(c.PostForm("currentWeek"), c.PostForm("totalWeeks"))
	if err != nil {
		log.Printf("[%s] rejected weeks: %v", requestID, err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: invalidWeeksMessage})
		return nil, false
	}

	ext := strings.ToLower(filepath.Ext(uploaded.Filename))
	if ext == "" {
		ext = ".xlsx"
	}
	tempFilePath := filepath.Join(h.uploadDir, requestID+ext)
	if err := c.SaveUploadedFile(uploaded, tempFilePath); err != nil {
		log.Printf("[%s] save upload failed: %v", requestID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "No se pudo guardar el archivo."})
		return nil, false
	}
	defer func() {
		if err := os.Remove(tempFilePath); err != nil && !os.IsNotExist(err) {
			log.Printf("[%s] remove temp file failed: %v", requestID, err)
		}
	}()

	wb, err := excel.LoadFile(tempFilePath)
	if err != nil {
		log.Printf("[%s] decode %q failed: %v", requestID, uploaded.Filename, err)
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Message: fmt.Sprintf("Error al procesar el archivo: %v", err)})
		return nil, false
	}

	result, report, err := h.coordinator.Analyze(wb, weeks)
	if err != nil {
		log.Printf("[%s] analysis of %q failed: %v", requestID, uploaded.Filename, err)
		c.JSON(statusFor(err), ErrorResponse{Message: fmt.Sprintf("Error al procesar el archivo: %v", err)})
		return nil, false
	}
	log.Printf("[%s] %q analyzed: sheet=%q candidates=%d skipped_rows=%d", requestID, uploaded.Filename, report.ProgressSheet, len(report.Candidates), report.SkippedRows)

	return &uploadAnalysis{requestID: requestID, weeks: weeks, result: result}, true
}

const invalidWeeksMessage = "Número de semanas inválido: la semana actual debe ser un entero entre 1 y el total de semanas."

// parseWeeks parses and validates the week pair sent with the upload
func parseWeeks(current, total string) (model.WeekRange, error) {
	cw, errC := strconv.Atoi(strings.TrimSpace(current))
	tw, errT := strconv.Atoi(strings.TrimSpace(total))
	if errC != nil || errT != nil {
		return model.WeekRange{}, fmt.Errorf("%w: currentWeek and totalWeeks must be integers", model.ErrInvalidWeekRange)
	}
	weeks := model.WeekRange{Current: cw, Total: tw}
	if err := weeks.Validate(); err != nil {
		return model.WeekRange{}, err
	}
	return weeks, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidWeekRange):
		return http.StatusBadRequest
	case model.IsStructural(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
