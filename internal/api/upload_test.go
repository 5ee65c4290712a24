package api_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"coursepulse/internal/api"
	"coursepulse/internal/config"
	"coursepulse/internal/exporter"
	"coursepulse/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()

	dir := t.TempDir()
	router := gin.New()
	api.NewHandler(config.DefaultConfig(), dir).RegisterRoutes(router.Group("/api"))
	return router, dir
}

func workbookBytes(t *testing.T, sheet string) []byte {
	t.Helper()

	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	rows := [][]any{
		{"Nombre", "Correo", "% Avance"},
		{"Ana Pérez", "ana@x.cl", 100},
		{"Luis Soto", "luis@x.cl", 50},
		{"Eva Rojas", "eva@x.cl", 0},
		{"Promedio", nil, 50},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func multipartRequest(t *testing.T, path string, file []byte, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if file != nil {
		part, err := w.CreateFormFile("file", "curso.xlsx")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(file); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func weeks(current, total string) map[string]string {
	return map[string]string{"currentWeek": current, "totalWeeks": total}
}

func TestUpload_AnalyzesWorkbook(t *testing.T) {
	t.Parallel()

	router, dir := newRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/upload", workbookBytes(t, "Avances"), weeks("2", "4")))

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing X-Request-ID header")
	}

	var res model.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.TotalEnrolled != 3 || res.AverageProgress != "50.00" || res.ProgressSheet != "Avances" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(res.ProgressDistribution) != 6 {
		t.Fatalf("distribution=%+v", res.ProgressDistribution)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("uploaded file should be removed, found %d entries", len(entries))
	}
}

func TestUpload_RejectsBadRequests(t *testing.T) {
	t.Parallel()

	router, _ := newRouter(t)
	cases := []struct {
		name string
		file []byte
		form map[string]string
		want int
	}{
		{"missing file", nil, weeks("1", "4"), http.StatusBadRequest},
		{"non numeric week", workbookBytes(t, "Avances"), weeks("uno", "4"), http.StatusBadRequest},
		{"week past course end", workbookBytes(t, "Avances"), weeks("5", "4"), http.StatusBadRequest},
		{"not a workbook", []byte("nombre,avance\nana,50\n"), weeks("1", "4"), http.StatusUnprocessableEntity},
		{"no progress sheet", workbookBytes(t, "Resumen"), weeks("1", "4"), http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, multipartRequest(t, "/api/upload", tc.file, tc.form))
		if rec.Code != tc.want {
			t.Fatalf("%s: status=%d want %d body=%s", tc.name, rec.Code, tc.want, rec.Body.String())
		}
		var res api.ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil || res.Message == "" {
			t.Fatalf("%s: error payload missing message: %s", tc.name, rec.Body.String())
		}
	}
}

func TestUpload_InvalidWeeksMessageInSpanish(t *testing.T) {
	t.Parallel()

	router, _ := newRouter(t)
	for _, form := range []map[string]string{weeks("uno", "4"), weeks("5", "4"), weeks("0", "4"), weeks("", "")} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, multipartRequest(t, "/api/upload", workbookBytes(t, "Avances"), form))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%v: status=%d body=%s", form, rec.Code, rec.Body.String())
		}
		var res api.ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("%v: decode: %v", form, err)
		}
		if !strings.HasPrefix(res.Message, "Número de semanas inválido") {
			t.Fatalf("%v: message=%q", form, res.Message)
		}
		if strings.Contains(res.Message, "invalid week range") {
			t.Fatalf("%v: english detail leaked: %q", form, res.Message)
		}
	}
}

func TestExport_ReturnsWorkbook(t *testing.T) {
	t.Parallel()

	router, _ := newRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/export", workbookBytes(t, "Avances"), weeks("4", "4")))

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Disposition"), "attachment;") {
		t.Fatalf("content-disposition=%q", rec.Header().Get("Content-Disposition"))
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("open exported workbook: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })

	got := strings.Join(f.GetSheetList(), ",")
	want := strings.Join([]string{exporter.SheetIndicators, exporter.SheetDistribution, exporter.SheetAlerts}, ",")
	if got != want {
		t.Fatalf("sheets=%s want %s", got, want)
	}
}

func TestStatusAndConfig(t *testing.T) {
	t.Parallel()

	router, _ := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("status: %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/config", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("config: %d", rec.Code)
	}
	var cfg api.ConfigResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &cfg); err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if cfg.HeaderScanRows != 25 || len(cfg.Sheets["progress"]) == 0 || len(cfg.Aliases["email"]) == 0 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}
