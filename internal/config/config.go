package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"coursepulse/internal/model"
)

// AppConfig application configuration
type AppConfig struct {
	Server     ServerConfig     `toml:"server"`
	Data       DataConfig       `toml:"data"`
	Parser     ParserConfig     `toml:"parser"`
	Sheets     SheetsConfig     `toml:"sheets"`
	Aliases    AliasConfig      `toml:"aliases"`
	Calculator CalculatorConfig `toml:"calculator"`
	Alerts     AlertConfig      `toml:"alerts"`
}

// ServerConfig HTTP server
type ServerConfig struct {
	Port        int  `toml:"port"`
	DevMode     bool `toml:"dev_mode"`
	MaxUploadMB int  `toml:"max_upload_mb"`
}

// DefaultMaxUploadMB upload limit used when max_upload_mb is unset or not positive
const DefaultMaxUploadMB = 20

// MaxUploadBytes upload limit in bytes
func (s ServerConfig) MaxUploadBytes() int64 {
	mb := s.MaxUploadMB
	if mb <= 0 {
		mb = DefaultMaxUploadMB
	}
	return int64(mb) << 20
}

// DataConfig temporary upload storage
type DataConfig struct {
	UploadDir string `toml:"upload_dir"`
}

// ParserConfig header detection
type ParserConfig struct {
	HeaderScanRows int `toml:"header_scan_rows"`
}

// SheetsConfig candidate sheet names per sheet purpose, in preference order
type SheetsConfig struct {
	Progress   []string `toml:"progress"`
	Diagnostic []string `toml:"diagnostic"`
	Final      []string `toml:"final"`
}

// AliasConfig recognized header label variants per canonical field
type AliasConfig struct {
	Name     []string `toml:"name"`
	Email    []string `toml:"email"`
	Progress []string `toml:"progress"`
	Grade    []string `toml:"grade"`
}

// CalculatorConfig aggregation parameters
type CalculatorConfig struct {
	PassingGrade  float64  `toml:"passing_grade"`
	MinNameLength int      `toml:"min_name_length"`
	SummaryTokens []string `toml:"summary_tokens"`
}

// AlertConfig alert thresholds, percentages on a 0-100 scale
type AlertConfig struct {
	ZeroProgressHighPct float64 `toml:"zero_progress_high_pct"`
	LowTierMediumPct    float64 `toml:"low_tier_medium_pct"`
	FinalCriticalPct    float64 `toml:"final_critical_pct"`
	FinalHighPct        float64 `toml:"final_high_pct"`
	DualCriticalPct     float64 `toml:"dual_critical_pct"`
	DualHighPct         float64 `toml:"dual_high_pct"`
}

// LoadConfigInfo metadata about how the configuration was loaded
type LoadConfigInfo struct {
	Path          string
	FileFound     bool
	PortSpecified bool
}

// DefaultConfig default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        3001,
			DevMode:     false,
			MaxUploadMB: DefaultMaxUploadMB,
		},
		Data: DataConfig{
			UploadDir: "uploads",
		},
		Parser: ParserConfig{
			HeaderScanRows: 25,
		},
		Sheets: SheetsConfig{
			Progress:   []string{"Sin Avances", "Avances", "Reporte Avances", "Reporte", "Hoja1", "Sheet1"},
			Diagnostic: []string{"Prueba Diagnóstica", "Diagnóstica", "Diagnóstico"},
			Final:      []string{"Prueba Final", "Evaluación Final"},
		},
		Aliases: DefaultAliases(),
		Calculator: CalculatorConfig{
			PassingGrade:  4.0,
			MinNameLength: 3,
			SummaryTokens: []string{"promedio", "average"},
		},
		Alerts: AlertConfig{
			ZeroProgressHighPct: 20,
			LowTierMediumPct:    15,
			FinalCriticalPct:    30,
			FinalHighPct:        50,
			DualCriticalPct:     25,
			DualHighPct:         40,
		},
	}
}

// DefaultAliases built-in alias dictionary
func DefaultAliases() AliasConfig {
	return AliasConfig{
		Name:     []string{"nombre completo", "nombre", "nombres", "alumno", "estudiante", "participante", "name"},
		Email:    []string{"direccion de correo", "correo electronico", "correo", "email", "e-mail", "mail"},
		Progress: []string{"porcentaje de avance total del curso", "avance total", "% avance", "porcentaje de avance", "avance", "progreso", "progress"},
		Grade:    []string{"nota", "calificacion", "grade", "score"},
	}
}

// Dictionary alias sets keyed by canonical field
func (a AliasConfig) Dictionary() model.AliasDictionary {
	return model.AliasDictionary{
		model.FieldName:            a.Name,
		model.FieldEmail:           a.Email,
		model.FieldProgressPercent: a.Progress,
		model.FieldGrade:           a.Grade,
	}
}

// Validate rejects configurations the pipeline cannot work with
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Parser.HeaderScanRows <= 0 {
		errs = append(errs, fmt.Errorf("parser.header_scan_rows must be positive, got %d", c.Parser.HeaderScanRows))
	}
	if len(c.Sheets.Progress) == 0 {
		errs = append(errs, errors.New("sheets.progress must list at least one sheet name"))
	}
	for _, f := range model.CanonicalFields {
		if len(c.Aliases.Dictionary()[f]) == 0 {
			errs = append(errs, fmt.Errorf("aliases.%s must not be empty", f))
		}
	}
	if c.Calculator.PassingGrade <= 0 {
		errs = append(errs, fmt.Errorf("calculator.passing_grade must be positive, got %v", c.Calculator.PassingGrade))
	}
	return errors.Join(errs...)
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir directory of the running executable
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultConfigPath config.toml next to the executable, or COURSEPULSE_CONFIG
func DefaultConfigPath() string {
	if v := os.Getenv("COURSEPULSE_CONFIG"); v != "" {
		return v
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigWithInfo loads config.toml and reports load metadata
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	return LoadFile(DefaultConfigPath())
}

// LoadFile loads the configuration at path; a missing file yields defaults
func LoadFile(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(config, &info)
			return config, info, nil
		}
		return nil, info, err
	}
	info.FileFound = true
	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, fmt.Errorf("parse %s: %w", path, err)
	}

	applyEnv(config, &info)

	if err := config.Validate(); err != nil {
		return nil, info, err
	}
	return config, info, nil
}

// applyEnv environment overrides (local runs / containers)
func applyEnv(config *AppConfig, info *LoadConfigInfo) {
	if v := os.Getenv("COURSEPULSE_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			config.Server.Port = p
			info.PortSpecified = true
		}
	}
	if v := os.Getenv("COURSEPULSE_UPLOAD_DIR"); v != "" {
		config.Data.UploadDir = v
	}
}

// SaveConfig writes the configuration to path
func SaveConfig(config *AppConfig, path string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EnsureUploadDir creates the temporary upload directory
// relative paths are resolved against the executable directory
func EnsureUploadDir(config *AppConfig) (string, error) {
	dir := config.Data.UploadDir
	if !filepath.IsAbs(dir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dir = filepath.Join(exeDir, dir)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
