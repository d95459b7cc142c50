package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/Flarenzy/labcam/internal/domain"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	NVRURL          string        `yaml:"nvr_url"`
	NVRToken        string        `yaml:"nvr_token"`
	LabName         string        `yaml:"lab_name"`
	DefaultLab      string        `yaml:"default_lab"`
	DSN             string        `yaml:"db_conn"`
	LogFile         string        `yaml:"log_file"`
	LogLevel        string        `yaml:"log_level"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	NotFoundExpiry  time.Duration `yaml:"not_found_expiry"`
	DropStale       bool          `yaml:"drop_stale_responses"`
	LegacyAdd       bool          `yaml:"legacy_add"`
	ScanConcurrency int           `yaml:"scan_concurrency"`

	// ConfigPath is the YAML file the values were read from, if any.
	ConfigPath string `yaml:"-"`
}

func DefaultConfig() Config {
	return Config{
		NVRURL:          "http://localhost:5000",
		DefaultLab:      "E2-L6-016",
		LogLevel:        "info",
		RequestTimeout:  10 * time.Second,
		NotFoundExpiry:  7 * time.Second,
		ScanConcurrency: 16,
	}
}

var configSearchPaths = []string{
	"labcam.yaml",
	"configs/labcam.yaml",
}

// LoadEnvFile loads KEY=value pairs from path into the process environment.
// A missing file is not an error; variables already set win.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// LoadConfig starts from the defaults, overlays the YAML config file and then
// the environment.
func LoadConfig(getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()

	if err := loadConfigFile(&cfg, getenv("LABCAM_CONFIG")); err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg, getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadConfigFile(cfg *Config, explicit string) error {
	paths := configSearchPaths
	if explicit != "" {
		paths = []string{explicit}
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && explicit == "" {
				continue
			}
			return fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("%w: parse config %s: %v", domain.ErrInvalidInput, path, err)
		}
		cfg.ConfigPath = path
		return nil
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	strs := map[string]*string{
		"NVR_URL":     &cfg.NVRURL,
		"NVR_TOKEN":   &cfg.NVRToken,
		"LAB_NAME":    &cfg.LabName,
		"DEFAULT_LAB": &cfg.DefaultLab,
		"DB_CONN":     &cfg.DSN,
		"LOG_FILE":    &cfg.LogFile,
		"LOG_LEVEL":   &cfg.LogLevel,
	}
	for key, dst := range strs {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"REQUEST_TIMEOUT":  &cfg.RequestTimeout,
		"NOT_FOUND_EXPIRY": &cfg.NotFoundExpiry,
	}
	for key, dst := range durations {
		v := getenv(key)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
		}
		*dst = d
	}

	bools := map[string]*bool{
		"DROP_STALE_RESPONSES": &cfg.DropStale,
		"LEGACY_ADD":           &cfg.LegacyAdd,
	}
	for key, dst := range bools {
		v := getenv(key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
		}
		*dst = b
	}

	if v := getenv("SCAN_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: SCAN_CONCURRENCY: %v", domain.ErrInvalidInput, err)
		}
		cfg.ScanConcurrency = n
	}
	return nil
}

func (c Config) validate() error {
	if c.NVRURL == "" {
		return fmt.Errorf("%w: nvr_url is required", domain.ErrInvalidInput)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request_timeout must be positive", domain.ErrInvalidInput)
	}
	if c.NotFoundExpiry < 0 {
		return fmt.Errorf("%w: not_found_expiry must not be negative", domain.ErrInvalidInput)
	}
	if c.ScanConcurrency <= 0 {
		return fmt.Errorf("%w: scan_concurrency must be positive", domain.ErrInvalidInput)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", domain.ErrInvalidInput, s)
	}
	return level, nil
}
