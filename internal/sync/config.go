package sync

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/transcriptgraph/internal/platform/logger"
)

const configPathEnv = "SYNC_PIPELINE_YAML"

//go:embed sync.yaml
var defaultConfigFS embed.FS

// Config carries the tunables of one sync run. Loaded from the embedded
// default, overridable with a YAML file named by SYNC_PIPELINE_YAML.
type Config struct {
	ChunkSize    int    `yaml:"chunk_size"`
	StagingDir   string `yaml:"staging_dir"`
	LedgerPath   string `yaml:"ledger_path"`
	CursorPath   string `yaml:"cursor_path"`
	MinEventDate string `yaml:"min_event_date"`
}

func defaultConfig() Config {
	return Config{
		ChunkSize:    2000,
		StagingDir:   "./staging",
		LedgerPath:   "./logs/failed_companies.txt",
		CursorPath:   "./logs/last_processed_id.txt",
		MinEventDate: "2014-01-01",
	}
}

func LoadConfig(log *logger.Logger) Config {
	raw, source, err := readConfigBytes()
	if err != nil {
		log.Warn("sync config unreadable, using defaults", "error", err)
		return defaultConfig()
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		log.Warn("sync config invalid, using defaults", "source", source, "error", err)
		return defaultConfig()
	}

	def := defaultConfig()
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = def.ChunkSize
	}
	if strings.TrimSpace(cfg.StagingDir) == "" {
		cfg.StagingDir = def.StagingDir
	}
	if strings.TrimSpace(cfg.LedgerPath) == "" {
		cfg.LedgerPath = def.LedgerPath
	}
	if strings.TrimSpace(cfg.CursorPath) == "" {
		cfg.CursorPath = def.CursorPath
	}
	if strings.TrimSpace(cfg.MinEventDate) == "" {
		cfg.MinEventDate = def.MinEventDate
	}

	log.Info("sync config loaded", "source", source, "chunk_size", cfg.ChunkSize)
	return cfg
}

func readConfigBytes() ([]byte, string, error) {
	if path := strings.TrimSpace(os.Getenv(configPathEnv)); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, path, fmt.Errorf("read %s: %w", path, err)
		}
		return raw, path, nil
	}
	raw, err := defaultConfigFS.ReadFile("sync.yaml")
	return raw, "embedded", err
}

// Since parses the minimum event date lower bound for extraction.
func (c Config) Since() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.MinEventDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse min_event_date %q: %w", c.MinEventDate, err)
	}
	return t.UTC(), nil
}
