package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/plantdx-backend/internal/platform/envutil"
)

const (
	EnginePixelHash  = "pixelhash"
	DefaultInputSize = 224
)

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		d.Duration = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		u, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		if strings.TrimSpace(u) == "" {
			d.Duration = 0
			return nil
		}
		dd, err := time.ParseDuration(u)
		if err != nil {
			return err
		}
		d.Duration = dd
		return nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("duration must be a JSON string like \"5s\" or an int nanoseconds: %w", err)
	}
	d.Duration = time.Duration(n)
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:              ":5001",
			ReadHeaderTimeout: Duration{Duration: 5 * time.Second},
			IdleTimeout:       Duration{Duration: 2 * time.Minute},
			ShutdownTimeout:   Duration{Duration: 15 * time.Second},
			MaxRequestBytes:   16 << 20,
		},
		Engine: EngineConfig{Type: EnginePixelHash, InputSize: DefaultInputSize},
	}
}

// Load reads MODELSERVER_CONFIG_PATH (or ./config/modelserver.json when it
// exists) over the defaults, then applies environment overrides.
func Load() (*Config, error) {
	cfg := defaultConfig()

	cfgPath := strings.TrimSpace(os.Getenv("MODELSERVER_CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "modelserver.json")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}

	if cfgPath != "" {
		b, err := os.ReadFile(cfgPath)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", cfgPath, err)
		}
	}

	cfg.Env = envutil.String("LOG_MODE", cfg.Env)
	cfg.HTTP.Addr = envutil.String("MODELSERVER_ADDR", cfg.HTTP.Addr)
	if port := envutil.String("FLASK_PORT", ""); port != "" && os.Getenv("MODELSERVER_ADDR") == "" {
		cfg.HTTP.Addr = ":" + port
	}
	cfg.Engine.Type = envutil.String("MODELSERVER_ENGINE", cfg.Engine.Type)
	cfg.ClassIndicesPath = envutil.String("CLASS_INDICES_PATH", cfg.ClassIndicesPath)

	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		cfg.HTTP.Addr = ":5001"
	}
	if cfg.HTTP.MaxRequestBytes <= 0 {
		cfg.HTTP.MaxRequestBytes = 16 << 20
	}
	cfg.Engine.Type = strings.ToLower(strings.TrimSpace(cfg.Engine.Type))
	switch cfg.Engine.Type {
	case "", EnginePixelHash:
		cfg.Engine.Type = EnginePixelHash
	default:
		return nil, fmt.Errorf("unsupported engine type %q", cfg.Engine.Type)
	}
	if cfg.Engine.InputSize <= 0 {
		cfg.Engine.InputSize = DefaultInputSize
	}
	return cfg, nil
}
