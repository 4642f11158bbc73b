package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/plantdx-backend/internal/data/db"
	"github.com/yungbote/plantdx-backend/internal/data/repos/diagnosis"
	"github.com/yungbote/plantdx-backend/internal/observability"
	"github.com/yungbote/plantdx-backend/internal/platform/envutil"
	"github.com/yungbote/plantdx-backend/internal/platform/gcp"
	"github.com/yungbote/plantdx-backend/internal/services"
	"github.com/yungbote/plantdx-backend/internal/services/classifier"
)

const (
	configPathEnv     = "PLANTDX_CONFIG_PATH"
	defaultConfigPath = "config/config.yaml"
)

// Duration reads YAML strings such as "30s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type ClassifierMemberConfig struct {
	Enabled       bool     `yaml:"enabled"`
	MinConfidence float64  `yaml:"min_confidence"`
	Timeout       Duration `yaml:"timeout"`
}

type ClassifierConfig struct {
	Fallback        string   `yaml:"fallback"`
	BreakerFailures uint32   `yaml:"breaker_failures"`
	BreakerCooldown Duration `yaml:"breaker_cooldown"`

	ModelServer      ClassifierMemberConfig `yaml:"model_server"`
	HuggingFaceViT   ClassifierMemberConfig `yaml:"huggingface_vit"`
	HuggingFacePlant ClassifierMemberConfig `yaml:"huggingface_plant"`
	Vision           ClassifierMemberConfig `yaml:"gcp_vision"`
}

type Config struct {
	Port        string   `yaml:"port"`
	LogMode     string   `yaml:"log_mode"`
	CORSOrigins []string `yaml:"cors_origins"`

	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	UploadDir      string `yaml:"upload_dir"`
	ImageStore     string `yaml:"image_store"`

	ModelServerURL     string   `yaml:"model_server_url"`
	ModelStatusTimeout Duration `yaml:"model_status_timeout"`
	HuggingFaceAPIKey  string   `yaml:"huggingface_api_key"`
	HuggingFaceBaseURL string   `yaml:"huggingface_base_url"`
	GCPCredentials     string   `yaml:"gcp_credentials"`

	StoreDriver string            `yaml:"store_driver"`
	Postgres    db.PostgresConfig `yaml:"postgres"`
	SQLitePath  string            `yaml:"sqlite_path"`
	RedisAddr   string            `yaml:"redis_addr"`
	RedisPrefix string            `yaml:"redis_prefix"`

	ObjectStorage gcp.ObjectStorageConfig  `yaml:"object_storage"`
	Classifier    ClassifierConfig         `yaml:"classifier"`
	Otel          observability.OtelConfig `yaml:"otel"`

	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

func DefaultConfig() Config {
	return Config{
		Port:               "5000",
		LogMode:            "development",
		MaxUploadBytes:     services.DefaultMaxUploadBytes,
		UploadDir:          "uploads",
		ImageStore:         services.ImageStoreLocal,
		ModelServerURL:     "http://localhost:5001",
		ModelStatusTimeout: Duration(5 * time.Second),
		StoreDriver:        diagnosis.DriverMemory,
		Postgres: db.PostgresConfig{
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			Name:    "plantdx",
			SSLMode: "disable",
		},
		SQLitePath:  "data/plantdx.db",
		RedisPrefix: "plantdx",
		Classifier: ClassifierConfig{
			Fallback:         string(classifier.FallbackUnknown),
			BreakerFailures:  3,
			BreakerCooldown:  Duration(30 * time.Second),
			ModelServer:      ClassifierMemberConfig{Enabled: true, MinConfidence: 0, Timeout: Duration(classifier.DefaultTimeout)},
			HuggingFaceViT:   ClassifierMemberConfig{Enabled: true, MinConfidence: 0.05, Timeout: Duration(classifier.DefaultTimeout)},
			HuggingFacePlant: ClassifierMemberConfig{Enabled: true, MinConfidence: 0.05, Timeout: Duration(classifier.DefaultTimeout)},
			Vision:           ClassifierMemberConfig{Enabled: false, MinConfidence: 0.6, Timeout: Duration(classifier.MinTimeout)},
		},
		Otel: observability.OtelConfig{
			ServiceName: "plantdx-backend",
			SampleRatio: 0.1,
		},
		ShutdownTimeout: Duration(15 * time.Second),
	}
}

// LoadConfig layers defaults, the optional YAML file and environment
// overrides, then validates. A missing file at the default path is fine; a
// missing file at an explicit path is not.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	path := envutil.String(configPathEnv, "")
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}
	if err := loadConfigFile(path, &cfg); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = envutil.String("PORT", cfg.Port)
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)
	if origins := envutil.String("CORS_ORIGINS", ""); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}

	cfg.MaxUploadBytes = envutil.Int64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.UploadDir = envutil.String("UPLOAD_DIR", cfg.UploadDir)
	cfg.ImageStore = envutil.String("IMAGE_STORE", cfg.ImageStore)

	cfg.ModelServerURL = envutil.String("MODEL_SERVER_URL", cfg.ModelServerURL)
	cfg.HuggingFaceAPIKey = envutil.String("HUGGINGFACE_API_KEY", cfg.HuggingFaceAPIKey)
	cfg.HuggingFaceBaseURL = envutil.String("HUGGINGFACE_BASE_URL", cfg.HuggingFaceBaseURL)

	cfg.StoreDriver = envutil.String("STORE_DRIVER", cfg.StoreDriver)
	cfg.Postgres.Host = envutil.String("POSTGRES_HOST", cfg.Postgres.Host)
	cfg.Postgres.Port = envutil.String("POSTGRES_PORT", cfg.Postgres.Port)
	cfg.Postgres.User = envutil.String("POSTGRES_USER", cfg.Postgres.User)
	cfg.Postgres.Password = envutil.String("POSTGRES_PASSWORD", cfg.Postgres.Password)
	cfg.Postgres.Name = envutil.String("POSTGRES_NAME", cfg.Postgres.Name)
	cfg.Postgres.SSLMode = envutil.String("POSTGRES_SSLMODE", cfg.Postgres.SSLMode)
	cfg.SQLitePath = envutil.String("SQLITE_PATH", cfg.SQLitePath)
	cfg.RedisAddr = envutil.String("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPrefix = envutil.String("REDIS_PREFIX", cfg.RedisPrefix)

	cfg.ObjectStorage.Mode = gcp.ObjectStorageMode(envutil.String("OBJECT_STORAGE_MODE", string(cfg.ObjectStorage.Mode)))
	cfg.ObjectStorage.Bucket = envutil.String("GCS_BUCKET_NAME", cfg.ObjectStorage.Bucket)
	cfg.ObjectStorage.EmulatorHost = envutil.String("STORAGE_EMULATOR_HOST", cfg.ObjectStorage.EmulatorHost)
	cfg.ObjectStorage.PublicBaseURL = envutil.String("OBJECT_STORAGE_PUBLIC_BASE_URL", cfg.ObjectStorage.PublicBaseURL)

	cfg.Classifier.Fallback = envutil.String("CLASSIFIER_FALLBACK", cfg.Classifier.Fallback)
	cfg.Classifier.Vision.Enabled = envutil.Bool("GCP_VISION_ENABLED", cfg.Classifier.Vision.Enabled)

	cfg.Otel.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Otel.Enabled)
	cfg.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Otel.Endpoint)
	cfg.Otel.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.Otel.ServiceName)
	cfg.Otel.Environment = envutil.String("APP_ENV", cfg.Otel.Environment)
	if h := envutil.String("OTEL_EXPORTER_OTLP_HEADERS", ""); h != "" {
		cfg.Otel.Headers = observability.ParseHeaders(h)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate normalizes enum-like fields and clamps classifier timeouts.
func (c *Config) Validate() error {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	if err := diagnosis.ValidDriver(c.StoreDriver); err != nil {
		return err
	}
	if c.StoreDriver == diagnosis.DriverRedis && strings.TrimSpace(c.RedisAddr) == "" {
		return errors.New("store driver redis requires REDIS_ADDR")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive, got %d", c.MaxUploadBytes)
	}
	c.ImageStore = strings.ToLower(strings.TrimSpace(c.ImageStore))
	switch c.ImageStore {
	case services.ImageStoreLocal:
	case services.ImageStoreGCS:
		if strings.TrimSpace(c.ObjectStorage.Bucket) == "" {
			return errors.New("image store gcs requires GCS_BUCKET_NAME")
		}
	default:
		return fmt.Errorf("unknown image store %q", c.ImageStore)
	}
	mode, err := classifier.ParseFallbackMode(c.Classifier.Fallback)
	if err != nil {
		return err
	}
	c.Classifier.Fallback = string(mode)

	for _, m := range []*ClassifierMemberConfig{
		&c.Classifier.ModelServer,
		&c.Classifier.HuggingFaceViT,
		&c.Classifier.HuggingFacePlant,
		&c.Classifier.Vision,
	} {
		m.Timeout = Duration(classifier.ClampTimeout(m.Timeout.Std()))
		if m.MinConfidence < 0 || m.MinConfidence > 1 {
			return fmt.Errorf("classifier min_confidence must be within [0,1], got %v", m.MinConfidence)
		}
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = Duration(15 * time.Second)
	}
	return nil
}
