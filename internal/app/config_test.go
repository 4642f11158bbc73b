package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/plantdx-backend/internal/clients/huggingface"
	"github.com/yungbote/plantdx-backend/internal/clients/modelserver"
	"github.com/yungbote/plantdx-backend/internal/services/classifier"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(configPathEnv, "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "5000" || cfg.StoreDriver != "memory" || cfg.ImageStore != "local" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Classifier.Fallback != string(classifier.FallbackUnknown) {
		t.Fatalf("fallback: %q", cfg.Classifier.Fallback)
	}
	if cfg.Classifier.Vision.Enabled {
		t.Fatalf("vision should be off by default")
	}
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := writeConfig(t, `
port: "6000"
store_driver: sqlite
sqlite_path: /tmp/leaf.db
classifier:
  fallback: guess
  model_server:
    enabled: true
    min_confidence: 0.4
    timeout: 45s
  huggingface_vit:
    enabled: false
`)
	t.Setenv(configPathEnv, path)
	t.Setenv("PORT", "7000")
	t.Setenv("CORS_ORIGINS", "https://a.test, https://b.test")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "7000" {
		t.Fatalf("env should override file, got port %q", cfg.Port)
	}
	if cfg.StoreDriver != "sqlite" || cfg.SQLitePath != "/tmp/leaf.db" {
		t.Fatalf("store: %q %q", cfg.StoreDriver, cfg.SQLitePath)
	}
	if cfg.Classifier.Fallback != "guess" {
		t.Fatalf("fallback: %q", cfg.Classifier.Fallback)
	}
	if got := cfg.Classifier.ModelServer.Timeout.Std(); got != 30*time.Second {
		t.Fatalf("timeout should clamp to 30s, got %s", got)
	}
	if cfg.Classifier.ModelServer.MinConfidence != 0.4 || cfg.Classifier.HuggingFaceViT.Enabled {
		t.Fatalf("classifier members: %+v", cfg.Classifier)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.test" {
		t.Fatalf("cors: %v", cfg.CORSOrigins)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad driver", func(c *Config) { c.StoreDriver = "mongo" }, "mongo"},
		{"redis without addr", func(c *Config) { c.StoreDriver = "redis" }, "REDIS_ADDR"},
		{"zero upload", func(c *Config) { c.MaxUploadBytes = 0 }, "max upload"},
		{"gcs without bucket", func(c *Config) { c.ImageStore = "gcs" }, "GCS_BUCKET_NAME"},
		{"bad image store", func(c *Config) { c.ImageStore = "s3" }, "s3"},
		{"bad fallback", func(c *Config) { c.Classifier.Fallback = "random" }, "random"},
		{"confidence range", func(c *Config) { c.Classifier.Vision.MinConfidence = 1.5 }, "min_confidence"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("want error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestDurationUnmarshal(t *testing.T) {
	path := writeConfig(t, "classifier:\n  breaker_cooldown: nonsense\n")
	t.Setenv(configPathEnv, path)
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected duration parse error")
	}
}

func TestChainMembers(t *testing.T) {
	ms, err := modelserver.New(modelserver.Options{BaseURL: "http://ms.test"})
	if err != nil {
		t.Fatalf("modelserver.New: %v", err)
	}
	hf, err := huggingface.New(huggingface.Options{APIKey: "hf_test"})
	if err != nil {
		t.Fatalf("huggingface.New: %v", err)
	}

	cfg := DefaultConfig().Classifier
	names := func(members []classifier.Member) []string {
		var out []string
		for _, m := range members {
			out = append(out, m.Classifier.Name())
		}
		return out
	}

	got := names(chainMembers(cfg, Clients{ModelServer: ms, HuggingFace: hf}))
	want := []string{classifier.ModelServerName, "hf:" + classifier.HFViTModel, "hf:" + classifier.HFPlantModel}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("order: want=%v got=%v", want, got)
	}

	got = names(chainMembers(cfg, Clients{ModelServer: ms}))
	if len(got) != 1 || got[0] != classifier.ModelServerName {
		t.Fatalf("without api key: %v", got)
	}

	cfg.ModelServer.Enabled = false
	if got := chainMembers(cfg, Clients{ModelServer: ms}); len(got) != 0 {
		t.Fatalf("disabled model server still wired: %v", names(got))
	}
}
