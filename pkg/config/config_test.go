package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestInitDefaults(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatalf("init: %v", err)
	}
	if got := GetRemoteConf().BaseURL; got != DefaultBaseURL {
		t.Fatalf("expected default base url, got %q", got)
	}
	if got := GetServerConf().Store; got != "memory" {
		t.Fatalf("expected memory store, got %q", got)
	}
	if got := GetTrainingConf().Tick; got != time.Second {
		t.Fatalf("expected 1s tick, got %v", got)
	}
}

func TestInitFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
run_mode: dev
server:
  store: redis
remote:
  timeout: 5s
training:
  tick: 10ms
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("API_BASE_URL", "http://localhost:9000/")
	t.Setenv("REDIS_ADDR", "redis:6379")

	if err := Init(path); err != nil {
		t.Fatalf("init: %v", err)
	}
	remote := GetRemoteConf()
	if remote.BaseURL != "http://localhost:9000" {
		t.Fatalf("expected trimmed env base url, got %q", remote.BaseURL)
	}
	if remote.Timeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %v", remote.Timeout)
	}
	if remote.EmbeddingsPath != "/embeddings/generate" {
		t.Fatalf("missing keys must keep defaults, got %q", remote.EmbeddingsPath)
	}
	if GetServerConf().Store != "redis" || GetServerConf().Addr != ":8080" {
		t.Fatalf("unexpected server conf %+v", GetServerConf())
	}
	if GetRedisConf().Addr != "redis:6379" {
		t.Fatalf("expected env redis addr, got %q", GetRedisConf().Addr)
	}
	if GetTrainingConf().Tick != 10*time.Millisecond || GetTrainingConf().MaxAge != time.Hour {
		t.Fatalf("unexpected training conf %+v", GetTrainingConf())
	}
	if GetRunMode() != "dev" {
		t.Fatalf("expected dev run mode, got %q", GetRunMode())
	}
}

func TestInitMissingFile(t *testing.T) {
	if err := Init(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
