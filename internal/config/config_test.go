package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("expected missing config file to be fine, got %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Download.Engine != "ytdlp" {
		t.Errorf("expected default engine ytdlp, got %q", cfg.Download.Engine)
	}
	if cfg.Download.YtDlpPath != "yt-dlp" {
		t.Errorf("expected default ytdlp path, got %q", cfg.Download.YtDlpPath)
	}
	if cfg.ProjectsDir != filepath.Join(cfg.DataDir, "projects") {
		t.Errorf("expected projects dir under data dir, got %q", cfg.ProjectsDir)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "*" {
		t.Errorf("expected wildcard origins default, got %v", cfg.Server.AllowedOrigins)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9100
  allowed_origins:
    - "http://localhost:5173"
data_dir: ` + dir + `
download:
  engine: http
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("expected port 9100, got %d", cfg.Server.Port)
	}
	if cfg.DataDir != dir {
		t.Errorf("expected data dir %q, got %q", dir, cfg.DataDir)
	}
	if cfg.Download.Engine != "http" {
		t.Errorf("expected engine http, got %q", cfg.Download.Engine)
	}
	// Unset keys still get defaults.
	if cfg.Download.Format == "" {
		t.Error("expected default format to be filled in")
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "http://localhost:5173" {
		t.Errorf("unexpected origins %v", cfg.Server.AllowedOrigins)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("COURSE_GRABBER_PORT", "9999")
	t.Setenv("COURSE_GRABBER_DATA_DIR", "/tmp/grabber-data")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("expected env port override 9999, got %d", cfg.Server.Port)
	}
	if cfg.DataDir != "/tmp/grabber-data" {
		t.Errorf("expected env data dir override, got %q", cfg.DataDir)
	}
	if cfg.ProjectsDir != filepath.Join("/tmp/grabber-data", "projects") {
		t.Errorf("expected projects dir under overridden data dir, got %q", cfg.ProjectsDir)
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\n  - ]["), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
