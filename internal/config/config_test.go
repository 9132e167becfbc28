package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	body = strings.ReplaceAll(body, "$DIR", filepath.ToSlash(dir))
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

const baseConfig = `
server:
  port: "9090"
  mode: debug
database:
  driver: sqlite
  path: $DIR/test.db
jwt:
  secret: short
  expire_hours: 2
storage:
  type: local
  local_path: $DIR/uploads
quiz:
  max_attempts: 3
  timer_ttl_hours: 1
`

func TestLoadConfigAppliesDefaultsAndUnits(t *testing.T) {
	dir := writeConfig(t, baseConfig)

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Database.Driver != "sqlite" {
		t.Fatalf("server/database = %+v / %+v", cfg.Server, cfg.Database)
	}
	if cfg.JWT.ExpireTime != 2*time.Hour || cfg.Quiz.TimerTTL != time.Hour {
		t.Fatalf("durations = %v / %v", cfg.JWT.ExpireTime, cfg.Quiz.TimerTTL)
	}
	if cfg.Quiz.LandingPath != "/" || cfg.Quiz.MaxAnswerSize != 64 {
		t.Fatalf("quiz defaults = %+v", cfg.Quiz)
	}
	if cfg.RateLimit.MaxRequests != 600 {
		t.Fatalf("rate limit default = %d", cfg.RateLimit.MaxRequests)
	}
	if cfg.File == "" {
		t.Fatalf("config file path not recorded")
	}
	if _, err := os.Stat(filepath.Join(dir, "uploads")); err != nil {
		t.Fatalf("local storage dir not created: %v", err)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := writeConfig(t, baseConfig)
	t.Setenv("SERVER_PORT", "7000")
	t.Setenv("DATABASE_DRIVER", "postgres")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "7000" || cfg.Database.Driver != "postgres" {
		t.Fatalf("env overrides ignored: %+v %+v", cfg.Server, cfg.Database)
	}
}

func TestLoadConfigRejectsShortSecretInRelease(t *testing.T) {
	dir := writeConfig(t, strings.Replace(baseConfig, "mode: debug", "mode: release", 1))
	if _, err := LoadConfig(dir); err == nil {
		t.Fatalf("expected short secret to be rejected in release mode")
	}
}

func TestLoadConfigValidates(t *testing.T) {
	cases := map[string]string{
		"attempts": strings.Replace(baseConfig, "max_attempts: 3", "max_attempts: 0", 1),
		"driver":   strings.Replace(baseConfig, "driver: sqlite", "driver: oracle", 1),
		"storage":  strings.Replace(baseConfig, "type: local", "type: ftp", 1),
		// answers are stored in a 64-character column
		"unbounded answers": baseConfig + "  max_answer_size: 0\n",
		"oversized answers": baseConfig + "  max_answer_size: 65\n",
	}
	for name, body := range cases {
		if _, err := LoadConfig(writeConfig(t, body)); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}
