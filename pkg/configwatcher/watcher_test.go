package configwatcher

import (
	"fmt"
	"os"
	"path/filepath"
	"quiz_master_backend/internal/config"
	"testing"
	"time"
)

const configBody = `
server:
  port: "8080"
  mode: release
database:
  driver: sqlite
jwt:
  secret: 0123456789abcdef0123456789abcdef
storage:
  type: minio
log:
  level: %s
`

func TestWatchConfigReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	write := func(level string) {
		body := []byte(fmt.Sprintf(configBody, level))
		if err := os.WriteFile(path, body, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("info")

	reloads := make(chan *config.Config, 4)
	go WatchConfig(path, func(cfg *config.Config) { reloads <- cfg })

	// give the watcher time to register
	time.Sleep(200 * time.Millisecond)
	write("warn")

	select {
	case cfg := <-reloads:
		if cfg.Log.Level != "warn" {
			t.Fatalf("reloaded level = %q, want warn", cfg.Log.Level)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
}
