//go:build !darwin

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileBackend_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "whatnow", "config.json")

	b := newFileBackend(path)
	if err := b.SetInt("server.port", 4242); err != nil {
		t.Fatalf("SetInt: %v", err)
	}
	if err := b.SetString("spin.delay", "500ms"); err != nil {
		t.Fatalf("SetString: %v", err)
	}

	reloaded := newFileBackend(path)
	port, ok, err := reloaded.GetInt("server.port")
	if err != nil || !ok || port != 4242 {
		t.Errorf("GetInt = %d, %v, %v", port, ok, err)
	}
	delay, ok, err := reloaded.GetString("spin.delay")
	if err != nil || !ok || delay != "500ms" {
		t.Errorf("GetString = %q, %v, %v", delay, ok, err)
	}

	if err := reloaded.Delete("spin.delay"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := newFileBackend(path).GetString("spin.delay"); ok {
		t.Error("spin.delay still present after Delete")
	}
}

func TestFileBackend_MalformedFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	clearEnv(t)

	cfg, err := loadWith(newFileBackend(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 4100 {
		t.Errorf("Server.Port = %d, want default 4100", cfg.Server.Port)
	}
}

func TestFileBackend_BadIntIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"server.port": 12.5}`), 0o600); err != nil {
		t.Fatal(err)
	}
	clearEnv(t)

	if _, err := loadWith(newFileBackend(path)); err == nil {
		t.Error("expected error for fractional port")
	}
}
