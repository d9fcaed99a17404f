package config

import "testing"

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("ENV", "production")
	t.Setenv("DATA_DIR", "/srv/homechart/data")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9999" {
		t.Errorf("port: got %q", cfg.Port)
	}
	if cfg.DataDir != "/srv/homechart/data" {
		t.Errorf("data dir: got %q", cfg.DataDir)
	}
	if cfg.IsDev() {
		t.Error("production must not report as development")
	}
}

func TestIsDev(t *testing.T) {
	if !(&Config{Env: "development"}).IsDev() {
		t.Error("development env not recognized")
	}
	if (&Config{Env: "staging"}).IsDev() {
		t.Error("staging reported as development")
	}
}
