package config

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ServerURL != "http://localhost:8080" {
		t.Errorf("server url = %s", cfg.ServerURL)
	}
	if cfg.ClassroomAPI != DefaultClassroomAPI {
		t.Errorf("classroom api = %s", cfg.ClassroomAPI)
	}
	if !cfg.ConfirmDelete {
		t.Error("delete confirmation should default on")
	}
	if cfg.LogLevel != "INFO" {
		t.Errorf("log level = %s", cfg.LogLevel)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STUDYDESK_SERVER_URL", "http://example.test:9000")
	t.Setenv("STUDYDESK_LOG_LEVEL", "DEBUG")

	cfg := DefaultConfig()
	if cfg.ServerURL != "http://example.test:9000" {
		t.Errorf("server url = %s", cfg.ServerURL)
	}
	if cfg.LogLevel != "DEBUG" {
		t.Errorf("log level = %s", cfg.LogLevel)
	}
}
