package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearStreamEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvAPIKey, EnvAPISecret, EnvAppID, EnvAPIURL} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_EmptyEnvironment(t *testing.T) {
	clearStreamEnv(t)

	// An entirely blank environment must resolve without any error or
	// panic; credential problems belong to the service, not to config.
	cfg := FromEnv()
	if cfg.Stream.APIKey != "" || cfg.Stream.APISecret != "" || cfg.Stream.AppID != "" || cfg.Stream.APIURL != "" {
		t.Errorf("expected empty credentials, got %+v", cfg.Stream)
	}
}

func TestFromEnv_ReadsAllVariables(t *testing.T) {
	t.Setenv(EnvAPIKey, "key")
	t.Setenv(EnvAPISecret, "secret")
	t.Setenv(EnvAppID, "12345")
	t.Setenv(EnvAPIURL, "us-east")

	cfg := FromEnv()
	if cfg.Stream.APIKey != "key" {
		t.Errorf("APIKey = %q, want %q", cfg.Stream.APIKey, "key")
	}
	if cfg.Stream.APISecret != "secret" {
		t.Errorf("APISecret = %q, want %q", cfg.Stream.APISecret, "secret")
	}
	if cfg.Stream.AppID != "12345" {
		t.Errorf("AppID = %q, want %q", cfg.Stream.AppID, "12345")
	}
	if cfg.Stream.APIURL != "us-east" {
		t.Errorf("APIURL = %q, want %q", cfg.Stream.APIURL, "us-east")
	}
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	clearStreamEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load with missing file: %v", err)
	}
	if cfg.Stream.APIKey != "" {
		t.Errorf("expected empty APIKey, got %q", cfg.Stream.APIKey)
	}
}

func TestLoad_EnvironmentWinsOverFile(t *testing.T) {
	clearStreamEnv(t)

	path := filepath.Join(t.TempDir(), "feedseed.yaml")
	content := []byte("stream:\n  api_key: filekey\n  app_id: fileapp\nlogging:\n  level: debug\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvAPIKey, "envkey")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Stream.APIKey != "envkey" {
		t.Errorf("APIKey = %q, want env override %q", cfg.Stream.APIKey, "envkey")
	}
	if cfg.Stream.AppID != "fileapp" {
		t.Errorf("AppID = %q, want file value %q", cfg.Stream.AppID, "fileapp")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("stream: ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error for malformed YAML")
	}
}
