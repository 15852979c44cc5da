package config

import (
	"PassVault/internal/model"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// resetFlagSet создаёт новый FlagSet перед каждым вызовом NewConfig,
// чтобы избежать повторной регистрации одних и тех же флагов между тестами.
func resetFlagSet(t *testing.T) {
	t.Helper()
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	// подавляем вывод парсера флагов в тестах
	flag.CommandLine.SetOutput(os.Stderr)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DATABASE_URI", "VAULT_DB_PATH", "BACKUP_DIR", "BACKUP_KEY", "DUPLICATE_POLICY",
		"BASE_URL", "AUTH_SECRET", "API_PASSWORD_HASH", "DEBUG",
	} {
		t.Setenv(k, "")
	}
}

func TestNewConfig_DefaultsWhenEnvEmpty(t *testing.T) {
	clearEnv(t)

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.AuthSecret == "" {
		t.Fatalf("AuthSecret must be generated when empty")
	}
	if cfg.BaseURL != "localhost:8081" {
		t.Fatalf("BaseURL default expected 'localhost:8081', got %q", cfg.BaseURL)
	}
	if cfg.DuplicatePolicy != "skip" {
		t.Fatalf("DuplicatePolicy default expected 'skip', got %q", cfg.DuplicatePolicy)
	}
	if filepath.Base(cfg.VaultDBPath) != "passwords.db" {
		t.Fatalf("VaultDBPath default must point to passwords.db, got %q", cfg.VaultDBPath)
	}
	if !strings.Contains(cfg.BackupDir, appDirName) {
		t.Fatalf("BackupDir default must live under %s, got %q", appDirName, cfg.BackupDir)
	}
	if cfg.Debug {
		t.Fatalf("Debug must be off by default")
	}
}

func TestNewConfig_FromEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("VAULT_DB_PATH", filepath.Join(dir, "v.db"))
	t.Setenv("BACKUP_DIR", filepath.Join(dir, "b"))
	t.Setenv("BACKUP_KEY", "k")
	t.Setenv("DUPLICATE_POLICY", "overwrite")
	t.Setenv("BASE_URL", "127.0.0.1:9000")
	t.Setenv("AUTH_SECRET", "top")
	t.Setenv("DEBUG", "true")

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.VaultDBPath != filepath.Join(dir, "v.db") || cfg.BackupDir != filepath.Join(dir, "b") {
		t.Fatalf("paths expected from env, got %q, %q", cfg.VaultDBPath, cfg.BackupDir)
	}
	if cfg.BackupKey != "k" {
		t.Fatalf("BackupKey expected from env, got %q", cfg.BackupKey)
	}
	if cfg.Policy() != model.PolicyOverwrite {
		t.Fatalf("Policy expected overwrite, got %q", cfg.Policy())
	}
	if cfg.BaseURL != "127.0.0.1:9000" {
		t.Fatalf("BaseURL expected '127.0.0.1:9000', got %q", cfg.BaseURL)
	}
	if cfg.AuthSecret != "top" {
		t.Fatalf("AuthSecret expected from env 'top', got %q", cfg.AuthSecret)
	}
	if !cfg.Debug {
		t.Fatalf("Debug expected true")
	}
}

func TestNewConfig_InvalidValuesFallback(t *testing.T) {
	clearEnv(t)
	// BASE_URL со схемой и неизвестная политика откатываются на значения по умолчанию
	t.Setenv("BASE_URL", "http://bad:8080")
	t.Setenv("DUPLICATE_POLICY", "merge-everything")

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.BaseURL != "localhost:8081" {
		t.Fatalf("invalid BASE_URL must fallback to 'localhost:8081', got %q", cfg.BaseURL)
	}
	if cfg.Policy() != model.PolicySkip {
		t.Fatalf("unknown policy must fallback to skip, got %q", cfg.DuplicatePolicy)
	}
}
