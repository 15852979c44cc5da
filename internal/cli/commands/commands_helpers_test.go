package commands

import (
	"PassVault/internal/config"
	"PassVault/internal/crypto"
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
)

// withTempConfig возвращает конфигурацию, у которой база и резервные копии лежат во временном каталоге.
func withTempConfig(t *testing.T) *config.Config {
	t.Helper()
	cipherOpts = []crypto.Option{crypto.WithCost(10)}
	dir := t.TempDir()
	return &config.Config{
		VaultDBPath:     filepath.Join(dir, "passwords.db"),
		BackupDir:       filepath.Join(dir, "backups"),
		BackupKey:       "test-key",
		DuplicatePolicy: "skip",
	}
}

// перехват stdout на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

// run выполняет команду через диспетчер и возвращает код выхода и вывод.
func run(t *testing.T, cfg *config.Config, args ...string) (int, string) {
	t.Helper()
	var code int
	out := withStdoutCapture(t, func() { code = Dispatch(context.Background(), cfg, args) })
	return code, out
}

// withStdin подменяет In на время теста.
func withStdin(t *testing.T, s string) {
	t.Helper()
	old := In
	In = strings.NewReader(s)
	t.Cleanup(func() { In = old })
}
