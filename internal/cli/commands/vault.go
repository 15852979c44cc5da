package commands

import (
	"PassVault/internal/cli/bootstrap"
	"PassVault/internal/config"
	"PassVault/internal/crypto"
	"context"
	"flag"
	"io"
	"strconv"
)

// cipherOpts - параметры шифра для экспорта; в тестах понижается стоимость scrypt.
var cipherOpts []crypto.Option

// withVault открывает хранилище на время выполнения fn.
func withVault(ctx context.Context, cfg *config.Config, fn func(v *bootstrap.Vault) error) error {
	v, done, err := bootstrap.OpenVault(ctx, cfg, log, cipherOpts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := done(); err != nil {
			log.Warnw("Close vault failed", "error", err)
		}
	}()
	return fn(v)
}

// newFlagSet создаёт FlagSet команды, который не печатает ошибки сам.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrUsage
	}
	return id, nil
}
