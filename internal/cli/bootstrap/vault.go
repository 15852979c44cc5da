package bootstrap

import (
	"PassVault/internal/blobfs"
	"PassVault/internal/config"
	"PassVault/internal/crypto"
	"PassVault/internal/repo"
	"PassVault/internal/service"
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Vault - открытое хранилище и движок резервного копирования поверх него.
type Vault struct {
	Store  *repo.RecordStore
	Engine *service.Engine
}

// noKeyCipher подставляется, когда BACKUP_KEY не задан: хранилище работает,
// а экспорт и импорт завершаются ошибкой crypto.ErrEmptyKey.
type noKeyCipher struct{}

func (noKeyCipher) Encrypt([]byte) (string, error) {
	return "", fmt.Errorf("%w: set BACKUP_KEY", crypto.ErrEmptyKey)
}

func (noKeyCipher) Decrypt(string) ([]byte, error) {
	return nil, fmt.Errorf("%w: set BACKUP_KEY", crypto.ErrEmptyKey)
}

// OpenVault открывает БД, создаёт таблицу и собирает движок резервного копирования.
// Возвращает (vault, cleanup, error); cleanup закрывает соединение с БД и безопасен при повторном вызове.
// Ошибки хранилища оборачивают repo.ErrStorageUnavailable.
func OpenVault(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger, opts ...crypto.Option) (*Vault, func() error, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	db, err := repo.OpenDB(cfg.DatabaseDSN, cfg.VaultDBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open vault: %w", err)
	}
	var once sync.Once
	var closeErr error
	cleanup := func() error {
		once.Do(func() { closeErr = repo.CloseDB(db) })
		return closeErr
	}

	store := repo.NewRecordStore(db, logger)
	if err := store.Init(ctx); err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("init vault: %w", err)
	}

	var enc service.Encrypter = noKeyCipher{}
	if cfg.BackupKey != "" {
		c, err := crypto.NewCipher(cfg.BackupKey, opts...)
		if err != nil {
			_ = cleanup()
			return nil, nil, fmt.Errorf("backup cipher: %w", err)
		}
		enc = c
	} else {
		logger.Debugw("BACKUP_KEY is not set, export and import are disabled")
	}

	engine := service.NewEngine(store, enc, blobfs.DirWriter{Dir: cfg.BackupDir},
		service.WithPolicy(cfg.Policy()),
		service.WithLogger(logger),
	)
	return &Vault{Store: store, Engine: engine}, cleanup, nil
}
