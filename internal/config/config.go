package config

import (
	"PassVault/internal/model"
	"flag"
	"os"
	"path/filepath"
	"regexp"

	"github.com/caarlos0/env/v6"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

const (
	appDirName     = "PassVault"
	defaultBaseURL = "localhost:8081"
)

type Config struct {
	// Storage
	DatabaseDSN string `env:"DATABASE_URI"`
	VaultDBPath string `env:"VAULT_DB_PATH"`

	// Backup
	BackupDir       string `env:"BACKUP_DIR"`
	BackupKey       string `env:"BACKUP_KEY"`
	DuplicatePolicy string `env:"DUPLICATE_POLICY"`

	// Local API
	BaseURL         string `env:"BASE_URL"`
	AuthSecret      string `env:"AUTH_SECRET"`
	APIPasswordHash string `env:"API_PASSWORD_HASH"`

	Debug   bool `env:"DEBUG"`
	Version bool `env:"-"` // show version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// значения из env становятся значениями флагов по умолчанию, флаг их перекрывает
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к Postgres (иначе используется SQLite)")
	flag.StringVar(&cfg.VaultDBPath, "db", cfg.VaultDBPath, "path to the vault SQLite file")
	flag.StringVar(&cfg.BackupDir, "backup-dir", cfg.BackupDir, "directory for exported backups")
	flag.StringVar(&cfg.DuplicatePolicy, "policy", cfg.DuplicatePolicy, "duplicate policy on import: skip|overwrite")
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "address of the local API (host:port)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "development logging")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show version and exit")

	flag.Parse()

	cfg.fillDefaults()
	return cfg
}

// hostPortRe - BaseURL в виде "address:port" (без схемы и пути).
var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

func (cfg *Config) fillDefaults() {
	// секрет не задан: токены живут до перезапуска сервера
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = uuid.NewString()
	}
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.DuplicatePolicy = string(cfg.Policy())

	home, _ := os.UserHomeDir()
	if cfg.VaultDBPath == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base = home
		}
		cfg.VaultDBPath = filepath.Join(base, appDirName, "passwords.db")
	}
	if cfg.BackupDir == "" {
		cfg.BackupDir = filepath.Join(home, appDirName, "backups")
	}
}

// Policy возвращает разобранную политику дубликатов.
func (cfg *Config) Policy() model.DuplicatePolicy {
	p, err := model.ParseDuplicatePolicy(cfg.DuplicatePolicy)
	if err != nil {
		return model.PolicySkip
	}
	return p
}
