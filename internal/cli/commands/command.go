package commands

import (
	"PassVault/internal/config"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// ErrUsage is returned by a command when arguments are invalid and usage should be shown.
var ErrUsage = errors.New("usage")

// Command represents a CLI subcommand.
type Command interface {
	// Name returns the command name as typed by the user, e.g. "add".
	Name() string
	// Description is a short human-readable description shown in help.
	Description() string
	// Usage returns the exact usage string, e.g. "get <id>".
	Usage() string
	// Run executes the command with provided args (without the command name).
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

// Flagged - команда со своими флагами. Набор флагов без значений нужен для `help <command>`.
type Flagged interface {
	Flags() *flag.FlagSet
}

// registry holds available commands by name.
var registry = map[string]Command{}

// Out - общий writer для вывода CLI. По умолчанию os.Stdout, но в тестах может переназначаться.
var Out io.Writer = os.Stdout

// In - источник ввода для команд, читающих секрет со стандартного ввода.
var In io.Reader = os.Stdin

var log = zap.NewNop().Sugar()

// SetLogger задаёт логгер, который команды передают хранилищу и движку.
func SetLogger(l *zap.SugaredLogger) {
	if l != nil {
		log = l
	}
}

// RegisterCmd adds a command to the registry. Should be called from init() of each command.
func RegisterCmd(cmd Command) {
	registry[cmd.Name()] = cmd
}

// Get returns a command by name.
func Get(name string) (Command, bool) {
	c, ok := registry[name]
	return c, ok
}

// List returns all registered commands sorted by name.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// FormatGlobalUsage builds a help text for all commands.
func FormatGlobalUsage() string {
	lines := []string{
		"PassVault CLI",
		"",
		"Usage:",
		"  pvcli [--db <path>] [--backup-dir <dir>] [--policy skip|overwrite] <command> [args]",
		"  pvcli help <command>",
		"",
		"Commands:",
	}
	for _, c := range List() {
		lines = append(lines, fmt.Sprintf("  %-44s %s", c.Usage(), c.Description()))
	}
	lines = append(lines,
		"",
		"Environment:",
		"  VAULT_DB_PATH      файл хранилища SQLite",
		"  DATABASE_URI       Postgres вместо SQLite",
		"  BACKUP_DIR         каталог для export",
		"  BACKUP_KEY         ключ шифрования резервных копий (без него export/import недоступны)",
		"  DUPLICATE_POLICY   skip|overwrite",
		"",
		"Exit codes: 0 ok, 1 error, 2 usage, 3 storage unavailable",
	)
	return strings.Join(lines, "\n") + "\n"
}

// FormatCommandUsage builds a help text for one command, including its flags.
func FormatCommandUsage(c Command) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "Usage: pvcli %s\n\n%s\n", c.Usage(), c.Description())
	if f, ok := c.(Flagged); ok {
		fs := f.Flags()
		var defs bytes.Buffer
		fs.SetOutput(&defs)
		fs.PrintDefaults()
		if defs.Len() > 0 {
			b.WriteString("\nFlags:\n")
			b.Write(defs.Bytes())
		}
	}
	return b.String()
}
