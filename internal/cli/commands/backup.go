package commands

import (
	"PassVault/internal/blobfs"
	"PassVault/internal/cli/bootstrap"
	"PassVault/internal/config"
	"PassVault/internal/model"
	"context"
	"flag"
	"fmt"
)

type exportCmd struct{}

func (exportCmd) Name() string        { return "export" }
func (exportCmd) Description() string { return "Экспортировать все записи в зашифрованный файл" }
func (exportCmd) Usage() string       { return "export" }

func (exportCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return withVault(ctx, cfg, func(v *bootstrap.Vault) error {
		res, err := v.Engine.Export(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(Out, "Exported %d records\n", res.Count)
		fmt.Fprintf(Out, "  file: %s\n", res.Location)
		return nil
	})
}

type importCmd struct{}

func (importCmd) Name() string { return "import" }
func (importCmd) Description() string {
	return "Импортировать зашифрованный файл (дубликаты пропускаются)"
}
func (importCmd) Usage() string { return "import [--policy skip|overwrite] <file>" }

func (importCmd) flags() (*flag.FlagSet, *string) {
	fs := newFlagSet("import")
	policy := fs.String("policy", "", "политика дубликатов: skip|overwrite (по умолчанию из конфигурации)")
	return fs, policy
}

func (c importCmd) Flags() *flag.FlagSet {
	fs, _ := c.flags()
	return fs
}

func (c importCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs, policy := c.flags()
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return ErrUsage
	}
	local := *cfg
	if *policy != "" {
		if _, err := model.ParseDuplicatePolicy(*policy); err != nil {
			return ErrUsage
		}
		local.DuplicatePolicy = *policy
	}
	return withVault(ctx, &local, func(v *bootstrap.Vault) error {
		res, err := v.Engine.Import(ctx, blobfs.FilePicker{Path: fs.Arg(0)})
		if err != nil {
			return err
		}
		fmt.Fprintf(Out, "Imported: %d, duplicates: %d, updated: %d, failed: %d\n",
			res.Imported, res.Duplicates, res.Updated, res.Failed)
		return nil
	})
}

func init() {
	RegisterCmd(exportCmd{})
	RegisterCmd(importCmd{})
}
