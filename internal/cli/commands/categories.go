package commands

import (
	"PassVault/internal/cli/bootstrap"
	"PassVault/internal/config"
	"context"
	"fmt"
	"strings"
)

type categoriesCmd struct{}

func (categoriesCmd) Name() string        { return "categories" }
func (categoriesCmd) Description() string { return "Показать категории" }
func (categoriesCmd) Usage() string       { return "categories" }

func (categoriesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return withVault(ctx, cfg, func(v *bootstrap.Vault) error {
		cats, err := v.Store.ListCategories(ctx)
		if err != nil {
			return err
		}
		for _, c := range cats {
			fmt.Fprintf(Out, "- %s\n", c)
		}
		return nil
	})
}

type categoryAddCmd struct{}

func (categoryAddCmd) Name() string        { return "category-add" }
func (categoryAddCmd) Description() string { return "Добавить пустую категорию" }
func (categoryAddCmd) Usage() string       { return "category-add <name>" }

func (categoryAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return ErrUsage
	}
	return withVault(ctx, cfg, func(v *bootstrap.Vault) error {
		if err := v.Store.AddCategory(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(Out, "Category: %s\n", strings.TrimSpace(args[0]))
		return nil
	})
}

func init() {
	RegisterCmd(categoriesCmd{})
	RegisterCmd(categoryAddCmd{})
}
