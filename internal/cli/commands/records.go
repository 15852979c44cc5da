package commands

import (
	"PassVault/internal/cli/bootstrap"
	"PassVault/internal/config"
	"PassVault/internal/model"
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
)

func printRecords(list []model.Record) {
	if len(list) == 0 {
		fmt.Fprintln(Out, "Нет записей")
		return
	}
	for _, r := range list {
		fmt.Fprintf(Out, "- #%d  %s  %s  [%s]\n", r.ID, r.Title, r.Username, r.Category)
	}
	fmt.Fprintf(Out, "Всего: %d\n", len(list))
}

// recordFlags - поля записи, задаваемые флагами add и edit.
type recordFlags struct {
	title, username, password, category, note string
}

func (f *recordFlags) bind(fs *flag.FlagSet, withTitle bool) {
	if withTitle {
		fs.StringVar(&f.title, "title", "", "название")
	}
	fs.StringVar(&f.username, "username", "", "логин")
	fs.StringVar(&f.password, "password", "", "пароль")
	fs.StringVar(&f.category, "category", "", "категория (пусто - "+model.DefaultCategory+")")
	fs.StringVar(&f.note, "note", "", "заметка")
}

// readSecret читает первую строку из In без перевода строки.
func readSecret() (string, error) {
	line, err := bufio.NewReader(In).ReadString('\n')
	if err != nil && line == "" {
		return "", errors.New("no password on stdin")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

type addCmd struct{}

func (addCmd) Name() string        { return "add" }
func (addCmd) Description() string { return "Добавить запись" }
func (addCmd) Usage() string {
	return "add [--username u] [--password p | --password-stdin] [--category c] [--note n] <title>"
}

func (addCmd) flags() (*flag.FlagSet, *recordFlags, *bool) {
	fs := newFlagSet("add")
	var f recordFlags
	f.bind(fs, false)
	fromStdin := fs.Bool("password-stdin", false, "прочитать пароль из первой строки stdin")
	return fs, &f, fromStdin
}

func (c addCmd) Flags() *flag.FlagSet {
	fs, _, _ := c.flags()
	return fs
}

func (c addCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs, f, fromStdin := c.flags()
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	if fs.NArg() != 1 || strings.TrimSpace(fs.Arg(0)) == "" {
		return ErrUsage
	}
	if *fromStdin {
		if f.password != "" {
			return ErrUsage
		}
		p, err := readSecret()
		if err != nil {
			return err
		}
		f.password = p
	}

	rec := model.Record{
		Title:    fs.Arg(0),
		Username: f.username,
		Secret:   f.password,
		Category: f.category,
		Note:     f.note,
	}
	return withVault(ctx, cfg, func(v *bootstrap.Vault) error {
		id, err := v.Store.Create(ctx, rec)
		if err != nil {
			return err
		}
		fmt.Fprintln(Out, "Created:")
		fmt.Fprintf(Out, "  id:       %d\n", id)
		fmt.Fprintf(Out, "  title:    %s\n", rec.Title)
		fmt.Fprintf(Out, "  category: %s\n", model.NormalizeCategory(rec.Category))
		return nil
	})
}

type listCmd struct{}

func (listCmd) Name() string        { return "list" }
func (listCmd) Description() string { return "Показать записи (все или одной категории)" }
func (listCmd) Usage() string       { return "list [--category c]" }

func (listCmd) flags() (*flag.FlagSet, *string) {
	fs := newFlagSet("list")
	category := fs.String("category", "", "показать только эту категорию")
	return fs, category
}

func (c listCmd) Flags() *flag.FlagSet {
	fs, _ := c.flags()
	return fs
}

func (c listCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs, category := c.flags()
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}
	return withVault(ctx, cfg, func(v *bootstrap.Vault) error {
		var (
			list []model.Record
			err  error
		)
		if *category != "" {
			list, err = v.Store.GetByCategory(ctx, *category)
		} else {
			list, err = v.Store.GetAll(ctx)
		}
		if err != nil {
			return err
		}
		printRecords(list)
		return nil
	})
}

type getCmd struct{}

func (getCmd) Name() string        { return "get" }
func (getCmd) Description() string { return "Показать запись по id (пароль скрыт без --show)" }
func (getCmd) Usage() string       { return "get [--show] <id>" }

func (getCmd) flags() (*flag.FlagSet, *bool) {
	fs := newFlagSet("get")
	show := fs.Bool("show", false, "показать пароль")
	return fs, show
}

func (c getCmd) Flags() *flag.FlagSet {
	fs, _ := c.flags()
	return fs
}

func (c getCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs, show := c.flags()
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return ErrUsage
	}
	id, err := parseID(fs.Arg(0))
	if err != nil {
		return err
	}
	return withVault(ctx, cfg, func(v *bootstrap.Vault) error {
		r, err := v.Store.GetByID(ctx, id)
		if err != nil {
			return err
		}
		secret := "********"
		if *show {
			secret = r.Secret
		}
		fmt.Fprintf(Out, "id:        %d\n", r.ID)
		fmt.Fprintf(Out, "title:     %s\n", r.Title)
		fmt.Fprintf(Out, "username:  %s\n", r.Username)
		fmt.Fprintf(Out, "password:  %s\n", secret)
		fmt.Fprintf(Out, "category:  %s\n", r.Category)
		fmt.Fprintf(Out, "note:      %s\n", r.Note)
		return nil
	})
}

type editCmd struct{}

func (editCmd) Name() string        { return "edit" }
func (editCmd) Description() string { return "Изменить поля записи (только переданные флаги)" }
func (editCmd) Usage() string {
	return "edit [--title t] [--username u] [--password p] [--category c] [--note n] <id>"
}

func (editCmd) flags() (*flag.FlagSet, *recordFlags) {
	fs := newFlagSet("edit")
	var f recordFlags
	f.bind(fs, true)
	return fs, &f
}

func (c editCmd) Flags() *flag.FlagSet {
	fs, _ := c.flags()
	return fs
}

func (c editCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs, f := c.flags()
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return ErrUsage
	}
	id, err := parseID(fs.Arg(0))
	if err != nil {
		return err
	}
	set := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	if len(set) == 0 {
		return ErrUsage
	}
	if set["title"] && strings.TrimSpace(f.title) == "" {
		return ErrUsage
	}

	return withVault(ctx, cfg, func(v *bootstrap.Vault) error {
		r, err := v.Store.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if set["title"] {
			r.Title = f.title
		}
		if set["username"] {
			r.Username = f.username
		}
		if set["password"] {
			r.Secret = f.password
		}
		if set["category"] {
			r.Category = f.category
		}
		if set["note"] {
			r.Note = f.note
		}
		if err := v.Store.Update(ctx, r); err != nil {
			return err
		}
		fmt.Fprintf(Out, "Updated: #%d %s\n", r.ID, r.Title)
		return nil
	})
}

type deleteCmd struct{}

func (deleteCmd) Name() string        { return "delete" }
func (deleteCmd) Description() string { return "Удалить запись по id" }
func (deleteCmd) Usage() string       { return "delete <id>" }

func (deleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return withVault(ctx, cfg, func(v *bootstrap.Vault) error {
		if err := v.Store.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(Out, "Deleted: #%d\n", id)
		return nil
	})
}

type searchCmd struct{}

func (searchCmd) Name() string        { return "search" }
func (searchCmd) Description() string { return "Найти записи по части названия" }
func (searchCmd) Usage() string       { return "search <query>" }

func (searchCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	return withVault(ctx, cfg, func(v *bootstrap.Vault) error {
		list, err := v.Store.Search(ctx, args[0])
		if err != nil {
			return err
		}
		printRecords(list)
		return nil
	})
}

func init() {
	RegisterCmd(addCmd{})
	RegisterCmd(listCmd{})
	RegisterCmd(getCmd{})
	RegisterCmd(editCmd{})
	RegisterCmd(deleteCmd{})
	RegisterCmd(searchCmd{})
}
