package commands

import (
	"PassVault/internal/config"
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type hashPasswordCmd struct{}

func (hashPasswordCmd) Name() string { return "hash-password" }
func (hashPasswordCmd) Description() string {
	return "Получить bcrypt-хеш пароля для API_PASSWORD_HASH (\"-\" - читать из stdin)"
}
func (hashPasswordCmd) Usage() string { return "hash-password <password|->" }

func (hashPasswordCmd) Run(_ context.Context, _ *config.Config, args []string) error {
	if len(args) != 1 || args[0] == "" {
		return ErrUsage
	}
	password := args[0]
	if password == "-" {
		p, err := readSecret()
		if err != nil {
			return err
		}
		password = p
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, string(hash))
	return nil
}

func init() { RegisterCmd(hashPasswordCmd{}) }
