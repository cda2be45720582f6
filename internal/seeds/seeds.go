// Package seeds loads accounts from a YAML file into the user store.
package seeds

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/voyaglog/voyaglog-api/internal/auth"
)

type Account struct {
	FirstName string `yaml:"firstName"`
	LastName  string `yaml:"lastName"`
	Username  string `yaml:"username"`
	Email     string `yaml:"email"`
	Phone     string `yaml:"phone"`
	Password  string `yaml:"password"`
}

type File struct {
	Accounts []Account `yaml:"accounts"`
}

func LoadFile(path string) (File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("could not read %s: %w", path, err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (File, error) {
	var f File
	if err := yaml.UnmarshalWithOptions(raw, &f, yaml.Strict()); err != nil {
		return File{}, fmt.Errorf("failed to parse accounts: %w", err)
	}
	return f, nil
}

// SeedAll signs up every account. An account whose username or email already
// exists is updated in place instead, so re-running the seed is safe.
func SeedAll(ctx context.Context, svc *auth.Service, store auth.UserStore, f File, logger *slog.Logger) error {
	for _, a := range f.Accounts {
		created, err := seedAccount(ctx, svc, store, a)
		if err != nil {
			return fmt.Errorf("seed %s: %w", a.Username, err)
		}
		if created {
			logger.Info("account created", "username", a.Username)
		} else {
			logger.Info("account updated", "username", a.Username)
		}
	}
	return nil
}

func seedAccount(ctx context.Context, svc *auth.Service, store auth.UserStore, a Account) (bool, error) {
	_, _, err := svc.Signup(ctx, auth.SignupInput{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Username:  a.Username,
		Email:     a.Email,
		Phone:     a.Phone,
		Password:  a.Password,
	})
	if err == nil {
		return true, nil
	}
	if auth.ReasonOf(err) != auth.ReasonDuplicate {
		return false, err
	}

	existing, err := store.FindByUsername(ctx, a.Username)
	if errors.Is(err, auth.ErrUserNotFound) {
		existing, err = store.FindByEmail(ctx, a.Email)
	}
	if err != nil {
		return false, err
	}

	_, err = svc.Update(ctx, existing.ID, auth.UpdateInput{
		FirstName: &a.FirstName,
		LastName:  &a.LastName,
		Username:  &a.Username,
		Email:     &a.Email,
		Phone:     &a.Phone,
		Password:  &a.Password,
	})
	return false, err
}
