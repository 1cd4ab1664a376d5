// createuser provisions a user account from the command line, prompting
// for the password without echoing it. Useful for seeding environments
// where the registration endpoint is not exposed yet.
package main

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/fintrack/fintrack-be/internal/config"
	"github.com/fintrack/fintrack-be/internal/models"
	"github.com/fintrack/fintrack-be/internal/models/dto"
	"github.com/fintrack/fintrack-be/internal/storage/postgres"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "usage: %s <name> <email>\n", os.Args[0])
		os.Exit(2)
	}
	name, email := os.Args[1], dto.NormalizeEmail(os.Args[2])
	if !dto.ValidEmail(email) {
		fmt.Fprintln(os.Stderr, "invalid email address")
		os.Exit(2)
	}

	godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "read password: %v\n", err)
		os.Exit(1)
	}
	if len(password) < 8 {
		fmt.Fprintln(os.Stderr, "password must be at least 8 characters")
		os.Exit(2)
	}

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash password: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, err := postgres.NewStore(ctx, cfg.DatabaseURL, zap.NewNop())
	if err != nil {
		fmt.Fprintf(os.Stderr, "init database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	created, err := store.CreateUser(ctx, models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "create user: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("created user %s (%s)\n", created.Name, created.ID)
}
