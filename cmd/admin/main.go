package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"driverfinance/internal/domain/category"
	"driverfinance/internal/domain/user"
	"driverfinance/internal/infrastructure/postgres"
	"driverfinance/internal/shared/auth"
	"driverfinance/internal/shared/config"
)

const usage = `driverfinance admin CLI - maintenance commands for the driverfinance API

Usage:
  admin <command> [options]

Commands:
  migrate             Apply pending database migrations
  seed-categories     Insert any missing system categories
  deactivate-user     Disable an account (soft delete); its tokens stop working
  reactivate-user     Re-enable a deactivated account
  grant-superuser     Allow an account to read other users' profiles
  revoke-superuser    Remove superuser rights from an account

Examples:
  admin migrate
  admin seed-categories
  admin deactivate-user --email=driver@example.com
  admin reactivate-user --email=driver@example.com --timeout=10s
  admin grant-superuser --email=ops@example.com
`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	command := os.Args[1]

	var err error
	switch command {
	case "migrate":
		err = runMigrate(os.Args[2:])
	case "seed-categories":
		err = runSeedCategories(os.Args[2:])
	case "deactivate-user":
		err = runSetActive("deactivate-user", os.Args[2:], false)
	case "reactivate-user":
		err = runSetActive("reactivate-user", os.Args[2:], true)
	case "grant-superuser":
		err = runSetSuperuser("grant-superuser", os.Args[2:], true)
	case "revoke-superuser":
		err = runSetSuperuser("revoke-superuser", os.Args[2:], false)
	case "help", "-h", "--help":
		fmt.Println(usage)
		return
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Println(usage)
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("%s failed: %v", command, err)
	}
}

func runMigrate(args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := postgres.RunMigrations(cfg.Database.ConnectionString()); err != nil {
		return err
	}
	log.Println("Migrations applied")
	return nil
}

func runSeedCategories(args []string) error {
	fs := flag.NewFlagSet("seed-categories", flag.ExitOnError)
	timeout := fs.Duration("timeout", 30*time.Second, "Timeout for the operation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	_, db, err := connect()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	added, err := category.NewService(postgres.NewCategoryRepository(db)).EnsureSystem(ctx)
	if err != nil {
		return err
	}
	log.Printf("Seeded %d system categories (%d already present)", added, len(category.SystemCategories)-added)
	return nil
}

func runSetActive(name string, args []string, active bool) error {
	email, timeout := parseUserFlags(name, args)

	users, db, err := userService()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	profile, err := users.SetActiveByEmail(ctx, email, active)
	if err != nil {
		return err
	}
	log.Printf("User %d (%s) is_active=%t", profile.ID, profile.Email, profile.IsActive)
	return nil
}

func runSetSuperuser(name string, args []string, superuser bool) error {
	email, timeout := parseUserFlags(name, args)

	users, db, err := userService()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	u, err := users.SetSuperuserByEmail(ctx, email, superuser)
	if err != nil {
		return err
	}
	log.Printf("User %d (%s) is_superuser=%t", u.ID, u.Email, u.IsSuperuser)
	return nil
}

// parseUserFlags reads --email and --timeout, exiting with usage when the
// email is missing.
func parseUserFlags(name string, args []string) (string, time.Duration) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	email := fs.String("email", "", "Email of the account")
	timeout := fs.Duration("timeout", 30*time.Second, "Timeout for the operation")

	fs.Usage = func() {
		fmt.Printf("Usage: admin %s --email=<address> [options]\n\nOptions:\n", name)
		fs.PrintDefaults()
	}

	_ = fs.Parse(args)
	if *email == "" {
		fmt.Println("Error: --email is required")
		fs.Usage()
		os.Exit(1)
	}
	return *email, *timeout
}

func userService() (*user.Service, *postgres.DB, error) {
	cfg, db, err := connect()
	if err != nil {
		return nil, nil, err
	}

	tokens, err := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTTL)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return user.NewService(postgres.NewUserRepository(db), auth.BcryptHasher{}, tokens), db, nil
}

func connect() (*config.Config, *postgres.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.Open(cfg.Database.ConnectionString())
	if err != nil {
		return nil, nil, err
	}
	log.Println("Connected to database")
	return cfg, db, nil
}
