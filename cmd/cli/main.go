// Command cli runs one-off maintenance tasks against the directory database.
//
//	cli add-admin -email ops@example.com -password secret [-name "Ops"]
//	cli migrate
//	cli seed
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/diewo77/go-directory/internal/config"
	"github.com/diewo77/go-directory/internal/db"
	"github.com/diewo77/go-directory/internal/services"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	_ = godotenv.Load()
	cfg := config.Load()

	var err error
	switch os.Args[1] {
	case "add-admin":
		err = addAdmin(cfg, os.Args[2:])
	case "migrate":
		err = withDB(cfg, db.Migrate)
	case "seed":
		err = withDB(cfg, db.Seed)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		slog.Error(os.Args[1]+" failed", "err", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: cli <add-admin|migrate|seed> [flags]")
}

func withDB(cfg *config.Config, fn func(*gorm.DB) error) error {
	conn, err := db.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if sqlDB, err := conn.DB(); err == nil {
		defer sqlDB.Close()
	}
	return fn(conn)
}

func addAdmin(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("add-admin", flag.ExitOnError)
	email := fs.String("email", "", "admin email (required)")
	password := fs.String("password", "", "admin password (required)")
	name := fs.String("name", "", "display name")
	_ = fs.Parse(args)
	if *email == "" || *password == "" {
		fs.Usage()
		return fmt.Errorf("email and password are required")
	}

	return withDB(cfg, func(conn *gorm.DB) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		var n *string
		if *name != "" {
			n = name
		}
		u, created, err := services.NewUserService(conn).EnsureAdmin(ctx, *email, *password, n)
		if err != nil {
			return err
		}
		if created {
			slog.Info("admin created", "id", u.ID, "email", u.Email)
		} else {
			slog.Info("admin updated", "id", u.ID, "email", u.Email)
		}
		return nil
	})
}
