// Command carta-seed imports a menu.json document into the postgres backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/carta/core/bootstrap"
	corecmd "github.com/m3rciful/carta/core/cmd"
	"github.com/m3rciful/carta/core/logger"
	"github.com/m3rciful/carta/internal/app"
	"github.com/m3rciful/carta/internal/storage/postgres"
	"github.com/m3rciful/carta/migrations"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	file := flag.String("file", "data/menu.json", "menu document to import")
	replace := flag.Bool("replace", false, "wipe the products table before importing")
	infer := flag.Bool("infer-allergens", true, "derive allergens from names for products without a list")
	flag.Parse()

	cfg, err := app.LoadConfig(corecmd.ConfigPath("CONFIG_PATH", "config.yaml"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Database.Normalize(); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	defer func() { _ = logger.Shutdown() }()

	var result postgres.SeedResult
	seed := bootstrap.SeederFunc(func(ctx context.Context, db *sqlx.DB) error {
		data, err := os.ReadFile(*file)
		if err != nil {
			return fmt.Errorf("read %s: %w", *file, err)
		}
		result, err = postgres.NewSeeder(db).Seed(ctx, data, postgres.SeedOptions{
			Source:         *file,
			InferAllergens: *infer,
			Replace:        *replace,
		})
		return err
	})

	res, err := bootstrap.Run(ctx, bootstrap.Options{
		Config:     &cfg.Config,
		Database:   &cfg.Database,
		Migrations: migrations.FS,
		Modules:    bootstrap.Modules{Seeders: []bootstrap.Seeder{seed}},
	})
	if err != nil {
		return err
	}
	defer res.Close()

	if result.Skipped {
		fmt.Println("products table is not empty; rerun with -replace to overwrite")
		return nil
	}
	fmt.Printf("imported %d products (run %s)\n", result.Products, result.RunID)
	return nil
}
