package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"

	"gradeassist/internal/config"
	"gradeassist/internal/store"
)

var errNoDatabase = errors.New("database_url is not configured (set DATABASE_URL)")

func withMigrator(ctx context.Context, cfg config.Config, fn func(store.Migrator) error) error {
	if cfg.DatabaseURL == "" {
		return errNoDatabase
	}
	conn, err := pgx.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)
	m, err := store.NewMigrator(ctx, conn, cfg.Backends.RetrievalEmbedder.Dims)
	if err != nil {
		return err
	}
	return fn(m)
}

// runMigrate applies every pending migration, or moves to version to when to >= 0.
func runMigrate(ctx context.Context, cfg config.Config, to int, w io.Writer) error {
	return withMigrator(ctx, cfg, func(m store.Migrator) error {
		if to >= 0 {
			if err := m.MigrateTo(ctx, int32(to)); err != nil {
				return fmt.Errorf("migrate to %d: %w", to, err)
			}
		} else if err := m.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		cur, _, _, err := m.Info(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "schema at version %d\n", cur)
		return nil
	})
}

func runMigrateInfo(ctx context.Context, cfg config.Config, w io.Writer) error {
	return withMigrator(ctx, cfg, func(m store.Migrator) error {
		cur, last, listing, err := m.Info(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "version %d of %d\n%s", cur, last, listing)
		return nil
	})
}
