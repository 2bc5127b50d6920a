package store

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/tern/v2/migrate"
)

const versionTable = "db_version"

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrator applies the embedded schema migrations.
type Migrator struct {
	migrator *migrate.Migrator
}

// NewMigrator loads the embedded migrations. dims sizes the passage embedding column.
func NewMigrator(ctx context.Context, conn *pgx.Conn, dims int) (Migrator, error) {
	if dims <= 0 {
		return Migrator{}, fmt.Errorf("embedding dims must be positive, got %d", dims)
	}
	m, err := migrate.NewMigratorEx(ctx, conn, versionTable, &migrate.MigratorOptions{DisableTx: false})
	if err != nil {
		return Migrator{}, err
	}
	m.Data["embedding_dims"] = dims

	root, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return Migrator{}, err
	}
	if err := m.LoadMigrations(root); err != nil {
		return Migrator{}, err
	}
	return Migrator{migrator: m}, nil
}

// Info returns the current version, the newest embedded version and a listing
// of the migrations with the current one marked.
func (m Migrator) Info(ctx context.Context) (int32, int32, string, error) {
	version, err := m.migrator.GetCurrentVersion(ctx)
	if err != nil {
		return 0, 0, "", err
	}
	var b strings.Builder
	var last int32
	for _, mig := range m.migrator.Migrations {
		last = mig.Sequence
		indicator := "  "
		if version == mig.Sequence {
			indicator = "->"
		}
		fmt.Fprintf(&b, "%2s %3d %s\n", indicator, mig.Sequence, mig.Name)
	}
	return version, last, b.String(), nil
}

// Migrate migrates the DB to the most recent version of the schema.
func (m Migrator) Migrate(ctx context.Context) error {
	return m.migrator.Migrate(ctx)
}

// MigrateTo migrates to a specific version of the schema. Use 0 to undo all migrations.
func (m Migrator) MigrateTo(ctx context.Context, ver int32) error {
	return m.migrator.MigrateTo(ctx, ver)
}

// MigrateURL connects to databaseURL and applies every pending migration.
func MigrateURL(ctx context.Context, databaseURL string, dims int) error {
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)
	m, err := NewMigrator(ctx, conn, dims)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	if err := m.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
