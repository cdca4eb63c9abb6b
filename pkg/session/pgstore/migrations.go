package pgstore

import "embed"

// Migrations holds the goose migrations creating the sessions table.
// Apply them with pg.Migrate(ctx, pool, pgstore.Migrations, pgstore.MigrationsDir, log).
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations.
const MigrationsDir = "migrations"
