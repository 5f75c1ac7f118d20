package csql

import (
	"database/sql"
	"embed"
	"errors"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/relabs-tech/jobly/core/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationsTable is the table golang-migrate keeps its version in
const MigrationsTable = "schema_migrations"

type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...interface{}) {
	logger.Default().Debugf("migrate: "+format, v...)
}

func (migrateLogger) Verbose() bool {
	return false
}

func (db *DB) newMigrate(migrations fs.FS, dir string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrations, dir)
	if err != nil {
		return nil, err
	}
	// migrate closes the database on Close, so it gets a connection of its own
	conn, err := sql.Open("postgres", db.dsn)
	if err != nil {
		return nil, err
	}
	driver, err := postgres.WithInstance(conn, &postgres.Config{
		SchemaName:      db.Schema,
		MigrationsTable: MigrationsTable,
	})
	if err != nil {
		conn.Close()
		return nil, err
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		conn.Close()
		return nil, err
	}
	m.Log = migrateLogger{}
	return m, nil
}

// Migrate brings the schema to the latest version of the embedded jobly migrations
func (db *DB) Migrate() error {
	return db.MigrateFS(migrationsFS, "migrations")
}

// MigrateFS applies all up migrations found in dir of migrations
func (db *DB) MigrateFS(migrations fs.FS, dir string) error {
	m, err := db.newMigrate(migrations, dir)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	logger.Default().Infof("database schema %s at version %d (dirty: %v)", db.Schema, version, dirty)
	return nil
}

// MigrateDown reverts the last steps embedded jobly migrations, or all of them if steps is
// not positive
func (db *DB) MigrateDown(steps int) error {
	m, err := db.newMigrate(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	defer m.Close()
	if steps > 0 {
		err = m.Steps(-steps)
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// MigrationVersion returns the current schema version. A schema without any applied
// migration is at version 0.
func (db *DB) MigrationVersion() (version uint, dirty bool, err error) {
	m, err := db.newMigrate(migrationsFS, "migrations")
	if err != nil {
		return 0, false, err
	}
	defer m.Close()
	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}
