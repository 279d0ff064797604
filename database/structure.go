package database

import (
	"database/sql"

	"github.com/pkg/errors"
)

const errMigrateHdr = "[Migrate %s-%d] "

const (
	sqlMigrationsTable = `CREATE TABLE IF NOT EXISTS migrations (
		module  varchar(255) NOT NULL,
		version bigint       NOT NULL,

		PRIMARY KEY (module, version)
	)`

	// $1 = module $2 = version
	sqlMigrationExists = `SELECT 1 FROM migrations WHERE module = $1 AND version = $2`

	// $1 = module $2 = version
	sqlMigrationRecord = `INSERT INTO migrations (module, version) VALUES ($1, $2)`
)

func (c *Conn) setupMigrate() error {
	_, err := c.Exec(sqlMigrationsTable)
	if err != nil {
		return errors.Wrapf(err, errMigrateHdr+"create table", "__core", 0)
	}
	return nil
}

// MustMigrate panics if Migrate fails.
func (c *Conn) MustMigrate(moduleIdentifier string, version int64, query ...string) {
	err := c.Migrate(moduleIdentifier, version, query...)
	if err != nil {
		panic(err)
	}
}

// Migrate performs a SQL migration on the database.
// The migration is applied if the migration has not succeeded before.
// Migrations are wrapped in a transaction.
func (c *Conn) Migrate(moduleIdentifier string, version int64, query ...string) (err error) {
	if len(moduleIdentifier) > 255 {
		return errors.Errorf("module identifier %.20s... is too long", moduleIdentifier)
	}

	ok, err := c.migrationExists(moduleIdentifier, version)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	tx, err := c.Begin()
	if err != nil {
		return errors.Wrapf(err, errMigrateHdr+"start transaction", moduleIdentifier, version)
	}
	defer func(tx *sql.Tx) {
		if err != nil {
			tx.Rollback()
		}
	}(tx)

	for i := range query {
		_, err = tx.Exec(query[i])
		if err != nil {
			return errors.Wrapf(err, errMigrateHdr+"execute %d", moduleIdentifier, version, i)
		}
	}

	_, err = tx.Exec(sqlMigrationRecord, moduleIdentifier, version)
	if err != nil {
		return errors.Wrapf(err, errMigrateHdr+"insert record", moduleIdentifier, version)
	}
	err = tx.Commit()
	if err != nil {
		return errors.Wrapf(err, errMigrateHdr+"commit", moduleIdentifier, version)
	}
	return nil
}

func (c *Conn) migrationExists(moduleIdentifier string, version int64) (bool, error) {
	stmt, err := c.Prepare(sqlMigrationExists)
	if err != nil {
		return false, errors.Wrapf(err, errMigrateHdr+"prepare check", moduleIdentifier, version)
	}
	defer stmt.Close()

	var found sql.NullInt64
	err = stmt.QueryRow(moduleIdentifier, version).Scan(&found)
	if err == nil && found.Valid {
		return true, nil
	}
	if err != sql.ErrNoRows {
		return false, errors.Wrapf(err, errMigrateHdr+"exec check", moduleIdentifier, version)
	}
	return false, nil
}
