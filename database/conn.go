package database

import (
	"database/sql"
	"strings"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Conn struct {
	*sql.DB
	Driver string
}

// Dial opens the database named by connect.
//
//   postgres://user@host/db   Postgres, through lib/pq
//   sqlite:///var/lib/x.db    SQLite file
//   file:x.db?mode=rwc        SQLite DSN, passed through unchanged
//   (empty)                   SQLite in memory; nothing survives a restart
func Dial(connect string) (*Conn, error) {
	driver, dsn := splitConnect(connect)
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect")
	}
	if driver == DriverSQLite {
		// One writer at a time, and an in-memory database only lives as
		// long as its connection.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}
	c := &Conn{
		DB:     db,
		Driver: driver,
	}
	err = c.setupMigrate()
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to setup database")
	}
	return c, nil
}

func splitConnect(connect string) (driver, dsn string) {
	switch {
	case connect == "":
		return DriverSQLite, ":memory:"
	case strings.HasPrefix(connect, "sqlite://"):
		return DriverSQLite, strings.TrimPrefix(connect, "sqlite://")
	case strings.HasPrefix(connect, "file:"):
		return DriverSQLite, connect
	}
	return DriverPostgres, connect
}

// SyntaxCheck prepares each query and panics if any of them is rejected.
// Modules call it from Load so that typos surface at startup.
func (c *Conn) SyntaxCheck(query ...string) {
	for _, v := range query {
		stmt, err := c.DB.Prepare(v)
		if err != nil {
			panic(errors.Wrap(err, "SQL syntax check failed"))
		}
		stmt.Close()
	}
}
