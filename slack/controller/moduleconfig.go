package controller

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/pitchside/pitchbot"
	"github.com/pitchside/pitchbot/database"
)

// ErrConfNoDefault is returned by GetIsDefault for keys that were never
// given a default with Add.
type ErrConfNoDefault struct {
	Key string
}

func (e ErrConfNoDefault) Error() string {
	return fmt.Sprintf("configuration key %s has no default", e.Key)
}

type DBModuleConfig struct {
	db               *database.Conn
	ModuleIdentifier pitchbot.ModuleID

	// All writes to defaults must happen during the Load() phase.
	// DefaultsLocked is set afterwards.
	lock           sync.Mutex
	DefaultsLocked bool
	defaults       map[string]string
}

var _ pitchbot.ModuleConfig = &DBModuleConfig{}

func newModuleConfig(db *database.Conn, modID pitchbot.ModuleID) *DBModuleConfig {
	return &DBModuleConfig{
		db:               db,
		ModuleIdentifier: modID,
		defaults:         make(map[string]string),
	}
}

func MigrateModuleConfig(c *database.Conn) error {
	err := c.Migrate("main", 1478022704,
		`CREATE TABLE config (
			module varchar(255) NOT NULL,
			key    varchar(255) NOT NULL,
			value  text,

			PRIMARY KEY (module, key)
		)`,
	)
	if err != nil {
		return err
	}
	c.SyntaxCheck(
		sqlConfigGet,
		sqlConfigSet,
		sqlConfigReset,
	)
	return nil
}

const (
	// $1 = module $2 = key
	sqlConfigGet = `SELECT value FROM config WHERE module = $1 AND key = $2`

	// $1 = module $2 = key $3 = value
	sqlConfigSet = `
		INSERT INTO config (module, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (module, key)
		DO UPDATE SET value = excluded.value`

	// $1 = module $2 = key
	sqlConfigReset = `
		DELETE FROM config
		WHERE module = $1 AND key = $2`
)

func (c *DBModuleConfig) Add(key string, defaultValue string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.DefaultsLocked {
		panic("Module configuration must be set up during Load()")
	}
	c.defaults[key] = defaultValue
}

func (c *DBModuleConfig) LockDefaults() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.DefaultsLocked = true
}

func (c *DBModuleConfig) getDefault(key string) (string, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	def, ok := c.defaults[key]
	return def, ok
}

// lookup returns the stored override for key, if there is one.
func (c *DBModuleConfig) lookup(key string) (sql.NullString, error) {
	var result sql.NullString
	err := c.db.QueryRow(sqlConfigGet, string(c.ModuleIdentifier), key).Scan(&result)
	if err == sql.ErrNoRows {
		return result, nil
	} else if err != nil {
		return result, errors.Wrapf(err, "config.get(%s, %s)", c.ModuleIdentifier, key)
	}
	return result, nil
}

func (c *DBModuleConfig) Get(key string) (string, error) {
	def, haveDefault := c.getDefault(key)
	if !haveDefault {
		panic("Get() must have a default set")
	}

	result, err := c.lookup(key)
	if err != nil {
		return def, err
	}
	if !result.Valid {
		return def, nil
	}
	return result.String, nil
}

// GetIsDefault gets a module configuration value, but does not require the key have been initialized.
//
// 1) If the key was not initialized with Add(), value is the empty string, isDefault is true, and err is ErrConfNoDefault.
// 2) If the key was initialized, but has no override, value is the default value, isDefault is true, and err is nil.
// 3) If the key has an override, value is the override, isDefault is false, and err is nil.
func (c *DBModuleConfig) GetIsDefault(key string) (string, bool, error) {
	def, haveDefault := c.getDefault(key)

	result, err := c.lookup(key)
	if err != nil {
		return def, true, err
	}
	if !result.Valid {
		if haveDefault {
			return def, true, nil
		}
		return "", true, ErrConfNoDefault{Key: fmt.Sprintf("%s.%s", c.ModuleIdentifier, key)}
	}
	return result.String, false, nil
}

func (c *DBModuleConfig) Set(key, value string) error {
	_, err := c.db.Exec(sqlConfigSet, string(c.ModuleIdentifier), key, value)
	if err != nil {
		return errors.Wrapf(err, "moduleconfig.set(%s, %s)", c.ModuleIdentifier, key)
	}
	return nil
}

func (c *DBModuleConfig) SetDefault(key string) error {
	_, err := c.db.Exec(sqlConfigReset, string(c.ModuleIdentifier), key)
	if err != nil {
		return errors.Wrapf(err, "moduleconfig.reset(%s, %s)", c.ModuleIdentifier, key)
	}
	return nil
}
