package game

import (
	"database/sql"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/pitchside/pitchbot/database"
)

// Store persists the state of one bot's game. Save must be durable by the
// time it returns.
type Store interface {
	Load() (*State, error)
	Save(s *State) error
}

// MemoryStore keeps the game in memory. Nothing survives a restart.
type MemoryStore struct {
	lock  sync.Mutex
	state *State
}

var _ Store = &MemoryStore{}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: &State{}}
}

func (m *MemoryStore) Load() (*State, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.state.clone(), nil
}

func (m *MemoryStore) Save(s *State) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.state = s.clone()
	return nil
}

// ---

const (
	slotDate    = "date"
	slotLimit   = "limit"
	slotPlayers = "players"
	slotTeams   = "teams"
)

const (
	sqlMigrate1 = `CREATE TABLE game_slots (
		bot   varchar(255) NOT NULL,
		slot  varchar(32)  NOT NULL,
		value text         NOT NULL,

		PRIMARY KEY (bot, slot)
	)`

	// $1 = bot
	sqlLoadSlots = `SELECT slot, value FROM game_slots WHERE bot = $1`

	// $1 = bot $2 = slot $3 = value
	sqlSaveSlot = `
		INSERT INTO game_slots (bot, slot, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (bot, slot)
		DO UPDATE SET value = excluded.value`
)

// MigrateSQLStore creates the game_slots table.
func MigrateSQLStore(db *database.Conn) error {
	err := db.Migrate(Identifier, 1729330467, sqlMigrate1)
	if err != nil {
		return err
	}
	db.SyntaxCheck(sqlLoadSlots, sqlSaveSlot)
	return nil
}

// SQLStore keeps each slot of a bot's game in its own game_slots row.
type SQLStore struct {
	db  *database.Conn
	bot string
}

var _ Store = &SQLStore{}

func NewSQLStore(db *database.Conn, bot string) *SQLStore {
	return &SQLStore{db: db, bot: bot}
}

func (s *SQLStore) Load() (*State, error) {
	rows, err := s.db.Query(sqlLoadSlots, s.bot)
	if err != nil {
		return nil, errors.Wrapf(err, "load game %s", s.bot)
	}
	defer rows.Close()

	st := &State{}
	for rows.Next() {
		var slot, value string
		err = rows.Scan(&slot, &value)
		if err != nil {
			return nil, errors.Wrapf(err, "load game %s", s.bot)
		}
		var target interface{}
		switch slot {
		case slotDate:
			target = &st.Date
		case slotLimit:
			target = &st.Limit
		case slotPlayers:
			target = &st.Players
		case slotTeams:
			target = &st.Teams
		default:
			continue
		}
		err = json.Unmarshal([]byte(value), target)
		if err != nil {
			return nil, errors.Wrapf(err, "load game %s: decode %s", s.bot, slot)
		}
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "load game %s", s.bot)
	}
	return st, nil
}

// Save writes all four slots in one transaction.
func (s *SQLStore) Save(st *State) (err error) {
	slots := []struct {
		slot  string
		value interface{}
	}{
		{slotDate, st.Date},
		{slotLimit, st.Limit},
		{slotPlayers, st.Players},
		{slotTeams, st.Teams},
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrapf(err, "save game %s: begin", s.bot)
	}
	defer func(tx *sql.Tx) {
		if err != nil {
			tx.Rollback()
		}
	}(tx)

	for _, v := range slots {
		var b []byte
		b, err = json.Marshal(v.value)
		if err != nil {
			return errors.Wrapf(err, "save game %s: encode %s", s.bot, v.slot)
		}
		_, err = tx.Exec(sqlSaveSlot, s.bot, v.slot, string(b))
		if err != nil {
			return errors.Wrapf(err, "save game %s: %s", s.bot, v.slot)
		}
	}
	err = tx.Commit()
	if err != nil {
		return errors.Wrapf(err, "save game %s: commit", s.bot)
	}
	return nil
}
