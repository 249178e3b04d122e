package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
)

// Tx is the subset of [*sql.DB] and [*sql.Tx] used by repositories, allowing
// them to run both inside and outside of transactions.
type Tx interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

type DB struct {
	Conn *sql.DB
}

// NewDB opens the sqlite database at the given path and bootstraps all tables.
func NewDB(fname string) (*DB, error) {
	conn, err := sql.Open("sqlite3", fname)
	if err != nil {
		return nil, fmt.Errorf("open failed: %w", err)
	}

	// In-memory databases exist per connection.
	conn.SetMaxOpenConns(1)

	db := &DB{conn}
	if err := db.Init(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initialization failed: %w", err)
	}

	return db, nil
}

// Closes the underlying database handle used for all connections.
func (db *DB) Close() {
	db.Conn.Close()
}

func (db *DB) Init() error {
	log.Info("Configuring database")

	stmts := []string{
		// Recorded slash-command invocations
		`
	create table
		if not exists
		invocations (
			id         text not null primary key,
			path       text not null,
			user_id    text not null,
			channel_id text,
			guild_id   text,
			options    text,
			created_at int not null
		);
	`,
		`
	create index
		if not exists
		invocations_created_at on invocations (created_at);
	`,
		// Roles whose members are excluded from recording
		`
	create table
		if not exists
		muted_roles (
			id       text not null primary key,
			name     text,
			muted_at int not null
		);
	`,
	}

	for _, stmt := range stmts {
		if _, err := db.Conn.Exec(stmt); err != nil {
			log.Error("Failed to execute statement", "stmt", strings.ReplaceAll(stmt, "\t", "  "), "err", err)
			return err
		}
	}

	return nil
}

func (db *DB) Transaction(fn func(tx Tx) error) error {
	log.Debug("Transaction start")

	tx, err := db.Conn.Begin()
	if err != nil {
		log.Debug("Transaction start failure", "err", err)
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		log.Debug("Transaction internal failure", "err", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Debug("Transaction commit failure", "err", err)
		return err
	}

	log.Debug("Transaction complete")
	return nil
}
