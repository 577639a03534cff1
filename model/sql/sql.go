package sql

import (
	"database/sql"
	"embed"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Brawl345/desklist/logger"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	migrate "github.com/rubenv/sql-migrate"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*
var embeddedMigrations embed.FS

var log = logger.New("sql")

const (
	DialectSQLite = "sqlite3"
	DialectMySQL  = "mysql"

	busyTimeoutMs = 2000
)

// DB is the shared store handle. It only reports ready once the schema
// is known to be in place.
type DB struct {
	*sqlx.DB
	dialect string
	ready   atomic.Bool
}

// Open connects to the database described by databaseURL, which is either
// "sqlite:<path>" or "mysql:<dsn>".
func Open(databaseURL string) (*DB, error) {
	scheme, rest, found := strings.Cut(databaseURL, ":")
	if !found || rest == "" {
		return nil, fmt.Errorf("invalid database url %q, expected sqlite:<path> or mysql:<dsn>", databaseURL)
	}

	var (
		driver  string
		dsn     string
		dialect string
	)
	switch scheme {
	case "sqlite":
		driver, dsn, dialect = "sqlite", sqliteConnectionString(rest), DialectSQLite
	case "mysql":
		driver, dsn, dialect = "mysql", rest, DialectMySQL
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", scheme)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if dialect == DialectSQLite {
		// SQLite serialises writers anyway; one connection avoids SQLITE_BUSY churn.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxIdleConns(10)
		db.SetMaxOpenConns(10)
	}
	db.SetConnMaxIdleTime(10 * time.Minute)

	return &DB{DB: db, dialect: dialect}, nil
}

func sqliteConnectionString(file string) string {
	qs := url.Values{
		"_txlock": []string{"immediate"},
		"_pragma": []string{
			"journal_mode(WAL)",
			fmt.Sprintf("busy_timeout(%d)", busyTimeoutMs),
			"foreign_keys(1)",
		},
	}

	return "file:" + file + "?" + qs.Encode()
}

func (db *DB) Dialect() string {
	return db.dialect
}

// Migrate applies all pending embedded migrations and marks the store ready.
func (db *DB) Migrate() (int, error) {
	migrations := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: embeddedMigrations,
		Root:       path.Join("migrations", db.migrationDir()),
	}
	n, err := migrate.Exec(db.DB.DB, db.dialect, migrations, migrate.Up)
	if err != nil {
		return n, fmt.Errorf("apply migrations: %w", err)
	}
	db.MarkReady()
	return n, nil
}

// MarkReady flags the store as usable without running migrations.
func (db *DB) MarkReady() {
	db.ready.Store(true)
	log.Debug().Str("dialect", db.dialect).Msg("Store ready")
}

// Ready reports whether the store can serve queries. A nil DB is never ready.
func (db *DB) Ready() bool {
	return db != nil && db.DB != nil && db.ready.Load()
}

func (db *DB) migrationDir() string {
	if db.dialect == DialectMySQL {
		return "mysql"
	}
	return "sqlite"
}

func NewNullString(s string) sql.NullString {
	if len(s) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{
		String: s,
		Valid:  true,
	}
}
