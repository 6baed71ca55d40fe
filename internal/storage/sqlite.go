package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "modernc.org/sqlite" // CGO-free SQLite driver

	"github.com/Farmer51Peace/sonarqube/internal/registry"
)

// DB is the concrete storage backed by SQLite.
type DB struct {
	conn *sql.DB
}

// OpenSQLite opens (and creates if missing) a SQLite DB at path.
func OpenSQLite(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)"
	c, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return &DB{conn: c}, nil
}

func (db *DB) Close() error { return db.conn.Close() }

// CreateSchema ensures tables exist.
func (db *DB) CreateSchema() error {
	_, err := db.conn.Exec(`
CREATE TABLE IF NOT EXISTS repositories (
  key         TEXT PRIMARY KEY,
  language    TEXT,
  compiled_at TEXT,          -- RFC3339
  def_json    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS rules (
  repo_key         TEXT NOT NULL,
  key              TEXT NOT NULL,
  name             TEXT,
  html_description TEXT,
  default_severity TEXT,
  template         INTEGER NOT NULL DEFAULT 0,
  status           TEXT NOT NULL,
  PRIMARY KEY (repo_key, key),
  FOREIGN KEY(repo_key) REFERENCES repositories(key) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS rule_params (
  repo_key      TEXT NOT NULL,
  rule_key      TEXT NOT NULL,
  key           TEXT NOT NULL,
  description   TEXT,
  default_value TEXT,
  type          TEXT NOT NULL,
  PRIMARY KEY (repo_key, rule_key, key),
  FOREIGN KEY(repo_key, rule_key) REFERENCES rules(repo_key, key) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_rules_repo ON rules(repo_key);
CREATE INDEX IF NOT EXISTS idx_rules_status ON rules(status);

CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT UNIQUE NOT NULL,
  pass_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'viewer',
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
  token TEXT PRIMARY KEY,
  user_id INTEGER NOT NULL,
  expires_at TEXT NOT NULL,
  created_at TEXT NOT NULL,
  FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS audit (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ts TEXT NOT NULL,
  username TEXT,
  action TEXT NOT NULL,
  resource TEXT,
  meta_json TEXT
);
`)
	return err
}

// SaveRepository upserts a repository definition and (re)writes its rule and
// parameter rows in one transaction.
func (db *DB) SaveRepository(def registry.RepositoryDefinition, compiledAt time.Time) error {
	b, err := json.Marshal(def)
	if err != nil {
		return err
	}
	ts := compiledAt.UTC().Format(time.RFC3339Nano)

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT INTO repositories (key, language, compiled_at, def_json)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(key) DO UPDATE SET language=excluded.language, compiled_at=excluded.compiled_at, def_json=excluded.def_json`,
		def.Key, def.Language, ts, string(b),
	); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM rule_params WHERE repo_key = ?`, def.Key); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM rules WHERE repo_key = ?`, def.Key); err != nil {
		return err
	}

	ruleStmt, err := tx.Prepare(`
		INSERT INTO rules (repo_key, key, name, html_description, default_severity, template, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer ruleStmt.Close()
	paramStmt, err := tx.Prepare(`
		INSERT INTO rule_params (repo_key, rule_key, key, description, default_value, type)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer paramStmt.Close()

	for _, r := range def.Rules {
		tpl := 0
		if r.Template {
			tpl = 1
		}
		if _, err := ruleStmt.Exec(def.Key, r.Key, r.Name, r.HTMLDescription, r.DefaultSeverity, tpl, string(r.Status)); err != nil {
			return err
		}
		for _, p := range r.Params {
			if _, err := paramStmt.Exec(def.Key, r.Key, p.Key, p.Description, p.DefaultValue, string(p.Type)); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// LoadRepository returns the full definition (from stored JSON).
func (db *DB) LoadRepository(key string) (registry.RepositoryDefinition, error) {
	var s string
	row := db.conn.QueryRow(`SELECT def_json FROM repositories WHERE key = ?`, key)
	if err := row.Scan(&s); err != nil {
		return registry.RepositoryDefinition{}, err
	}
	var def registry.RepositoryDefinition
	if err := json.Unmarshal([]byte(s), &def); err != nil {
		return registry.RepositoryDefinition{}, err
	}
	return def, nil
}

// HasRepository reports whether a repository with the given key is stored.
func (db *DB) HasRepository(key string) (bool, error) {
	const q = `SELECT 1 FROM repositories WHERE key = ? LIMIT 1`
	var one int
	err := db.conn.QueryRow(q, key).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}
