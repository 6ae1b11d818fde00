package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/randalmurphal/clientdir/pkg/clientdir"
)

// SQLite is a registration source backed by a SQLite table.
//
// Rows are returned in insertion order. Put on an existing alias updates the
// row in place and keeps its position.
type SQLite struct {
	db     *sql.DB
	path   string
	mu     sync.RWMutex
	closed bool
}

// Compile-time interface checks.
var (
	_ Source    = (*SQLite)(nil)
	_ Watchable = (*SQLite)(nil)
)

// NewSQLite opens (creating if needed) a SQLite registration store.
// The path should be a file path or ":memory:" for testing.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		// Each pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	// WAL lets readers load while an admin tool writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS client_registrations (
			position INTEGER PRIMARY KEY AUTOINCREMENT,
			alias TEXT NOT NULL UNIQUE,
			client_id TEXT NOT NULL,
			client_secret TEXT NOT NULL DEFAULT '',
			client_authentication_method TEXT NOT NULL DEFAULT '',
			authorization_grant_type TEXT NOT NULL DEFAULT '',
			redirect_uri TEXT NOT NULL DEFAULT '',
			scopes TEXT NOT NULL DEFAULT '',
			client_name TEXT NOT NULL DEFAULT '',
			authorization_uri TEXT NOT NULL DEFAULT '',
			token_uri TEXT NOT NULL DEFAULT '',
			user_info_uri TEXT NOT NULL DEFAULT '',
			jwk_set_uri TEXT NOT NULL DEFAULT '',
			issuer_uri TEXT NOT NULL DEFAULT '',
			metadata TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_client_registrations_client_id
		ON client_registrations(client_id)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLite{db: db, path: path}, nil
}

// Put inserts or updates the registration keyed by its alias.
func (s *SQLite) Put(ctx context.Context, reg clientdir.ClientRegistration) error {
	if err := reg.Validate(); err != nil {
		return err
	}
	metadata, err := encodeMetadata(reg.Provider.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata for %q: %w", reg.ClientAlias, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSourceClosed
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO client_registrations (
			alias, client_id, client_secret, client_authentication_method,
			authorization_grant_type, redirect_uri, scopes, client_name,
			authorization_uri, token_uri, user_info_uri, jwk_set_uri, issuer_uri,
			metadata, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(alias) DO UPDATE SET
			client_id = excluded.client_id,
			client_secret = excluded.client_secret,
			client_authentication_method = excluded.client_authentication_method,
			authorization_grant_type = excluded.authorization_grant_type,
			redirect_uri = excluded.redirect_uri,
			scopes = excluded.scopes,
			client_name = excluded.client_name,
			authorization_uri = excluded.authorization_uri,
			token_uri = excluded.token_uri,
			user_info_uri = excluded.user_info_uri,
			jwk_set_uri = excluded.jwk_set_uri,
			issuer_uri = excluded.issuer_uri,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at
	`,
		reg.ClientAlias, reg.ClientID, reg.ClientSecret, reg.ClientAuthenticationMethod,
		reg.AuthorizationGrantType, reg.RedirectURI, strings.Join(reg.Scopes, " "), reg.ClientName,
		reg.Provider.AuthorizationURI, reg.Provider.TokenURI, reg.Provider.UserInfoURI,
		reg.Provider.JWKSetURI, reg.Provider.IssuerURI,
		metadata, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("put registration %q: %w", reg.ClientAlias, err)
	}
	return nil
}

// Delete removes the registration with alias.
// Returns nil if it doesn't exist.
func (s *SQLite) Delete(ctx context.Context, alias string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSourceClosed
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM client_registrations WHERE alias = ?`, alias); err != nil {
		return fmt.Errorf("delete registration %q: %w", alias, err)
	}
	return nil
}

// Load implements Source.
func (s *SQLite) Load(ctx context.Context) ([]clientdir.ClientRegistration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrSourceClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT position, alias, client_id, client_secret, client_authentication_method,
			authorization_grant_type, redirect_uri, scopes, client_name,
			authorization_uri, token_uri, user_info_uri, jwk_set_uri, issuer_uri,
			metadata
		FROM client_registrations
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("query registrations: %w", err)
	}
	defer rows.Close()

	regs := []clientdir.ClientRegistration{}
	for rows.Next() {
		var (
			reg      clientdir.ClientRegistration
			position int64
			scopes   string
			metadata string
		)
		if err := rows.Scan(
			&position, &reg.ClientAlias, &reg.ClientID, &reg.ClientSecret, &reg.ClientAuthenticationMethod,
			&reg.AuthorizationGrantType, &reg.RedirectURI, &scopes, &reg.ClientName,
			&reg.Provider.AuthorizationURI, &reg.Provider.TokenURI, &reg.Provider.UserInfoURI,
			&reg.Provider.JWKSetURI, &reg.Provider.IssuerURI, &metadata,
		); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		if scopes != "" {
			reg.Scopes = strings.Fields(scopes)
		}
		if reg.Provider.Metadata, err = decodeMetadata(metadata); err != nil {
			return nil, fmt.Errorf("decode metadata for %q: %w", reg.ClientAlias, err)
		}
		// Rows written by other tools bypass Put.
		if err := reg.Validate(); err != nil {
			return nil, fmt.Errorf("registration at position %d: %w", position, err)
		}
		regs = append(regs, reg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registrations: %w", err)
	}
	return regs, nil
}

// WatchPaths implements Watchable. Writes land in the WAL file first.
func (s *SQLite) WatchPaths() []string {
	if s.path == ":memory:" {
		return nil
	}
	return []string{s.path, s.path + "-wal"}
}

// Close releases the database handle. It is safe to call more than once.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func encodeMetadata(m map[string]any) (string, error) {
	if len(m) == 0 {
		return "", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeMetadata(s string) (map[string]any, error) {
	if s == "" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	return m, nil
}
