package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mailmemories/mail-memories/internal/model"
	"github.com/mailmemories/mail-memories/internal/store"
)

//go:embed schema.sql
var schemaDDL string

// Open opens (or creates) a SQLite database at the given path and enables WAL
// journal mode. The URI parameters give better concurrency for the read-heavy
// credential lookups this service does.
func Open(path string) (*sql.DB, error) {
	// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// New opens a SQLite database file and ensures the credential schema exists.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewWithDB(db)
}

// NewWithDB wires a store over an existing connection (used by the factory
// and by tests with in-memory databases).
func NewWithDB(db *sql.DB) (store.Store, error) {
	for _, stmt := range strings.Split(schemaDDL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return &sqliteStore{db: db}, nil
}

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Credentials() store.Credentials { return &credentials{db: s.db} }

// HealthPing implements store.HealthPinger.
func (s *sqliteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type credentials struct{ db *sql.DB }

func (c *credentials) Create(ctx context.Context, in *model.Credential) (*model.Credential, error) {
	if in.UserID == "" || in.ProviderID == "" {
		return nil, fmt.Errorf("%w: user id and provider id are required", model.ErrValidation)
	}
	id := in.ID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()
	_, err := c.db.ExecContext(ctx, `
        INSERT INTO account (id, user_id, provider_id, access_token, refresh_token, access_token_expires_at, scope, created_at, updated_at)
        VALUES (?,?,?,?,?,?,?,?,?)
    `, id, in.UserID, in.ProviderID, in.AccessToken, in.RefreshToken, in.AccessTokenExpiresAt, in.Scope, now, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, model.ErrConflict
		}
		return nil, err
	}
	out := *in
	out.ID = id
	out.CreatedAt = now
	out.UpdatedAt = now
	return &out, nil
}

func (c *credentials) GetByUserAndProvider(ctx context.Context, userID, providerID string) (*model.Credential, error) {
	var out model.Credential
	row := c.db.QueryRowContext(ctx, `
        SELECT id, user_id, provider_id, access_token, refresh_token, access_token_expires_at, scope, created_at, updated_at
        FROM account WHERE user_id=? AND provider_id=?
        LIMIT 1
    `, userID, providerID)
	err := row.Scan(&out.ID, &out.UserID, &out.ProviderID, &out.AccessToken, &out.RefreshToken,
		&out.AccessTokenExpiresAt, &out.Scope, &out.CreatedAt, &out.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *credentials) UpdateTokens(ctx context.Context, credentialID string, upd model.TokenUpdate) error {
	res, err := c.db.ExecContext(ctx, `
        UPDATE account
        SET access_token=?, access_token_expires_at=?, refresh_token=?, scope=?, updated_at=?
        WHERE id=?
    `, upd.AccessToken, upd.AccessTokenExpiresAt, upd.RefreshToken, upd.Scope, upd.UpdatedAt, credentialID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (c *credentials) Delete(ctx context.Context, credentialID string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM account WHERE id=?`, credentialID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}
