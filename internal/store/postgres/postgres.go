package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mailmemories/mail-memories/internal/model"
	"github.com/mailmemories/mail-memories/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies
// connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a Postgres-backed store from an existing connection.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Credentials() store.Credentials { return &credentials{db: s.db} }

// HealthPing implements store.HealthPinger.
func (s *pgStore) HealthPing(ctx context.Context) error {
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
	out := *in
	out.ID = id
	row := c.db.QueryRowContext(ctx, `
        INSERT INTO account (id, user_id, provider_id, access_token, refresh_token, access_token_expires_at, scope)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING created_at, updated_at
    `, id, in.UserID, in.ProviderID, in.AccessToken, in.RefreshToken, in.AccessTokenExpiresAt, in.Scope)
	if err := row.Scan(&out.CreatedAt, &out.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, model.ErrConflict
		}
		return nil, err
	}
	return &out, nil
}

func (c *credentials) GetByUserAndProvider(ctx context.Context, userID, providerID string) (*model.Credential, error) {
	var out model.Credential
	row := c.db.QueryRowContext(ctx, `
        SELECT id, user_id, provider_id, access_token, refresh_token, access_token_expires_at, scope, created_at, updated_at
        FROM account WHERE user_id=$1 AND provider_id=$2
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
        SET access_token=$2, access_token_expires_at=$3, refresh_token=$4, scope=$5, updated_at=$6
        WHERE id=$1
    `, credentialID, upd.AccessToken, upd.AccessTokenExpiresAt, upd.RefreshToken, upd.Scope, upd.UpdatedAt)
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
	res, err := c.db.ExecContext(ctx, `DELETE FROM account WHERE id=$1`, credentialID)
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
