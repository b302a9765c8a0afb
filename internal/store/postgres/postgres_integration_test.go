package postgres

import (
	"os"
	"testing"

	"github.com/mailmemories/mail-memories/internal/store"
	"github.com/mailmemories/mail-memories/internal/store/storetest"
)

const testDDL = `
CREATE TABLE IF NOT EXISTS account (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    provider_id TEXT NOT NULL,
    access_token TEXT,
    refresh_token TEXT,
    access_token_expires_at TIMESTAMPTZ,
    scope TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (user_id, provider_id)
)`

func makePGStore(t *testing.T) store.Store {
	t.Helper()
	dsn := os.Getenv("MAIL_MEMORIES_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("MAIL_MEMORIES_POSTGRES_DSN not set; skipping postgres store integration test")
	}
	db, err := Open(dsn)
	if err != nil {
		t.Fatalf("postgres open: %v", err)
	}
	if _, err := db.Exec(testDDL); err != nil {
		t.Fatalf("apply test schema: %v", err)
	}
	return NewWithDB(db)
}

func TestPostgresStore_Compliance(t *testing.T) {
	storetest.Run(t, makePGStore)
}
