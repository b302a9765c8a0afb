package factory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mailmemories/mail-memories/internal/config"
	storepkg "github.com/mailmemories/mail-memories/internal/store"
	storepg "github.com/mailmemories/mail-memories/internal/store/postgres"
	storesqlite "github.com/mailmemories/mail-memories/internal/store/sqlite"
)

// NewStore returns the credential store selected by cfg.DBDriver: a Postgres
// store for cloud targets, a local SQLite file otherwise.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	switch cfg.DBDriver {
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("MAIL_MEMORIES_POSTGRES_DSN is required when DB_DRIVER=postgres")
		}
		db, err := storepg.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("driver", cfg.DBDriver).Msg("credential store connected")
		return storepg.NewWithDB(db), nil
	case "sqlite":
		st, err := storesqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("driver", cfg.DBDriver).Str("path", cfg.SQLitePath).Msg("credential store opened")
		return st, nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}
