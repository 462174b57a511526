package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/diegesis/engine/internal/config"
	"github.com/diegesis/engine/internal/persist"
)

// backend is the opened storage: save slots plus the action journal when
// storage.journal is on.
type backend struct {
	slots   persist.SlotStore
	journal persist.Journal
}

func (b *backend) Close() error { return b.slots.Close() }

// openStore connects the configured save backend. The caller closes it.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
		be := &backend{slots: persist.NewPostgresStore(db, log.Named("store"))}
		if cfg.Storage.Journal {
			be.journal = persist.NewPostgresJournal(db)
		}
		return be, nil
	default:
		store, err := persist.NewFileStore(cfg.Storage.Dir, log.Named("store"))
		if err != nil {
			return nil, err
		}
		be := &backend{slots: store}
		if cfg.Storage.Journal {
			if be.journal, err = persist.NewFileJournal(cfg.Storage.Dir); err != nil {
				return nil, err
			}
		}
		return be, nil
	}
}
