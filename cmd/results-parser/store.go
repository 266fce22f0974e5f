package main

import (
	"context"

	"github.com/joseph-ayodele/results-parser/internal/common"
	"github.com/joseph-ayodele/results-parser/internal/pipeline"
	"github.com/joseph-ayodele/results-parser/internal/repository"
)

// openStore opens and migrates the configured database. Without a DSN it
// returns a nil store and a no-op close.
func openStore(ctx context.Context, c common.DatabaseConfig) (*pipeline.Store, func(), error) {
	if c.DSN == "" {
		return nil, func() {}, nil
	}
	db, err := repository.Open(ctx, repository.Config{
		DSN:             c.DSN,
		MaxConns:        c.MaxConns,
		MinConns:        c.MinConns,
		MaxConnLifetime: c.MaxConnLifetime,
		MaxConnIdleTime: c.MaxConnIdleTime,
		DialTimeout:     c.DialTimeout,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := db.HealthCheck(ctx, c.DialTimeout, 3); err != nil {
		db.Close()
		return nil, nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return &pipeline.Store{
		Runs:    repository.NewRunRepository(db, logger),
		Schemes: repository.NewSchemeRepository(db, logger),
		Results: repository.NewResultRepository(db, logger),
	}, db.Close, nil
}
