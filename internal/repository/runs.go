package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/results-parser/internal/common"
)

// RunSummary is what a finished run records about itself.
type RunSummary struct {
	Schemes         int
	Students        int
	RepeatedSchemes int
	Stats           any // serialized as JSON
}

// Run is a stored run row. FinishedAt is empty while the run is in progress;
// Error is set when the run stopped on a failure.
type Run struct {
	ID         uuid.UUID
	Source     string
	StartedAt  string
	FinishedAt string
	Error      string
}

type RunRepository interface {
	Start(ctx context.Context, source string) (uuid.UUID, error)
	Finish(ctx context.Context, id uuid.UUID, summary RunSummary) error
	Fail(ctx context.Context, id uuid.UUID, cause error) error
	Get(ctx context.Context, id uuid.UUID) (Run, error)
}

type runRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewRunRepository(db *DB, logger *slog.Logger) RunRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &runRepository{db: db, logger: logger}
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

func (r *runRepository) Start(ctx context.Context, source string) (uuid.UUID, error) {
	id := uuid.New()
	q, args := entsql.Dialect(r.db.dialect).
		Insert("runs").
		Columns("id", "source", "started_at").
		Values(id.String(), source, now()).
		Query()
	if err := r.db.drv.Exec(ctx, q, args, nil); err != nil {
		r.logger.Error("failed to start run", "source", source, "error", err)
		return uuid.Nil, fmt.Errorf("%w: start run: %v", common.ErrDatabase, err)
	}
	return id, nil
}

func (r *runRepository) Finish(ctx context.Context, id uuid.UUID, summary RunSummary) error {
	stats, err := json.Marshal(summary.Stats)
	if err != nil {
		return fmt.Errorf("marshal run stats: %w", err)
	}
	q, args := entsql.Dialect(r.db.dialect).
		Update("runs").
		Set("finished_at", now()).
		Set("schemes", summary.Schemes).
		Set("students", summary.Students).
		Set("repeated_schemes", summary.RepeatedSchemes).
		Set("stats", string(stats)).
		Where(entsql.EQ("id", id.String())).
		Query()
	if err := r.db.drv.Exec(ctx, q, args, nil); err != nil {
		r.logger.Error("failed to finish run", "run_id", id, "error", err)
		return fmt.Errorf("%w: finish run: %v", common.ErrDatabase, err)
	}
	return nil
}

// Fail closes a run that stopped before Finish, recording cause.
func (r *runRepository) Fail(ctx context.Context, id uuid.UUID, cause error) error {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	q, args := entsql.Dialect(r.db.dialect).
		Update("runs").
		Set("finished_at", now()).
		Set("error", msg).
		Where(entsql.EQ("id", id.String())).
		Query()
	if err := r.db.drv.Exec(ctx, q, args, nil); err != nil {
		r.logger.Error("failed to record run failure", "run_id", id, "error", err)
		return fmt.Errorf("%w: fail run: %v", common.ErrDatabase, err)
	}
	return nil
}

func (r *runRepository) Get(ctx context.Context, id uuid.UUID) (Run, error) {
	q, args := entsql.Dialect(r.db.dialect).
		Select("source", "started_at", "finished_at", "error").
		From(entsql.Table("runs")).
		Where(entsql.EQ("id", id.String())).
		Query()
	rows := &entsql.Rows{}
	if err := r.db.drv.Query(ctx, q, args, rows); err != nil {
		return Run{}, fmt.Errorf("%w: get run: %v", common.ErrDatabase, err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Run{}, fmt.Errorf("%w: get run: %v", common.ErrDatabase, err)
		}
		return Run{}, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	run := Run{ID: id}
	var finished, msg sql.NullString
	if err := rows.Scan(&run.Source, &run.StartedAt, &finished, &msg); err != nil {
		return Run{}, fmt.Errorf("%w: scan run: %v", common.ErrDatabase, err)
	}
	run.FinishedAt = finished.String
	run.Error = msg.String
	return run, nil
}
