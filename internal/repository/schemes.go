package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/results-parser/internal/common"
	"github.com/joseph-ayodele/results-parser/internal/entity"
	"github.com/joseph-ayodele/results-parser/internal/scheme"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("not found")

type SchemeRepository interface {
	// Upsert merges each record into the stored scheme of the same ID.
	Upsert(ctx context.Context, runID uuid.UUID, recs []*entity.SchemeRecord) error
	Get(ctx context.Context, schemeID string) (*entity.SchemeRecord, error)
	List(ctx context.Context) ([]*entity.SchemeRecord, error)
}

type schemeRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewSchemeRepository(db *DB, logger *slog.Logger) SchemeRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &schemeRepository{db: db, logger: logger}
}

var schemeColumns = []string{"scheme_id", "prg_code", "programme", "semester", "institutes", "subjects"}

func scanScheme(rows *entsql.Rows) (*entity.SchemeRecord, error) {
	var (
		rec             entity.SchemeRecord
		insts, subjects string
	)
	if err := rows.Scan(&rec.SchemeID, &rec.ProgrammeCode, &rec.Programme, &rec.Semester, &insts, &subjects); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(insts), &rec.Institutes); err != nil {
		return nil, fmt.Errorf("decode institutes of %s: %w", rec.SchemeID, err)
	}
	if err := json.Unmarshal([]byte(subjects), &rec.Subjects); err != nil {
		return nil, fmt.Errorf("decode subjects of %s: %w", rec.SchemeID, err)
	}
	return &rec, nil
}

func querySchemes(ctx context.Context, q dialect.ExecQuerier, d string, where *entsql.Predicate) ([]*entity.SchemeRecord, error) {
	sel := entsql.Dialect(d).Select(schemeColumns...).From(entsql.Table("schemes"))
	if where != nil {
		sel = sel.Where(where)
	}
	query, args := sel.OrderBy("scheme_id").Query()

	rows := &entsql.Rows{}
	if err := q.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.SchemeRecord
	for rows.Next() {
		rec, err := scanScheme(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *schemeRepository) Upsert(ctx context.Context, runID uuid.UUID, recs []*entity.SchemeRecord) error {
	return r.db.withTx(ctx, func(tx dialect.Tx) error {
		for _, rec := range recs {
			existing, err := querySchemes(ctx, tx, r.db.dialect, entsql.EQ("scheme_id", rec.SchemeID))
			if err != nil {
				return fmt.Errorf("%w: load scheme %s: %v", common.ErrDatabase, rec.SchemeID, err)
			}
			merged := rec
			if len(existing) == 1 {
				merged = scheme.MergeRecords(existing[0], rec)
			}
			if err := r.write(ctx, tx, runID, merged); err != nil {
				return err
			}
		}
		r.logger.Debug("schemes stored", "run_id", runID, "count", len(recs))
		return nil
	})
}

func (r *schemeRepository) write(ctx context.Context, tx dialect.Tx, runID uuid.UUID, rec *entity.SchemeRecord) error {
	insts, err := json.Marshal(rec.Institutes)
	if err != nil {
		return fmt.Errorf("marshal institutes: %w", err)
	}
	subjects, err := json.Marshal(rec.Subjects)
	if err != nil {
		return fmt.Errorf("marshal subjects: %w", err)
	}
	q, args := entsql.Dialect(r.db.dialect).
		Insert("schemes").
		Columns(append(schemeColumns, "run_id", "updated_at")...).
		Values(rec.SchemeID, rec.ProgrammeCode, rec.Programme, rec.Semester, string(insts), string(subjects), runID.String(), now()).
		OnConflict(entsql.ConflictColumns("scheme_id"), entsql.ResolveWithNewValues()).
		Query()
	if err := tx.Exec(ctx, q, args, nil); err != nil {
		r.logger.Error("failed to store scheme", "scheme_id", rec.SchemeID, "error", err)
		return fmt.Errorf("%w: store scheme %s: %v", common.ErrDatabase, rec.SchemeID, err)
	}
	return nil
}

func (r *schemeRepository) Get(ctx context.Context, schemeID string) (*entity.SchemeRecord, error) {
	recs, err := querySchemes(ctx, r.db.drv, r.db.dialect, entsql.EQ("scheme_id", schemeID))
	if err != nil {
		return nil, fmt.Errorf("%w: get scheme: %v", common.ErrDatabase, err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("scheme %s: %w", schemeID, ErrNotFound)
	}
	return recs[0], nil
}

func (r *schemeRepository) List(ctx context.Context) ([]*entity.SchemeRecord, error) {
	recs, err := querySchemes(ctx, r.db.drv, r.db.dialect, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: list schemes: %v", common.ErrDatabase, err)
	}
	return recs, nil
}

