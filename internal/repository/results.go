package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/results-parser/internal/common"
	"github.com/joseph-ayodele/results-parser/internal/entity"
)

const dateLayout = "2006-01-02"

type ResultRepository interface {
	// Upsert stores results keyed by enrollment, scheme, semester and examination;
	// a re-parsed bulletin replaces its earlier rows.
	Upsert(ctx context.Context, runID uuid.UUID, results []entity.StudentResult) error
	ListByScheme(ctx context.Context, schemeID string) ([]entity.StudentResult, error)
}

type resultRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewResultRepository(db *DB, logger *slog.Logger) ResultRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &resultRepository{db: db, logger: logger}
}

var resultColumns = []string{
	"enrollment", "scheme_id", "semester", "exam", "name", "sid", "inst_code", "inst_name",
	"batch", "prg_code", "programme", "declared_date", "subjects",
}

func (r *resultRepository) Upsert(ctx context.Context, runID uuid.UUID, results []entity.StudentResult) error {
	if len(results) == 0 {
		return nil
	}
	return r.db.withTx(ctx, func(tx dialect.Tx) error {
		for i := range results {
			if err := r.write(ctx, tx, runID, &results[i]); err != nil {
				return err
			}
		}
		r.logger.Debug("results stored", "run_id", runID, "count", len(results))
		return nil
	})
}

func (r *resultRepository) write(ctx context.Context, tx dialect.Tx, runID uuid.UUID, res *entity.StudentResult) error {
	subjects, err := json.Marshal(res.Subjects)
	if err != nil {
		return fmt.Errorf("marshal subjects: %w", err)
	}
	var declared any
	if res.Header.DeclaredDate != nil {
		declared = res.Header.DeclaredDate.Format(dateLayout)
	}
	q, args := entsql.Dialect(r.db.dialect).
		Insert("student_results").
		Columns(append(resultColumns, "run_id", "updated_at")...).
		Values(
			res.Enrollment, res.SchemeID, res.Header.Semester, res.Header.Examination,
			res.Name, res.SID, res.Institute.Code, res.Institute.Name,
			res.Batch, res.ProgrammeCode, res.Programme, declared, string(subjects),
			runID.String(), now(),
		).
		OnConflict(
			entsql.ConflictColumns("enrollment", "scheme_id", "semester", "exam"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := tx.Exec(ctx, q, args, nil); err != nil {
		r.logger.Error("failed to store result", "enrollment", res.Enrollment, "error", err)
		return fmt.Errorf("%w: store result %s: %v", common.ErrDatabase, res.Enrollment, err)
	}
	return nil
}

func (r *resultRepository) ListByScheme(ctx context.Context, schemeID string) ([]entity.StudentResult, error) {
	query, args := entsql.Dialect(r.db.dialect).
		Select(resultColumns...).
		From(entsql.Table("student_results")).
		Where(entsql.EQ("scheme_id", schemeID)).
		OrderBy("enrollment", "exam").
		Query()

	rows := &entsql.Rows{}
	if err := r.db.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("%w: list results: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []entity.StudentResult
	for rows.Next() {
		var (
			res      entity.StudentResult
			declared sql.NullString
			subjects string
		)
		err := rows.Scan(
			&res.Enrollment, &res.SchemeID, &res.Header.Semester, &res.Header.Examination,
			&res.Name, &res.SID, &res.Institute.Code, &res.Institute.Name,
			&res.Batch, &res.ProgrammeCode, &res.Programme, &declared, &subjects,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scan result: %v", common.ErrDatabase, err)
		}
		if err := json.Unmarshal([]byte(subjects), &res.Subjects); err != nil {
			return nil, fmt.Errorf("decode subjects of %s: %w", res.Enrollment, err)
		}
		if declared.Valid {
			if d, err := time.Parse(dateLayout, declared.String); err == nil {
				res.Header.DeclaredDate = &d
			}
		}
		res.Header.ProgrammeCode = res.ProgrammeCode
		res.Header.Programme = res.Programme
		res.Header.Batch = res.Batch
		out = append(out, res)
	}
	return out, rows.Err()
}
