package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/results-parser/internal/common"
	"github.com/joseph-ayodele/results-parser/internal/entity"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, Config{DSN: "sqlite://" + filepath.Join(t.TempDir(), "results.db")}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(db.Close)
	if err := db.HealthCheck(ctx, time.Second, 1); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func TestOpenRejectsEmptyDSN(t *testing.T) {
	if _, err := Open(context.Background(), Config{}, nil); !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("err = %v", err)
	}
}

func TestSqlitePath(t *testing.T) {
	if got := sqlitePath("sqlite://a.db"); got != "a.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)" {
		t.Errorf("sqlitePath = %q", got)
	}
	if got := sqlitePath("file:a.db?mode=ro"); got != "file:a.db?mode=ro&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)" {
		t.Errorf("sqlitePath = %q", got)
	}
	if got := sqlitePath("a.db?_pragma=foreign_keys(1)"); got != "a.db?_pragma=foreign_keys(1)" {
		t.Errorf("explicit pragmas should be kept, got %q", got)
	}
	if !isPostgres("postgres://u@h/db") || isPostgres("sqlite://x") {
		t.Error("isPostgres")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := db.Migrate(context.Background()); err != nil {
		t.Errorf("second Migrate: %v", err)
	}
}

func TestRunRepository(t *testing.T) {
	ctx := context.Background()
	runs := NewRunRepository(openTestDB(t), nil)
	id, err := runs.Start(ctx, "bulletin.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if err := runs.Finish(ctx, id, RunSummary{Schemes: 2, Students: 4, RepeatedSchemes: 1, Stats: map[string]int{"pages": 7}}); err != nil {
		t.Fatal(err)
	}
	run, err := runs.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if run.Source != "bulletin.pdf" || run.FinishedAt == "" || run.Error != "" {
		t.Errorf("finished run = %+v", run)
	}

	failed, err := runs.Start(ctx, "broken.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if run, _ := runs.Get(ctx, failed); run.FinishedAt != "" {
		t.Errorf("open run already finished: %+v", run)
	}
	if err := runs.Fail(ctx, failed, errors.New("page count: boom")); err != nil {
		t.Fatal(err)
	}
	run, err = runs.Get(ctx, failed)
	if err != nil {
		t.Fatal(err)
	}
	if run.FinishedAt == "" || run.Error != "page count: boom" {
		t.Errorf("failed run = %+v", run)
	}

	if _, err := runs.Get(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing run err = %v", err)
	}
}

func schemeRecord(inst entity.Institute, codes ...string) *entity.SchemeRecord {
	rec := &entity.SchemeRecord{
		ProgrammeCode: "027",
		Programme:     "B.TECH",
		SchemeID:      "190272021001",
		Semester:      3,
		Institutes:    []entity.Institute{inst},
		Subjects:      map[string]entity.SubjectDefinition{},
	}
	for _, c := range codes {
		rec.Subjects[c] = entity.SubjectDefinition{PaperName: c, PassMarks: "40"}
	}
	return rec
}

func TestSchemeRepositoryMergesAcrossRuns(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewSchemeRepository(db, nil)
	runs := NewRunRepository(db, nil)
	run1, _ := runs.Start(ctx, "a.pdf")
	run2, _ := runs.Start(ctx, "b.pdf")

	bvp := entity.Institute{Code: 115, Name: "BVCOE"}
	msit := entity.Institute{Code: 148, Name: "MSIT"}
	if err := repo.Upsert(ctx, run1, []*entity.SchemeRecord{schemeRecord(bvp, "CS201")}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Upsert(ctx, run2, []*entity.SchemeRecord{schemeRecord(msit, "CS203"), schemeRecord(bvp, "CS201")}); err != nil {
		t.Fatal(err)
	}

	got, err := repo.Get(ctx, "190272021001")
	if err != nil {
		t.Fatal(err)
	}
	want := schemeRecord(bvp, "CS201", "CS203")
	want.Institutes = []entity.Institute{bvp, msit}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stored scheme mismatch (-want +got):\n%s", diff)
	}

	all, err := repo.List(ctx)
	if err != nil || len(all) != 1 {
		t.Errorf("List = %v, %v", all, err)
	}
	if _, err := repo.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing scheme err = %v", err)
	}
}

func TestResultRepository(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewResultRepository(db, nil)
	run, _ := NewRunRepository(db, nil).Start(ctx, "a.pdf")

	d := time.Date(2024, 2, 8, 0, 0, 0, 0, time.UTC)
	header := entity.ResultHeader{ProgrammeCode: "027", Programme: "B.TECH", Semester: 3, Batch: 2021, Examination: "REGULAR DEC, 2022", DeclaredDate: &d}
	first := entity.StudentResult{
		StudentIdentity: entity.StudentIdentity{Enrollment: "01211502721", Name: "ASHA", SID: "1", SchemeID: "190272021001"},
		Institute:       entity.Institute{Code: 115, Name: "BVCOE"},
		Batch:           2021,
		ProgrammeCode:   "027",
		Programme:       "B.TECH",
		Subjects:        map[string]entity.SubjectMark{"CS201": {Internal: "20", External: "55", Total: "75", TotalGrade: "A+"}},
		Header:          header,
	}
	second := first
	second.StudentIdentity = entity.StudentIdentity{Enrollment: "01311502721", Name: "RAVI", SID: "2", SchemeID: "190272021001"}
	second.Header.DeclaredDate = nil

	if err := repo.Upsert(ctx, run, []entity.StudentResult{first, second}); err != nil {
		t.Fatal(err)
	}
	regraded := first
	regraded.Subjects = map[string]entity.SubjectMark{"CS201": {Internal: "20", External: "60", Total: "80", TotalGrade: "A+"}}
	if err := repo.Upsert(ctx, run, []entity.StudentResult{regraded}); err != nil {
		t.Fatal(err)
	}

	got, err := repo.ListByScheme(ctx, "190272021001")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]entity.StudentResult{regraded, second}, got); diff != "" {
		t.Errorf("stored results mismatch (-want +got):\n%s", diff)
	}
}
