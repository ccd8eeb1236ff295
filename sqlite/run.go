package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ harvest.RunService = (*RunService)(nil)

// RunService implements harvest.RunService using SQLite. Records are
// stored one row per field so that history can be queried by field value.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun stores a run and all of its results in one transaction.
func (s *RunService) CreateRun(ctx context.Context, run *harvest.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	urls, err := json.Marshal(run.URLs)
	if err != nil {
		return fmt.Errorf("failed to encode urls: %w", err)
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	id := uuid.New().String()
	finishedAt := run.FinishedAt
	if finishedAt.IsZero() {
		finishedAt = run.StartedAt
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, profile, urls, total_records, total_errors, success, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, run.Profile, string(urls), run.TotalRecords, run.TotalErrors, boolInt(run.Success),
		formatTime(run.StartedAt), formatTime(finishedAt)); err != nil {
		return err
	}

	for pos, res := range run.Results {
		if err := insertResult(ctx, tx, id, pos, res); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	run.ID = id
	run.FinishedAt = finishedAt
	return nil
}

func insertResult(ctx context.Context, tx *sql.Tx, runID string, pos int, res *harvest.Result) error {
	docID := uuid.New().String()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO documents (id, run_id, position, url, search_query, result_header, content_hash, parsed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, docID, runID, pos, res.URL, res.SearchQuery, res.ResultHeader, res.ContentHash,
		formatTime(res.ParsedAt)); err != nil {
		return err
	}

	for _, rec := range res.Records {
		recID := uuid.New().String()
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO records (id, document_id, record_index) VALUES (?, ?, ?)
		`, recID, docID, rec.Index); err != nil {
			return err
		}
		for fpos, f := range rec.Fields {
			var date sql.NullString
			if f.Date != nil {
				date = sql.NullString{String: formatTime(*f.Date), Valid: true}
			}
			var amount sql.NullFloat64
			if f.Amount != nil {
				amount = sql.NullFloat64{Float64: *f.Amount, Valid: true}
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO record_fields (record_id, position, name, kind, value, raw, strategy, amount, date)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, recID, fpos, f.Name, string(f.Kind), f.Value, f.Raw, string(f.Strategy), amount, date); err != nil {
				return err
			}
		}
	}

	for epos, e := range res.Errors {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO item_errors (document_id, position, kind, transport_kind, record_index, status_code, url, message, suggestion, occurred_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, docID, epos, string(e.Kind), string(e.Transport), e.Index, e.StatusCode, e.URL,
			e.Message, e.Suggestion, formatTime(e.Timestamp)); err != nil {
			return err
		}
	}
	return nil
}

// FindRunByID retrieves a run with all of its results.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*harvest.Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, `
		SELECT id, profile, urls, total_records, total_errors, success, started_at, finished_at
		FROM runs
		WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, harvest.Errorf(harvest.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	results, err := s.findResults(ctx, id)
	if err != nil {
		return nil, err
	}
	run.Results = results
	return run, nil
}

// FindRuns retrieves run summaries matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter harvest.RunFilter) ([]*harvest.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, profile, urls, total_records, total_errors, success, started_at, finished_at FROM runs WHERE 1=1")
	if filter.Profile != nil {
		query.WriteString(" AND profile = ?")
		args = append(args, *filter.Profile)
	}
	query.WriteString(" ORDER BY started_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]*harvest.Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run. Documents, records, and errors are removed by
// cascade.
func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return harvest.Errorf(harvest.ENOTFOUND, "run not found")
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*harvest.Run, error) {
	var run harvest.Run
	var urls, startedAt, finishedAt string
	var success int
	if err := row.Scan(&run.ID, &run.Profile, &urls, &run.TotalRecords, &run.TotalErrors,
		&success, &startedAt, &finishedAt); err != nil {
		return nil, err
	}
	run.Success = success != 0
	if err := json.Unmarshal([]byte(urls), &run.URLs); err != nil {
		return nil, fmt.Errorf("failed to decode urls: %w", err)
	}
	var err error
	if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
		return nil, err
	}
	run.Results = []*harvest.Result{}
	return &run, nil
}

func (s *RunService) findResults(ctx context.Context, runID string) ([]*harvest.Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, url, search_query, result_header, content_hash, parsed_at
		FROM documents
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, err
	}

	type doc struct {
		id  string
		res *harvest.Result
	}
	var docs []doc
	for rows.Next() {
		var d doc
		var parsedAt string
		res := harvest.NewResult("", time.Time{})
		if err := rows.Scan(&d.id, &res.URL, &res.SearchQuery, &res.ResultHeader, &res.ContentHash, &parsedAt); err != nil {
			rows.Close()
			return nil, err
		}
		if res.ParsedAt, err = parseRFC3339(parsedAt, "parsed_at"); err != nil {
			rows.Close()
			return nil, err
		}
		d.res = res
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// The connection pool holds a single connection, so nested queries
	// run only after the outer rows are closed.
	results := make([]*harvest.Result, 0, len(docs))
	for _, d := range docs {
		if err := s.loadRecords(ctx, d.id, d.res); err != nil {
			return nil, err
		}
		if err := s.loadErrors(ctx, d.id, d.res); err != nil {
			return nil, err
		}
		results = append(results, d.res)
	}
	return results, nil
}

func (s *RunService) loadRecords(ctx context.Context, docID string, res *harvest.Result) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.record_index, f.name, f.kind, f.value, f.raw, f.strategy, f.amount, f.date
		FROM records r
		JOIN record_fields f ON f.record_id = r.id
		WHERE r.document_id = ?
		ORDER BY r.record_index ASC, f.position ASC
	`, docID)
	if err != nil {
		return err
	}
	defer rows.Close()

	var current *harvest.Record
	var currentID string
	for rows.Next() {
		var recID, kind, strategy string
		var index int
		var f harvest.FieldValue
		var amount sql.NullFloat64
		var date sql.NullString
		if err := rows.Scan(&recID, &index, &f.Name, &kind, &f.Value, &f.Raw, &strategy, &amount, &date); err != nil {
			return err
		}
		f.Kind = harvest.FieldKind(kind)
		f.Strategy = harvest.Strategy(strategy)
		if amount.Valid {
			v := amount.Float64
			f.Amount = &v
		}
		if date.Valid {
			t, err := parseRFC3339(date.String, "date")
			if err != nil {
				return err
			}
			f.Date = &t
		}

		if current == nil || recID != currentID {
			current = &harvest.Record{Index: index}
			currentID = recID
			res.AddRecord(current)
		}
		current.Fields = append(current.Fields, f)
	}
	return rows.Err()
}

func (s *RunService) loadErrors(ctx context.Context, docID string, res *harvest.Result) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, transport_kind, record_index, status_code, url, message, suggestion, occurred_at
		FROM item_errors
		WHERE document_id = ?
		ORDER BY position ASC
	`, docID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var e harvest.ItemError
		var kind, transport, occurredAt string
		if err := rows.Scan(&kind, &transport, &e.Index, &e.StatusCode, &e.URL,
			&e.Message, &e.Suggestion, &occurredAt); err != nil {
			return err
		}
		e.Kind = harvest.ErrorKind(kind)
		e.Transport = harvest.TransportKind(transport)
		if e.Timestamp, err = parseRFC3339(occurredAt, "occurred_at"); err != nil {
			return err
		}
		res.AddError(&e)
	}
	return rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
