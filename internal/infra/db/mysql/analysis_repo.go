package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	domain "github.com/callsight/callsight/internal/domain/analysis"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save insert/update analysis record, hasil per section disimpan sebagai JSON
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO call_analyses
(id, tenant_id, audio_url, status, triggered_at, duration_ms, results, errors)
VALUES (?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 status=VALUES(status),
 duration_ms=VALUES(duration_ms),
 results=VALUES(results),
 errors=VALUES(errors);
`
	tenant := stringOrDash(a.TenantID)
	status := stringOrDash(string(a.Status))
	triggered := a.TriggeredAt
	if triggered.IsZero() {
		triggered = time.Now()
	}

	results, err := json.Marshal(a.Results)
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}
	errs, err := json.Marshal(a.Errors)
	if err != nil {
		return fmt.Errorf("marshaling errors: %w", err)
	}

	_, err = r.db.ExecContext(ctx, q,
		a.ID, tenant, a.AudioURL, status, triggered, a.DurationMS,
		results, errs,
	)
	return err
}

// Get by ID + Tenant
func (r *AnalysisRepository) Get(ctx context.Context, tenant string, id domain.AnalysisID) (*domain.Analysis, error) {
	const q = `
SELECT id, tenant_id, audio_url, status, triggered_at, duration_ms, results, errors
FROM call_analyses
WHERE tenant_id=? AND id=? LIMIT 1;
`
	row := r.db.QueryRowContext(ctx, q, tenant, id)
	return scanAnalysis(row.Scan)
}

// Latest analyses per tenant
func (r *AnalysisRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, tenant_id, audio_url, status, triggered_at, duration_ms, results, errors
FROM call_analyses
WHERE tenant_id=? ORDER BY triggered_at DESC LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, q, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Paginate with offset + limit (classic pagination)
func (r *AnalysisRepository) Paginate(ctx context.Context, tenant string, page, pageSize int, filters map[string]interface{}) (domain.PaginatedResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := `
SELECT id, tenant_id, audio_url, status, triggered_at, duration_ms, results, errors
FROM call_analyses
WHERE tenant_id=?`

	args := []interface{}{tenant}
	query, args = applyFilters(query, args, filters)

	query += "\n ORDER BY triggered_at DESC LIMIT ? OFFSET ?"
	args = append(args, pageSize, offset)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("querying analyses: %w", err)
	}
	defer rows.Close()

	var analyses []*domain.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows.Scan)
		if err != nil {
			return domain.PaginatedResult{}, fmt.Errorf("scanning row: %w", err)
		}
		analyses = append(analyses, a)
	}
	if err = rows.Err(); err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("iterating rows: %w", err)
	}

	total, err := r.Count(ctx, tenant, filters)
	if err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("getting total count: %w", err)
	}

	return domain.PaginatedResult{
		Data:       analyses,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// Count returns the total number of records matching the given filters
func (r *AnalysisRepository) Count(ctx context.Context, tenant string, filters map[string]interface{}) (int64, error) {
	query := "SELECT COUNT(*) FROM call_analyses WHERE tenant_id = ?"
	args := []interface{}{tenant}
	query, args = applyFilters(query, args, filters)

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func applyFilters(query string, args []interface{}, filters map[string]interface{}) (string, []interface{}) {
	if filters == nil {
		return query, args
	}
	if v, ok := filters["status"]; ok {
		query += " AND status = ?"
		args = append(args, v)
	}
	if v, ok := filters["audio_url"]; ok {
		query += " AND audio_url LIKE ?"
		args = append(args, "%"+escapeLikePattern(v.(string))+"%")
	}
	return query, args
}

// scanAnalysis decodes one row, JSON kolom results/errors di-unmarshal di sini
func scanAnalysis(scan func(dest ...interface{}) error) (*domain.Analysis, error) {
	var a domain.Analysis
	var results, errs []byte
	if err := scan(
		&a.ID, &a.TenantID, &a.AudioURL, &a.Status, &a.TriggeredAt, &a.DurationMS,
		&results, &errs,
	); err != nil {
		return nil, err
	}
	if len(results) > 0 {
		if err := json.Unmarshal(results, &a.Results); err != nil {
			return nil, fmt.Errorf("decoding results column: %w", err)
		}
	}
	if len(errs) > 0 {
		if err := json.Unmarshal(errs, &a.Errors); err != nil {
			return nil, fmt.Errorf("decoding errors column: %w", err)
		}
	}
	return &a, nil
}
