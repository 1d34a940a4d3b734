package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/Compass/internal/scoring"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const analysisColumns = `analysis_id, title, goal, description, framework, owner,
	status, options, tags, metadata,
	created_at, updated_at`

const itemColumns = `item_id, analysis_id, category, text, confidence,
	evidence_ids, applies_to, position,
	created_at, updated_at`

func (s *PostgresStore) CreateAnalysis(ctx context.Context, a *Analysis) error {
	metadataJSON, _ := json.Marshal(a.Metadata)

	return s.pool.QueryRow(ctx, `
		INSERT INTO compass_analyses (title, goal, description, framework, owner,
			status, options, tags, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING analysis_id, created_at, updated_at`,
		a.Title, a.Goal, a.Description, a.Framework, a.Owner,
		a.Status, a.Options, a.Tags, metadataJSON,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (s *PostgresStore) GetAnalysis(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	a := &Analysis{}
	var metadataJSON []byte
	var description sql.NullString
	err := s.pool.QueryRow(ctx, `
		SELECT `+analysisColumns+`
		FROM compass_analyses WHERE analysis_id = $1`, id,
	).Scan(
		&a.ID, &a.Title, &a.Goal, &description, &a.Framework, &a.Owner,
		&a.Status, &a.Options, &a.Tags, &metadataJSON,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if description.Valid {
		a.Description = description.String
	}
	if metadataJSON != nil {
		_ = json.Unmarshal(metadataJSON, &a.Metadata)
	}
	return a, nil
}

func (s *PostgresStore) ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]*Analysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM compass_analyses WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.Status != nil {
		n++
		query += fmt.Sprintf(" AND status = $%d", n)
		args = append(args, string(*filter.Status))
	}
	if filter.Owner != "" {
		n++
		query += fmt.Sprintf(" AND owner = $%d", n)
		args = append(args, filter.Owner)
	}
	if filter.Tag != "" {
		n++
		query += fmt.Sprintf(" AND $%d = ANY(tags)", n)
		args = append(args, filter.Tag)
	}

	query += " ORDER BY updated_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)

	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAnalyses(rows)
}

func (s *PostgresStore) UpdateAnalysis(ctx context.Context, a *Analysis) error {
	metadataJSON, _ := json.Marshal(a.Metadata)

	_, err := s.pool.Exec(ctx, `
		UPDATE compass_analyses SET
			title = $2, goal = $3, description = $4, framework = $5, owner = $6,
			status = $7, options = $8, tags = $9, metadata = $10,
			updated_at = now()
		WHERE analysis_id = $1`,
		a.ID, a.Title, a.Goal, a.Description, a.Framework, a.Owner,
		a.Status, a.Options, a.Tags, metadataJSON,
	)
	return err
}

func (s *PostgresStore) DeleteAnalysis(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM compass_analyses WHERE analysis_id = $1`, id)
	return err
}

func (s *PostgresStore) CreateItem(ctx context.Context, item *Item) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO compass_items (analysis_id, category, text, confidence,
			evidence_ids, applies_to, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING item_id, created_at, updated_at`,
		item.AnalysisID, item.Category, item.Text, item.Confidence,
		item.EvidenceIDs, item.AppliesTo, item.Position,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (s *PostgresStore) GetItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	it := &Item{}
	err := s.pool.QueryRow(ctx, `
		SELECT `+itemColumns+`
		FROM compass_items WHERE item_id = $1`, id,
	).Scan(
		&it.ID, &it.AnalysisID, &it.Category, &it.Text, &it.Confidence,
		&it.EvidenceIDs, &it.AppliesTo, &it.Position,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (s *PostgresStore) ListItems(ctx context.Context, analysisID uuid.UUID) ([]*Item, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+itemColumns+`
		FROM compass_items WHERE analysis_id = $1
		ORDER BY category ASC, position ASC, created_at ASC`, analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

func (s *PostgresStore) UpdateItem(ctx context.Context, item *Item) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE compass_items SET
			category = $2, text = $3, confidence = $4,
			evidence_ids = $5, applies_to = $6, position = $7,
			updated_at = now()
		WHERE item_id = $1`,
		item.ID, item.Category, item.Text, item.Confidence,
		item.EvidenceIDs, item.AppliesTo, item.Position,
	)
	return err
}

func (s *PostgresStore) DeleteItem(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM compass_items WHERE item_id = $1`, id)
	return err
}

func (s *PostgresStore) GetSnapshot(ctx context.Context, id uuid.UUID) (*scoring.Snapshot, error) {
	a, err := s.GetAnalysis(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, nil
	}
	items, err := s.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return SnapshotFrom(a, items), nil
}

func (s *PostgresStore) ListUpdatedSince(ctx context.Context, since time.Time) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT analysis_id FROM compass_analyses WHERE updated_at > $1
		UNION
		SELECT analysis_id FROM compass_items WHERE updated_at > $1`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *PostgresStore) CreateAnalysisEvent(ctx context.Context, event *AnalysisEvent) error {
	payloadJSON, _ := json.Marshal(event.Payload)
	return s.pool.QueryRow(ctx, `
		INSERT INTO compass_analysis_events (analysis_id, event, analyst_id, payload)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		event.AnalysisID, event.Event, event.AnalystID, payloadJSON,
	).Scan(&event.ID, &event.CreatedAt)
}

func (s *PostgresStore) GetAnalysisEvents(ctx context.Context, analysisID uuid.UUID) ([]*AnalysisEvent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, analysis_id, event, analyst_id, payload, created_at
		FROM compass_analysis_events WHERE analysis_id = $1
		ORDER BY created_at ASC`, analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*AnalysisEvent
	for rows.Next() {
		e := &AnalysisEvent{}
		var payloadJSON []byte
		if err := rows.Scan(&e.ID, &e.AnalysisID, &e.Event, &e.AnalystID, &payloadJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		if payloadJSON != nil {
			_ = json.Unmarshal(payloadJSON, &e.Payload)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *PostgresStore) GetStats(ctx context.Context) (*ServiceStats, error) {
	stats := &ServiceStats{}
	err := s.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'draft' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'archived' THEN 1 ELSE 0 END), 0),
			COALESCE((SELECT COUNT(*) FROM compass_items), 0),
			COALESCE((SELECT COUNT(*)::float / NULLIF(COUNT(DISTINCT analysis_id), 0) FROM compass_items), 0)
		FROM compass_analyses`,
	).Scan(&stats.TotalDraft, &stats.TotalActive, &stats.TotalArchived, &stats.TotalItems, &stats.AvgItemCount)
	return stats, err
}

func scanAnalyses(rows pgx.Rows) ([]*Analysis, error) {
	var analyses []*Analysis
	for rows.Next() {
		a := &Analysis{}
		var metadataJSON []byte
		var description sql.NullString
		if err := rows.Scan(
			&a.ID, &a.Title, &a.Goal, &description, &a.Framework, &a.Owner,
			&a.Status, &a.Options, &a.Tags, &metadataJSON,
			&a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if description.Valid {
			a.Description = description.String
		}
		if metadataJSON != nil {
			_ = json.Unmarshal(metadataJSON, &a.Metadata)
		}
		analyses = append(analyses, a)
	}
	return analyses, rows.Err()
}

func scanItems(rows pgx.Rows) ([]*Item, error) {
	var items []*Item
	for rows.Next() {
		it := &Item{}
		if err := rows.Scan(
			&it.ID, &it.AnalysisID, &it.Category, &it.Text, &it.Confidence,
			&it.EvidenceIDs, &it.AppliesTo, &it.Position,
			&it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
