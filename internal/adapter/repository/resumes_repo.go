package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"resume-builder/internal/model"

	"github.com/jackc/pgx/v4/pgxpool"
)

// ResumesRepo stores whole resume documents as JSONB rows keyed by id.
type ResumesRepo struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewResumesRepo(pool *pgxpool.Pool) *ResumesRepo {
	return &ResumesRepo{pool: pool, now: time.Now}
}

// Persist upserts doc for userID.
func (r *ResumesRepo) Persist(ctx context.Context, userID string, doc model.Resume) error {
	if r.pool == nil {
		return fmt.Errorf("resumes repository has no database")
	}

	docB, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode resume: %w", err)
	}
	now := r.now().UTC()

	_, err = r.pool.Exec(ctx, `INSERT INTO resumes (id, user_id, title, template, document, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$6)
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, template = EXCLUDED.template, document = EXCLUDED.document, updated_at = EXCLUDED.updated_at
		WHERE resumes.user_id = EXCLUDED.user_id`,
		doc.ID, userID, doc.Title, string(doc.Template), docB, now)
	if err != nil {
		return fmt.Errorf("upsert resume: %w", err)
	}
	return nil
}

// LoadForUser returns the user's stored documents, oldest first.
func (r *ResumesRepo) LoadForUser(ctx context.Context, userID string) ([]model.Resume, error) {
	if r.pool == nil {
		return nil, nil
	}
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT coalesce(json_agg(document ORDER BY created_at), '[]') FROM resumes WHERE user_id = $1`,
		userID).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("query resumes: %w", err)
	}
	return decodeDocuments(userID, raw)
}

// decodeDocuments decodes a JSON array of stored documents. Rows that no
// longer validate are skipped.
func decodeDocuments(userID string, raw []byte) ([]model.Resume, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode resumes: %w", err)
	}
	out := make([]model.Resume, 0, len(rows))
	for i, row := range rows {
		doc, err := model.Decode(row)
		if err != nil {
			slog.Warn("skipping stored resume", "component", "repository", "user_id", userID, "row", i, "error", err)
			continue
		}
		out = append(out, doc)
	}
	return out, nil
}
