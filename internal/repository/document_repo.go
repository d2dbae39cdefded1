package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"docsum/internal/models"
)

type DocumentRepo struct {
	pool *pgxpool.Pool
}

func NewDocumentRepo(pool *pgxpool.Pool) *DocumentRepo {
	return &DocumentRepo{pool: pool}
}

func (r *DocumentRepo) Create(ctx context.Context, d *models.Document) error {
	d.ID = uuid.New()
	query := `INSERT INTO documents (id, session_id, filename, content_type, char_count, paragraph_count, summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		d.ID, d.SessionID, d.Filename, d.ContentType, d.CharCount, d.ParagraphCount, d.Summary,
	).Scan(&d.CreatedAt)
}

func (r *DocumentRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]*models.Document, error) {
	query := `SELECT id, session_id, filename, content_type, char_count, paragraph_count, summary, created_at
		FROM documents WHERE session_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		d := &models.Document{}
		err := rows.Scan(&d.ID, &d.SessionID, &d.Filename, &d.ContentType, &d.CharCount, &d.ParagraphCount, &d.Summary, &d.CreatedAt)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
