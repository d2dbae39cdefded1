package repository

import (
	"context"

	"docsum/internal/models"
)

// History records processed documents and finished quizzes.
type History interface {
	RecordDocument(ctx context.Context, d *models.Document) error
	RecordQuizRun(ctx context.Context, q *models.QuizRun) error
	RecentDocuments(ctx context.Context, sessionID string, limit int) ([]*models.Document, error)
}

type PostgresHistory struct {
	Documents *DocumentRepo
	QuizRuns  *QuizRunRepo
}

func (h *PostgresHistory) RecordDocument(ctx context.Context, d *models.Document) error {
	return h.Documents.Create(ctx, d)
}

func (h *PostgresHistory) RecordQuizRun(ctx context.Context, q *models.QuizRun) error {
	return h.QuizRuns.Create(ctx, q)
}

func (h *PostgresHistory) RecentDocuments(ctx context.Context, sessionID string, limit int) ([]*models.Document, error) {
	return h.Documents.ListBySession(ctx, sessionID, limit)
}

// NoopHistory is used when no database is configured.
type NoopHistory struct{}

func (NoopHistory) RecordDocument(context.Context, *models.Document) error { return nil }

func (NoopHistory) RecordQuizRun(context.Context, *models.QuizRun) error { return nil }

func (NoopHistory) RecentDocuments(context.Context, string, int) ([]*models.Document, error) {
	return nil, nil
}
