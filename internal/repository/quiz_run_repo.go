package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"docsum/internal/models"
)

type QuizRunRepo struct {
	pool *pgxpool.Pool
}

func NewQuizRunRepo(pool *pgxpool.Pool) *QuizRunRepo {
	return &QuizRunRepo{pool: pool}
}

func (r *QuizRunRepo) Create(ctx context.Context, q *models.QuizRun) error {
	q.ID = uuid.New()
	query := `INSERT INTO quiz_runs (id, session_id, document_id, paragraph_index, question_count, answered_count)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING finished_at`

	return r.pool.QueryRow(ctx, query,
		q.ID, q.SessionID, q.DocumentID, q.ParagraphIndex, q.QuestionCount, q.AnsweredCount,
	).Scan(&q.FinishedAt)
}
