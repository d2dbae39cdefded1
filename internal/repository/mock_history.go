package repository

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docsum/internal/models"
)

// MockHistory is a mock implementation of History using testify/mock.
type MockHistory struct {
	mock.Mock
}

func (m *MockHistory) RecordDocument(ctx context.Context, d *models.Document) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockHistory) RecordQuizRun(ctx context.Context, q *models.QuizRun) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockHistory) RecentDocuments(ctx context.Context, sessionID string, limit int) ([]*models.Document, error) {
	args := m.Called(ctx, sessionID, limit)
	docs, _ := args.Get(0).([]*models.Document)
	return docs, args.Error(1)
}
