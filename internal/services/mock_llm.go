package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docsum/internal/models"
)

// MockLanguageModel is a mock implementation of LanguageModel using testify/mock.
type MockLanguageModel struct {
	mock.Mock
}

func (m *MockLanguageModel) Summarize(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

func (m *MockLanguageModel) SplitIntoParagraphs(ctx context.Context, text string) ([]string, error) {
	args := m.Called(ctx, text)
	paragraphs, _ := args.Get(0).([]string)
	return paragraphs, args.Error(1)
}

func (m *MockLanguageModel) GenerateQuestions(ctx context.Context, paragraph string) ([]models.QAPair, error) {
	args := m.Called(ctx, paragraph)
	questions, _ := args.Get(0).([]models.QAPair)
	return questions, args.Error(1)
}

// MockOCR is a mock implementation of OCR.
type MockOCR struct {
	mock.Mock
}

func (m *MockOCR) Recognize(ctx context.Context, image []byte, mimeType, language string) (string, error) {
	args := m.Called(ctx, image, mimeType, language)
	return args.String(0), args.Error(1)
}
