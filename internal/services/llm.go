package services

import (
	"context"
	"fmt"
	"io"
	"sync"

	"docsum/internal/models"
)

// LanguageModel is a configured handle to the generative model.
type LanguageModel interface {
	Summarize(ctx context.Context, text string) (string, error)
	SplitIntoParagraphs(ctx context.Context, text string) ([]string, error)
	GenerateQuestions(ctx context.Context, paragraph string) ([]models.QAPair, error)
}

// ModelFactory configures a LanguageModel for an API key and model name.
type ModelFactory func(ctx context.Context, apiKey, model string) (LanguageModel, error)

// ModelConfigurator hands out a configured LanguageModel. The handle is cached for the
// current (key, model) pair and rebuilt when either changes. Failures are not cached,
// so the next call configures again.
type ModelConfigurator struct {
	mu      sync.Mutex
	factory ModelFactory
	apiKey  string
	model   string

	cached    LanguageModel
	cachedFor string
}

func NewModelConfigurator(factory ModelFactory, apiKey, model string) *ModelConfigurator {
	return &ModelConfigurator{factory: factory, apiKey: apiKey, model: model}
}

// SetCredentials swaps the key and model; the cached handle is dropped on change.
func (c *ModelConfigurator) SetCredentials(apiKey, model string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.apiKey = apiKey
	c.model = model
	if c.cachedFor != credentialKey(apiKey, model) {
		c.invalidateLocked()
	}
}

func (c *ModelConfigurator) Configure(ctx context.Context) (LanguageModel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.apiKey == "" {
		return nil, &ConfigurationError{Message: "API key is not set"}
	}
	if c.model == "" {
		return nil, &ConfigurationError{Message: "model name is not set"}
	}

	key := credentialKey(c.apiKey, c.model)
	if c.cached != nil && c.cachedFor == key {
		return c.cached, nil
	}
	c.invalidateLocked()

	m, err := c.factory(ctx, c.apiKey, c.model)
	if err != nil {
		return nil, &ConfigurationError{Message: "language model configuration failed", Err: err}
	}

	c.cached = m
	c.cachedFor = key
	return m, nil
}

func (c *ModelConfigurator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidateLocked()
}

func (c *ModelConfigurator) invalidateLocked() {
	if closer, ok := c.cached.(io.Closer); ok {
		closer.Close()
	}
	c.cached = nil
	c.cachedFor = ""
}

func credentialKey(apiKey, model string) string {
	return apiKey + "\x00" + model
}

// ModelOCR runs OCR through the configured model when it supports images.
type ModelOCR struct {
	Models *ModelConfigurator
}

func (o ModelOCR) Recognize(ctx context.Context, image []byte, mimeType, language string) (string, error) {
	m, err := o.Models.Configure(ctx)
	if err != nil {
		return "", err
	}
	ocr, ok := m.(OCR)
	if !ok {
		return "", fmt.Errorf("configured model does not support image input")
	}
	return ocr.Recognize(ctx, image, mimeType, language)
}
