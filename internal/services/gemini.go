package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"docsum/internal/models"
)

const rateWaitTimeout = 5 * time.Minute

// GeminiModel implements LanguageModel and OCR on the Gemini API.
type GeminiModel struct {
	client    *genai.Client
	textModel *genai.GenerativeModel
	jsonModel *genai.GenerativeModel
	rateChan  chan struct{} // Token bucket
}

// GeminiFactory returns a ModelFactory whose models allow at most concurrentReqs
// calls in flight.
func GeminiFactory(concurrentReqs int) ModelFactory {
	return func(ctx context.Context, apiKey, model string) (LanguageModel, error) {
		return NewGeminiModel(ctx, apiKey, model, concurrentReqs)
	}
}

func NewGeminiModel(ctx context.Context, apiKey, modelName string, concurrentReqs int) (*GeminiModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	textModel := client.GenerativeModel(modelName)
	textModel.SetTemperature(0.3)
	textModel.SetTopP(0.95)

	jsonModel := client.GenerativeModel(modelName)
	jsonModel.SetTemperature(0.3)
	jsonModel.SetTopP(0.95)
	jsonModel.ResponseMIMEType = "application/json"

	if concurrentReqs <= 0 {
		concurrentReqs = 1
	}
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiModel{
		client:    client,
		textModel: textModel,
		jsonModel: jsonModel,
		rateChan:  rateChan,
	}, nil
}

func (g *GeminiModel) Close() error {
	return g.client.Close()
}

// acquireRate blocks until a rate slot is available
func (g *GeminiModel) acquireRate(ctx context.Context) error {
	select {
	case <-g.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(rateWaitTimeout):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (g *GeminiModel) releaseRate() {
	g.rateChan <- struct{}{}
}

func (g *GeminiModel) generate(ctx context.Context, model *genai.GenerativeModel, parts ...genai.Part) (string, error) {
	if err := g.acquireRate(ctx); err != nil {
		return "", err
	}
	defer g.releaseRate()

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		reason := "no candidates"
		if len(resp.Candidates) > 0 {
			reason = resp.Candidates[0].FinishReason.String()
		}
		return "", fmt.Errorf("Gemini returned empty text (%s)", reason)
	}
	return text, nil
}

func (g *GeminiModel) Summarize(ctx context.Context, text string) (string, error) {
	out, err := g.generate(ctx, g.textModel, genai.Text(buildSummaryPrompt(text)))
	if err != nil {
		return "", &ModelCallError{Op: "summarize", Err: err}
	}
	return strings.TrimSpace(out), nil
}

func (g *GeminiModel) SplitIntoParagraphs(ctx context.Context, text string) ([]string, error) {
	out, err := g.generate(ctx, g.jsonModel, genai.Text(buildParagraphPrompt(text)))
	if err != nil {
		return nil, &ModelCallError{Op: "split paragraphs", Err: err}
	}
	return parseParagraphs(out), nil
}

func (g *GeminiModel) GenerateQuestions(ctx context.Context, paragraph string) ([]models.QAPair, error) {
	out, err := g.generate(ctx, g.jsonModel, genai.Text(buildQuestionPrompt(paragraph)))
	if err != nil {
		return nil, &ModelCallError{Op: "generate questions", Err: err}
	}
	questions, err := parseQuestions(out)
	if err != nil {
		return nil, &ModelCallError{Op: "generate questions", Err: err}
	}
	return questions, nil
}

// Recognize sends the image inline and asks for a verbatim transcription.
func (g *GeminiModel) Recognize(ctx context.Context, image []byte, mimeType, language string) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("image payload is empty")
	}
	return g.generate(ctx, g.textModel,
		genai.Text(buildOCRPrompt(language)),
		genai.Blob{MIMEType: mimeType, Data: image},
	)
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
