package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"docsum/internal/models"
)

const defaultChatTemperature = 0.3

// OpenAIModel implements LanguageModel on the Chat Completions API.
type OpenAIModel struct {
	model  openai.ChatModel
	client *openai.Client
}

func OpenAIFactory() ModelFactory {
	return func(ctx context.Context, apiKey, model string) (LanguageModel, error) {
		return NewOpenAIModel(apiKey, openai.ChatModel(model))
	}
}

func NewOpenAIModel(apiKey string, model openai.ChatModel) (*OpenAIModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	cli := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIModel{model: model, client: &cli}, nil
}

func (c *OpenAIModel) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(prompt),
					},
				},
			},
		},
		Temperature: openai.Float(defaultChatTemperature),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("openai: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIModel) Summarize(ctx context.Context, text string) (string, error) {
	out, err := c.complete(ctx, buildSummaryPrompt(text))
	if err != nil {
		return "", &ModelCallError{Op: "summarize", Err: err}
	}
	return strings.TrimSpace(out), nil
}

func (c *OpenAIModel) SplitIntoParagraphs(ctx context.Context, text string) ([]string, error) {
	out, err := c.complete(ctx, buildParagraphPrompt(text))
	if err != nil {
		return nil, &ModelCallError{Op: "split paragraphs", Err: err}
	}
	return parseParagraphs(out), nil
}

func (c *OpenAIModel) GenerateQuestions(ctx context.Context, paragraph string) ([]models.QAPair, error) {
	out, err := c.complete(ctx, buildQuestionPrompt(paragraph))
	if err != nil {
		return nil, &ModelCallError{Op: "generate questions", Err: err}
	}
	questions, err := parseQuestions(out)
	if err != nil {
		return nil, &ModelCallError{Op: "generate questions", Err: err}
	}
	return questions, nil
}
