package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// maxCategoryLen bounds what is accepted from the model as a category name.
const maxCategoryLen = 40

type GPTClassifier struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	fallback    Classifier
	logger      *zap.Logger
}

func NewGPTClassifier(config openai.ClientConfig, model string, maxTokens int, temperature float64, logger *zap.Logger) *GPTClassifier {
	return &GPTClassifier{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		fallback:    NewKeywordClassifier(),
		logger:      logger,
	}
}

func (c *GPTClassifier) SuggestCategory(ctx context.Context, title, author string, known []string) string {
	prompt := fmt.Sprintf(`Suggest a single short category for organizing notes about this book.
Answer with the category name only, no punctuation or explanation.
If one of these existing categories fits, answer with it exactly: %s

Title: %s
Author: %s`, strings.Join(known, ", "), title, author)

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   c.maxTokens,
			Temperature: float32(c.temperature),
		},
	)
	if err != nil {
		c.logger.Error("Failed to get GPT response", zap.Error(err))
		return c.fallback.SuggestCategory(ctx, title, author, known)
	}
	if len(resp.Choices) == 0 {
		c.logger.Warn("GPT response had no choices")
		return c.fallback.SuggestCategory(ctx, title, author, known)
	}

	answer := strings.Trim(strings.TrimSpace(resp.Choices[0].Message.Content), "\"'.#* ")
	if answer == "" || len(answer) > maxCategoryLen || strings.ContainsAny(answer, "\n\r") {
		c.logger.Warn("Unusable GPT category", zap.String("response", resp.Choices[0].Message.Content))
		return c.fallback.SuggestCategory(ctx, title, author, known)
	}
	return matchKnown(answer, known)
}
