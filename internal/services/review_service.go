package services

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ericfisherdev/codereview/internal/config"
	"github.com/ericfisherdev/codereview/internal/domain"
	"github.com/ericfisherdev/codereview/internal/validation"
)

// ReviewService runs the code-review pipeline: validate, build the
// prompt, invoke the completion API, and extract the text. The result
// is returned verbatim with no post-processing.
type ReviewService interface {
	Analyze(ctx context.Context, req domain.ReviewRequest) (*domain.ReviewResult, error)
}

// systemPrompt establishes the reviewer persona for every completion
// call.
const systemPrompt = "You are an expert code reviewer with deep knowledge of " +
	"software engineering best practices, security, and performance optimization."

const (
	reviewTemperature = 0.7
	reviewMaxTokens   = 2000
)

type reviewService struct {
	client *openai.Client
	model  string
}

// NewReviewService creates a new review service.
func NewReviewService(cfg config.OpenAIConfig) ReviewService {
	clientConfig := openai.DefaultConfig(cfg.GetOpenAIKey())
	if cfg.GetOpenAIBaseURL() != "" {
		clientConfig.BaseURL = cfg.GetOpenAIBaseURL()
	}

	return &reviewService{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.GetOpenAIModel(),
	}
}

// Analyze validates the request, invokes the completion API, and
// returns the review text. An LLM call that returns no content is a
// pipeline failure, not a partial success.
func (s *reviewService) Analyze(ctx context.Context, req domain.ReviewRequest) (*domain.ReviewResult, error) {
	if err := validation.ValidateStruct(req, "Invalid request data"); err != nil {
		return nil, err
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req)},
		},
		Temperature: reviewTemperature,
		MaxTokens:   reviewMaxTokens,
	})
	if err != nil {
		return nil, domain.NewInternalError("COMPLETION_FAILED", "Completion API call failed", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, domain.NewReviewGenerationError("EMPTY_COMPLETION", "Failed to generate code review")
	}

	return &domain.ReviewResult{Text: resp.Choices[0].Message.Content}, nil
}

// buildPrompt constructs the review prompt. The five review
// dimensions and their order are a fixed contract callers may assume.
func buildPrompt(req domain.ReviewRequest) string {
	var b strings.Builder

	b.WriteString("Please review the following ")
	b.WriteString(req.Language)
	b.WriteString(" code:\n\n")
	b.WriteString(req.Code)
	b.WriteString("\n\n")

	if req.Context != "" {
		b.WriteString("Additional context: ")
		b.WriteString(req.Context)
		b.WriteString("\n\n")
	}

	b.WriteString("Please provide a detailed code review that includes:\n")
	b.WriteString("1. Code quality assessment\n")
	b.WriteString("2. Potential bugs or issues\n")
	b.WriteString("3. Security vulnerabilities\n")
	b.WriteString("4. Performance considerations\n")
	b.WriteString("5. Best practices and suggestions for improvement\n")

	return b.String()
}
