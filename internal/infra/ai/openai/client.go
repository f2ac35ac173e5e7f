package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	domai "github.com/callsight/callsight/internal/domain/ai"
	"github.com/callsight/callsight/internal/infra/ai/prompt"
)

// Models and sampling settings per agent. Zero values fall back to the
// defaults below.
type Config struct {
	TranscriptionModel  string
	SummaryModel        string
	EvaluationModel     string
	RecommendationModel string

	TranscriptionTemperature  float32
	SummaryTemperature        float32
	EvaluationTemperature     float32
	RecommendationTemperature float32

	SummaryMaxTokens        int
	EvaluationMaxTokens     int
	RecommendationMaxTokens int
}

const (
	defaultTranscriptionModel = "gpt-4o-mini-transcribe"
	defaultChatModel          = "gpt-4o-mini"

	defaultSummaryMaxTokens        = 1000
	defaultEvaluationMaxTokens     = 1500
	defaultRecommendationMaxTokens = 1200
)

// Client implements all four agent ports against the OpenAI API.
type Client struct {
	api *openai.Client
	cfg Config
}

func NewClient(apiKey string, cfg Config) *Client {
	if cfg.TranscriptionModel == "" {
		cfg.TranscriptionModel = defaultTranscriptionModel
	}
	if cfg.SummaryModel == "" {
		cfg.SummaryModel = defaultChatModel
	}
	if cfg.EvaluationModel == "" {
		cfg.EvaluationModel = defaultChatModel
	}
	if cfg.RecommendationModel == "" {
		cfg.RecommendationModel = defaultChatModel
	}
	if cfg.TranscriptionTemperature == 0 {
		cfg.TranscriptionTemperature = 0.2
	}
	if cfg.SummaryTemperature == 0 {
		cfg.SummaryTemperature = 0.3
	}
	if cfg.EvaluationTemperature == 0 {
		cfg.EvaluationTemperature = 0.1
	}
	if cfg.RecommendationTemperature == 0 {
		cfg.RecommendationTemperature = 0.3
	}
	if cfg.SummaryMaxTokens == 0 {
		cfg.SummaryMaxTokens = defaultSummaryMaxTokens
	}
	if cfg.EvaluationMaxTokens == 0 {
		cfg.EvaluationMaxTokens = defaultEvaluationMaxTokens
	}
	if cfg.RecommendationMaxTokens == 0 {
		cfg.RecommendationMaxTokens = defaultRecommendationMaxTokens
	}
	return &Client{api: openai.NewClient(apiKey), cfg: cfg}
}

// Transcribe sends the audio file to the transcription model with the
// speaker-format prompt. Output is plain text.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (string, error) {
	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:       c.cfg.TranscriptionModel,
		FilePath:    audioPath,
		Format:      openai.AudioResponseFormatText,
		Temperature: c.cfg.TranscriptionTemperature,
		Language:    "ar",
		Prompt:      prompt.GetTranscriptionPrompt(),
	})
	if err != nil {
		return "", wrapAPIError("transcription", err)
	}
	if strings.TrimSpace(resp.Text) == "" {
		return "", fmt.Errorf("transcription returned empty text")
	}
	return resp.Text, nil
}

func (c *Client) Summarize(ctx context.Context, transcript string) (string, error) {
	return c.chat(ctx, "summary", c.cfg.SummaryModel,
		prompt.GetSummarySystemPrompt(), prompt.GetSummaryUserPrompt(transcript),
		c.cfg.SummaryTemperature, c.cfg.SummaryMaxTokens, false)
}

// Evaluate asks for a JSON-object response. When the model still returns
// something that is not valid JSON, a default-scored document carrying the
// raw text is produced instead of an error.
func (c *Client) Evaluate(ctx context.Context, transcript string) (string, error) {
	out, err := c.chat(ctx, "evaluation", c.cfg.EvaluationModel,
		prompt.GetEvaluationSystemPrompt(), prompt.GetEvaluationUserPrompt(transcript),
		c.cfg.EvaluationTemperature, c.cfg.EvaluationMaxTokens, true)
	if err != nil {
		return "", err
	}
	if !json.Valid([]byte(out)) {
		return fallbackEvaluation(out), nil
	}
	return out, nil
}

func (c *Client) Recommend(ctx context.Context, transcript, evaluationJSON string) (string, error) {
	return c.chat(ctx, "recommendation", c.cfg.RecommendationModel,
		prompt.GetRecommendationSystemPrompt(),
		prompt.GetRecommendationUserPrompt(transcript, evaluationJSON),
		c.cfg.RecommendationTemperature, c.cfg.RecommendationMaxTokens, false)
}

func (c *Client) chat(ctx context.Context, agent, model, system, user string, temperature float32, maxTokens int, jsonMode bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if isReasoningModel(model) {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", wrapAPIError(agent, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%s returned an empty completion", agent)
	}
	return resp.Choices[0].Message.Content, nil
}

func isReasoningModel(model string) bool {
	return strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") ||
		strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5")
}

func wrapAPIError(agent string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%s: %w", agent, domai.ErrQuotaExceeded)
	}
	return fmt.Errorf("%s request failed: %w", agent, err)
}

// fallbackEvaluation produces the default-scored evaluation document used
// when the model output is not parseable JSON.
func fallbackEvaluation(raw string) string {
	doc := map[string]any{
		"evaluation_summary": map[string]any{
			"overall_score":         7,
			"communication_clarity": 7,
			"problem_resolution":    7,
			"professionalism":       7,
			"customer_satisfaction": 7,
			"process_adherence":     7,
			"complaint_detected":    false,
			"issue_category":        "General Inquiry",
			"resolution_status":     "Resolved",
		},
		"detailed_analysis": raw,
		"parsing_note":      "Fallback parsing used - JSON format not detected",
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return `{"parsing_note":"Fallback parsing used - JSON format not detected"}`
	}
	return string(b)
}
