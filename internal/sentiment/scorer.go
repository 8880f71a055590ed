package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// BatchLLMScorer rescores a batch of headlines; results are keyed by input index.
type BatchLLMScorer interface {
	ScoreBatch(ctx context.Context, titles []string) (map[int]float64, error)
}

type Scorer struct {
	lexicon *LexiconScorer
	llm     BatchLLMScorer
}

func NewScorer(llm BatchLLMScorer) *Scorer {
	return &Scorer{lexicon: NewLexiconScorer(), llm: llm}
}

// Score returns one polarity per title. LLM scores replace lexicon scores only where present.
func (s *Scorer) Score(ctx context.Context, titles []string) []float64 {
	out := make([]float64, len(titles))
	for i, title := range titles {
		out[i] = s.lexicon.Polarity(title)
	}
	if s.llm == nil || len(titles) == 0 {
		return out
	}

	scored, err := s.llm.ScoreBatch(ctx, titles)
	if err != nil {
		log.Printf("llm headline scoring failed, keeping lexicon scores: %v", err)
		return out
	}
	for i, v := range scored {
		if i >= 0 && i < len(out) {
			out[i] = clamp(v, -1, 1)
		}
	}
	return out
}

type openAIChatClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

type OpenAIScorer struct {
	client openAIChatClient
	model  string
}

// NewOpenAIScorer returns nil when no API key is configured.
func NewOpenAIScorer(apiKey string, model string) *OpenAIScorer {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil
	}
	if strings.TrimSpace(model) == "" {
		model = "gpt-4o-mini"
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIScorer{
		client: &openAIClient{client: client},
		model:  model,
	}
}

func (s *OpenAIScorer) ScoreBatch(ctx context.Context, titles []string) (map[int]float64, error) {
	if s == nil || s.client == nil || len(titles) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	for i, title := range titles {
		sb.WriteString(fmt.Sprintf("%d: %s\n", i, strings.TrimSpace(title)))
	}

	systemPrompt := "You score equity news headlines for investor sentiment. Return ONLY a JSON array. " +
		"Each object requires: id (int, the line number given), polarity (-1..1). No markdown."

	completion, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage("Headlines:\n" + sb.String()),
		},
	})
	if err != nil {
		return nil, err
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("empty scorer completion")
	}

	raw := trimCodeFence(completion.Choices[0].Message.Content)
	var parsed []struct {
		ID       int     `json:"id"`
		Polarity float64 `json:"polarity"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("parse scorer json: %w", err)
	}

	out := make(map[int]float64, len(parsed))
	for _, row := range parsed {
		if row.ID < 0 || row.ID >= len(titles) {
			continue
		}
		out[row.ID] = clamp(row.Polarity, -1, 1)
	}
	return out, nil
}

func trimCodeFence(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "```") {
		v = strings.TrimPrefix(v, "```")
		v = strings.TrimSpace(v)
		if strings.HasPrefix(strings.ToLower(v), "json") {
			v = strings.TrimSpace(v[4:])
		}
		v = strings.TrimSuffix(v, "```")
		v = strings.TrimSpace(v)
	}
	return v
}

type openAIClient struct {
	client openai.Client
}

func (c *openAIClient) CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
