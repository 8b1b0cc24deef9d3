package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"tabwise/internal/config"
	"tabwise/ports"
)

// OpenAIClient implements ports.NarrativeClient against an OpenAI-compatible
// chat completions endpoint
type OpenAIClient struct {
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	Temperature float64
	Tracker     *CostTracker
}

// NewClient creates a client from narrative config
func NewClient(cfg config.NarrativeConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing API key")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIClient{
		APIKey:      cfg.APIKey,
		BaseURL:     baseURL,
		Timeout:     cfg.Timeout,
		Temperature: cfg.Temperature,
		Tracker:     &CostTracker{},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
	StreamOpts  *streamOpts   `json:"stream_options,omitempty"`
}

type streamOpts struct {
	IncludeUsage bool `json:"include_usage"`
}

// Complete performs a blocking chat completion
func (c *OpenAIClient) Complete(ctx context.Context, req ports.NarrativeRequest) (string, *ports.NarrativeUsage, error) {
	resp, err := c.send(ctx, req, false)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("narrative request failed: status %d: %s", resp.StatusCode, truncateBody(raw))
	}

	content := gjson.GetBytes(raw, "choices.0.message.content").String()
	if content == "" {
		return "", nil, fmt.Errorf("narrative response has no content")
	}

	usage := c.usageFrom(req.Model,
		int(gjson.GetBytes(raw, "usage.prompt_tokens").Int()),
		int(gjson.GetBytes(raw, "usage.completion_tokens").Int()))
	return content, usage, nil
}

// Stream performs a streaming chat completion, delivering delta chunks to
// onChunk as they arrive. Server-sent events are parsed line by line; the
// final usage frame (when the server sends one) feeds cost tracking.
func (c *OpenAIClient) Stream(ctx context.Context, req ports.NarrativeRequest, onChunk ports.ChunkFunc) (*ports.NarrativeUsage, error) {
	resp, err := c.send(ctx, req, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("narrative stream failed: status %d: %s", resp.StatusCode, truncateBody(raw))
	}

	inputTokens, outputTokens := 0, 0
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" || payload == "[DONE]" {
			continue
		}

		if delta := gjson.Get(payload, "choices.0.delta.content"); delta.Exists() && delta.String() != "" {
			onChunk(delta.String())
		}
		if usage := gjson.Get(payload, "usage"); usage.Exists() {
			inputTokens = int(usage.Get("prompt_tokens").Int())
			outputTokens = int(usage.Get("completion_tokens").Int())
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("narrative stream read: %w", err)
	}

	return c.usageFrom(req.Model, inputTokens, outputTokens), nil
}

func (c *OpenAIClient) send(ctx context.Context, req ports.NarrativeRequest, stream bool) (*http.Response, error) {
	if strings.TrimSpace(req.Model) == "" {
		return nil, fmt.Errorf("missing model")
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	body := chatRequest{
		Model: req.Model,
		Messages: []chatMessage{
			{Role: "user", Content: req.Prompt},
		},
		Temperature: c.Temperature,
		MaxTokens:   maxTokens,
		Stream:      stream,
	}
	if stream {
		body.StreamOpts = &streamOpts{IncludeUsage: true}
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	client := &http.Client{Timeout: c.Timeout}
	url := strings.TrimRight(c.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("narrative request failed: %w", err)
	}
	return resp, nil
}

func (c *OpenAIClient) usageFrom(model string, inputTokens, outputTokens int) *ports.NarrativeUsage {
	usage := &ports.NarrativeUsage{
		Model:        model,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		CostUSD:      estimateCost(model, inputTokens, outputTokens),
	}
	if c.Tracker != nil {
		c.Tracker.Record(*usage)
	}
	return usage
}

func truncateBody(raw []byte) string {
	s := string(raw)
	if len(s) > 300 {
		return s[:300] + "..."
	}
	return s
}
