package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/qiaoxuchen/auto-report-agent/internal/ports"
)

// Config captures the details required to reach the summarization endpoint.
type Config struct {
	APIKey   string        `yaml:"api_key"`
	Model    string        `yaml:"model"`
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

func (c *Config) ApplyDefaults() {
	if c.Model == "" {
		c.Model = "glm-4-plus"
	}
	if c.Endpoint == "" {
		c.Endpoint = "https://open.bigmodel.cn/api/paas/v4/chat/completions"
	}
	if c.Timeout <= 0 {
		c.Timeout = 120 * time.Second
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// HTTPSummarizer calls a chat-completions style endpoint and classifies every
// failure as either a transport fault or a parse fault, never an untyped error.
type HTTPSummarizer struct {
	cfg    Config
	client *http.Client
}

func New(cfg Config) *HTTPSummarizer {
	cfg.ApplyDefaults()
	return &HTTPSummarizer{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (s *HTTPSummarizer) Summarize(ctx context.Context, prompt string) ports.SummaryResult {
	body, err := json.Marshal(chatRequest{
		Model:    s.cfg.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return fault(ports.OutcomeParseFault, fmt.Errorf("marshal request: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fault(ports.OutcomeTransportFault, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fault(ports.OutcomeTransportFault, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fault(ports.OutcomeTransportFault, fmt.Errorf("unexpected status %s", resp.Status))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fault(ports.OutcomeParseFault, fmt.Errorf("decode response: %w", err))
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return fault(ports.OutcomeParseFault, fmt.Errorf("response missing choices[0].message.content"))
	}

	return ports.SummaryResult{Outcome: ports.OutcomeOK, Text: parsed.Choices[0].Message.Content}
}

func fault(o ports.Outcome, err error) ports.SummaryResult {
	return ports.SummaryResult{Outcome: o, Err: err}
}

var _ ports.Summarizer = (*HTTPSummarizer)(nil)
