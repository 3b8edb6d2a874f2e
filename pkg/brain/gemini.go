package brain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lakshya-inakhiya/go-ash/internal/httpc"
)

const providerGemini = "gemini"

// Gemini talks to the Google Gemini generateContent API over plain
// REST. No SDK: the robot needs one endpoint and a key.
type Gemini struct {
	baseURL string
	apiKey  string
	config  *Config
	http    *http.Client
	logger  *slog.Logger

	// history is the rolling conversation window, oldest first.
	history []Message
}

// NewGemini creates a Gemini-backed provider.
func NewGemini(opts ...Option) (*Gemini, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = httpc.NewClient(cfg.Timeout)
	}

	return &Gemini{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		config:  cfg,
		http:    hc,
		logger:  cfg.Logger.With("component", "brain.gemini"),
	}, nil
}

// Ask sends the prompt with the rolling history and returns the reply.
// The reply is always speakable: on failure it is a canned apology and
// the error carries the cause.
func (g *Gemini) Ask(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return ReplyDidNotCatch, nil
	}

	start := time.Now()

	contents := make([]geminiContent, 0, len(g.history)+1)
	for _, m := range g.history {
		contents = append(contents, geminiContent{
			Role:  string(m.Role),
			Parts: []geminiPart{{Text: m.Text}},
		})
	}
	contents = append(contents, geminiContent{
		Role:  string(RoleUser),
		Parts: []geminiPart{{Text: prompt}},
	})

	payload := geminiRequest{
		Contents: contents,
		GenerationConfig: geminiGenConfig{
			Temperature:     g.config.Temperature,
			MaxOutputTokens: g.config.MaxTokens,
		},
	}
	if g.config.SystemInstruction != "" {
		payload.SystemInstruction = &geminiContent{
			Parts: []geminiPart{{Text: g.config.SystemInstruction}},
		}
	}

	answer, err := g.generate(ctx, payload)
	if err != nil {
		g.logger.Warn("model call failed", "error", err)
		return ReplyTroubleThinking, err
	}

	answer = trimAnswer(answer)

	g.history = append(g.history,
		Message{Role: RoleUser, Text: prompt},
		Message{Role: RoleModel, Text: answer},
	)
	g.trimHistory()

	g.logger.Debug("model replied",
		"chars", len(answer),
		"history", len(g.history),
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return answer, nil
}

// generate performs one generateContent call.
func (g *Gemini) generate(ctx context.Context, payload geminiRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", WrapError(providerGemini, fmt.Errorf("marshal payload: %w", err))
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.config.Model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", WrapError(providerGemini, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return "", WrapError(providerGemini, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", g.parseError(resp)
	}

	var result geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", WrapError(providerGemini, fmt.Errorf("decode response: %w", err))
	}
	if result.Error.Message != "" {
		return "", &APIError{
			StatusCode: result.Error.Code,
			Message:    result.Error.Message,
			Status:     result.Error.Status,
		}
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", WrapError(providerGemini, ErrEmptyReply)
	}

	return strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text), nil
}

// Reset clears the conversation history.
func (g *Gemini) Reset() {
	g.history = nil
	g.logger.Info("conversation history reset")
}

// History returns a copy of the rolling conversation window.
func (g *Gemini) History() []Message {
	out := make([]Message, len(g.history))
	copy(out, g.history)
	return out
}

// Health checks key validity by fetching the model's metadata.
func (g *Gemini) Health(ctx context.Context) error {
	url := fmt.Sprintf("%s/models/%s?key=%s", g.baseURL, g.config.Model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return WrapError(providerGemini, err)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return WrapError(providerGemini, fmt.Errorf("health check: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return g.parseError(resp)
	}
	return nil
}

// Close releases resources.
func (g *Gemini) Close() error {
	g.http.CloseIdleConnections()
	return nil
}

// trimHistory drops the oldest messages once the window overflows. The
// window must keep starting with a user message, so the cut lands on an
// exchange boundary.
func (g *Gemini) trimHistory() {
	limit := g.config.MaxHistory
	if limit <= 0 || len(g.history) <= limit {
		return
	}
	drop := len(g.history) - limit
	if g.history[drop].Role == RoleModel {
		drop++
	}
	g.history = g.history[drop:]
}

// parseError reads and parses an error response.
func (g *Gemini) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error geminiError `json:"error"`
	}

	message := strings.TrimSpace(string(body))
	status := ""
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
		status = errResp.Error.Status
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Status:     status,
	}
}

// Wire types for the generateContent endpoint.
type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error geminiError `json:"error"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Verify Gemini implements Provider at compile time.
var _ Provider = (*Gemini)(nil)
