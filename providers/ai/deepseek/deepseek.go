package deepseek

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/leofalp/toolagent/providers/ai"
)

const (
	DefaultBaseURL = "https://api.deepseek.com"

	ModelChat     = "deepseek-chat"
	ModelReasoner = "deepseek-reasoner"
)

// ErrMissingAPIKey is returned by NewDeepSeekProvider when Config.APIKey is empty.
var ErrMissingAPIKey = errors.New("deepseek: API key is not set")

// Config configures a DeepSeekProvider. Only APIKey is required.
type Config struct {
	APIKey string

	// BaseURL defaults to DefaultBaseURL. Any OpenAI-compatible endpoint works.
	BaseURL string

	// Model is used when a request does not name one. Defaults to ModelChat.
	Model string

	HTTPClient *http.Client

	// MaxRetries is the number of SDK retries on retryable HTTP failures.
	// Zero disables retries.
	MaxRetries int
}

// DeepSeekProvider implements ai.Provider and ai.StreamProvider over the
// DeepSeek chat completions API.
type DeepSeekProvider struct {
	client  oai.Client
	baseURL string
	model   string
}

var _ ai.StreamProvider = (*DeepSeekProvider)(nil)

// NewDeepSeekProvider creates a provider from cfg.
func NewDeepSeekProvider(cfg Config) (*DeepSeekProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = ModelChat
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &DeepSeekProvider{
		client:  oai.NewClient(reqOpts...),
		baseURL: baseURL,
		model:   model,
	}, nil
}

// Model returns the default model.
func (p *DeepSeekProvider) Model() string {
	return p.model
}

// BaseURL returns the API endpoint requests are sent to.
func (p *DeepSeekProvider) BaseURL() string {
	return p.baseURL
}

// SendMessage implements ai.Provider. API errors wrap *openai.Error, so
// callers can inspect the status code with errors.As.
func (p *DeepSeekProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	params, err := p.buildParams(request)
	if err != nil {
		return nil, fmt.Errorf("deepseek: build params: %w", err)
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("deepseek: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("deepseek: empty choices in response")
	}

	return responseToGeneric(resp), nil
}
