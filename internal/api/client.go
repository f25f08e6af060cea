package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/bz888/deepcli/internal/logger"
)

// Client represents a client for the API
type Client struct {
	base    *url.URL
	http    *http.Client
	chatURL *url.URL
}

// ClientConfig holds the configuration for the client
type ClientConfig struct {
	Scheme   string
	Host     string
	ChatPath string
}

// NewClient creates a new API client with configurable base URL and endpoint
func NewClient(config ClientConfig) *Client {
	baseURL := &url.URL{Scheme: config.Scheme, Host: config.Host}
	return &Client{
		base:    baseURL,
		http:    &http.Client{},
		chatURL: baseURL.ResolveReference(&url.URL{Path: config.ChatPath}),
	}
}

func (c *Client) GetChatURL() string {
	return c.chatURL.String()
}

var deepSeekConfig = ClientConfig{
	Scheme:   "https",
	Host:     "api.deepseek.com",
	ChatPath: "/chat/completions",
}

// DeepSeekClient represents a client for the DeepSeek chat completions API
type DeepSeekClient struct {
	Client
	apiKey string
}

type DeepSeekClientInterface interface {
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}

// NewDeepSeekClient creates a new DeepSeek API client
func NewDeepSeekClient(apiKey string) *DeepSeekClient {
	return NewDeepSeekClientWithConfig(apiKey, deepSeekConfig)
}

// NewDeepSeekClientWithConfig creates a client against a non-default host.
func NewDeepSeekClientWithConfig(apiKey string, config ClientConfig) *DeepSeekClient {
	return &DeepSeekClient{
		Client: *NewClient(config),
		apiKey: apiKey,
	}
}

// Chat performs one blocking exchange. No retries; the first failure is
// surfaced to the caller.
func (c *DeepSeekClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	localLogger := logger.New("deepseek chat")

	bts, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.GetChatURL(), bytes.NewBuffer(bts))
	if err != nil {
		localLogger.Error().Err(err).Msg("failed to create chat request")
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer "+c.apiKey)

	localLogger.Debug().Str("model", req.Model).Int("messages", len(req.Messages)).Msg("sending chat request")

	response, err := c.http.Do(request)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		message := decodeErrorMessage(response.Body)
		localLogger.Error().Int("status", response.StatusCode).Str("message", message).Msg("chat request rejected")
		return nil, &TransportError{StatusCode: response.StatusCode, Message: message}
	}

	var resp ChatResponse
	if err := json.NewDecoder(response.Body).Decode(&resp); err != nil {
		localLogger.Error().Err(err).Msg("failed to decode chat response")
		return nil, &TransportError{StatusCode: response.StatusCode, Message: "malformed response body"}
	}
	if len(resp.Choices) == 0 {
		return nil, &TransportError{StatusCode: response.StatusCode, Message: "response contained no choices"}
	}
	return &resp, nil
}

func decodeErrorMessage(body io.Reader) string {
	var errResp map[string]interface{}
	if err := json.NewDecoder(body).Decode(&errResp); err != nil {
		return "unknown error"
	}
	if msg, ok := errResp["error"].(map[string]interface{}); ok {
		if message, exists := msg["message"].(string); exists {
			return message
		}
	}
	return "unknown error"
}
