package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"hireloop/internal/logger"
)

// maxLogLength bounds model output previews in debug logs.
const maxLogLength = 200

// Client is the LLM client for interacting with OpenRouter.
type Client struct {
	config *Config
	http   *http.Client
	models map[string]ModelConfig
	logger *zap.Logger
}

// NewClient creates a new LLM client. A nil logger disables logging.
func NewClient(config *Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	config.SetDefaults()

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		config: config,
		http: &http.Client{
			Timeout: config.Timeout,
		},
		models: DefaultModels(),
		logger: logger,
	}, nil
}

// OpenRouterRequest represents a request to OpenRouter (OpenAI-compatible).
type OpenRouterRequest struct {
	Model    string          `json:"model"`
	Messages []OpenRouterMsg `json:"messages"`
}

// OpenRouterMsg represents a message in the conversation.
type OpenRouterMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OpenRouterResponse represents a response from OpenRouter.
type OpenRouterResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// GenerateText generates a free-text completion. Used for question and
// closing generation, where the output is the question itself rather
// than JSON.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	content, err := c.chat(ctx, c.config.DefaultModel, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// GenerateStructured generates a structured output from the LLM with
// validation and retry. T is the type of the structured output; validate
// is an optional function that rejects invalid outputs, and its error is
// fed back into the next attempt's prompt.
func GenerateStructured[T any](
	client *Client,
	ctx context.Context,
	model string,
	prompt string,
	validate func(*T) error,
) (*T, error) {
	if model == "" {
		model = client.config.DefaultModel
	}

	originalPrompt := prompt
	var lastErr error

	for attempt := 1; attempt <= client.config.MaxRetries; attempt++ {
		client.logger.Debug("llm generation attempt",
			zap.Int("attempt", attempt),
			zap.String("model", model),
			zap.Int("prompt_length", len(prompt)))

		result, err := callStructured[T](client, ctx, model, prompt)
		if err != nil {
			lastErr = err
			// Network and API failures will not improve with a reworded
			// prompt.
			if llmErr, ok := err.(*LLMError); ok {
				if llmErr.Type == ErrorTypeNetwork || llmErr.Type == ErrorTypeAPI {
					return nil, err
				}
			}
			prompt = fmt.Sprintf("%s\n\nPREVIOUS ATTEMPT FAILED:\nError: %v\n\nPlease return valid JSON matching the exact structure requested.", originalPrompt, err)
			continue
		}

		if validate != nil {
			if err := validate(result); err != nil {
				lastErr = NewValidationError(err.Error(), err)
				client.logger.Warn("llm output validation failed",
					zap.Int("attempt", attempt),
					zap.Error(err))
				prompt = fmt.Sprintf("%s\n\nPREVIOUS VALIDATION ERROR:\n%v\n\nPlease fix the output to pass validation.", originalPrompt, err)
				continue
			}
		}

		return result, nil
	}

	return nil, fmt.Errorf("validation failed after %d attempts: %w", client.config.MaxRetries, lastErr)
}

// callStructured makes a single call and parses the content as JSON.
func callStructured[T any](client *Client, ctx context.Context, model, prompt string) (*T, error) {
	content, err := client.chat(ctx, model, prompt)
	if err != nil {
		return nil, err
	}

	// Some models wrap JSON in markdown code fences.
	content = cleanMarkdownCodeBlocks(content)

	var result T
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, NewParseError(content, err)
	}

	return &result, nil
}

// chat makes one HTTP call to the chat completions endpoint and returns
// the raw message content.
func (c *Client) chat(ctx context.Context, model, prompt string) (string, error) {
	reqBody := OpenRouterRequest{
		Model: model,
		Messages: []OpenRouterMsg{
			{Role: "user", Content: prompt},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := c.config.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.Warn("openrouter request failed",
			zap.Error(err),
			zap.Duration("duration", duration))
		return "", NewNetworkError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	c.logger.Debug("openrouter request completed",
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration))

	if resp.StatusCode != http.StatusOK {
		var errBody bytes.Buffer
		if _, err := errBody.ReadFrom(resp.Body); err != nil {
			return "", NewAPIError(resp.StatusCode, fmt.Sprintf("status %d (failed to read error body)", resp.StatusCode))
		}
		return "", NewAPIError(resp.StatusCode, errBody.String())
	}

	var chatResp OpenRouterResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if chatResp.Error != nil {
		return "", NewAPIError(0, chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", NewAPIError(0, "no choices in response")
	}

	content := chatResp.Choices[0].Message.Content
	c.logger.Debug("openrouter response received",
		zap.String("model", model),
		zap.String("response_preview", logger.TruncateForLog(content, maxLogLength)))

	return content, nil
}

// cleanMarkdownCodeBlocks removes markdown code block wrappers from JSON.
// Some models (especially Gemini) wrap JSON in ```json...```.
func cleanMarkdownCodeBlocks(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSpace(content)
	}

	if strings.HasSuffix(content, "```") {
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	return content
}
