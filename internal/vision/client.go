package vision

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fixmyblock/fixmyblock-backend/internal/config"
)

// Provider is one OpenAI-compatible chat completions endpoint.
type Provider struct {
	Name   string
	APIURL string
	APIKey string
	Model  string
}

// Client calls vision-capable chat models. Providers are tried in order; the
// first successful parse wins.
type Client struct {
	providers []Provider
	timeout   time.Duration
}

func NewClient(cfg *config.Config) *Client {
	var providers []Provider
	if cfg.OpenAIAPIKey != "" {
		providers = append(providers, Provider{
			Name: "openai", APIURL: cfg.OpenAIAPIURL, APIKey: cfg.OpenAIAPIKey, Model: cfg.OpenAIVisionModel,
		})
	}
	if cfg.GLMAPIKey != "" {
		providers = append(providers, Provider{
			Name: "glm", APIURL: cfg.GLMAPIURL, APIKey: cfg.GLMAPIKey, Model: cfg.GLMVisionModel,
		})
	}

	timeout := cfg.AITimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{providers: providers, timeout: timeout}
}

func (c *Client) Available() bool {
	return len(c.providers) > 0
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type chatContentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content interface{} `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// AnalyzeImage sends a prompt plus one image to the first available provider
// and returns the model's text content. imageRef may be a public URL, a data
// URI, or bare base64 (which gets a jpeg data-URI prefix).
func (c *Client) AnalyzeImage(prompt, imageRef string) (string, error) {
	if len(c.providers) == 0 {
		return "", errors.New("no AI provider configured")
	}

	imgURL := strings.TrimSpace(imageRef)
	if imgURL == "" {
		return "", errors.New("image reference is required")
	}
	if !strings.HasPrefix(imgURL, "http") && !strings.HasPrefix(imgURL, "data:") {
		imgURL = "data:image/jpeg;base64," + imgURL
	}

	messages := []chatMessage{
		{Role: "user", Content: []chatContentPart{
			{Type: "text", Text: prompt},
			{Type: "image_url", ImageURL: &chatImageURL{URL: imgURL, Detail: "auto"}},
		}},
	}

	var lastErr error
	for _, p := range c.providers {
		content, err := c.complete(p, messages)
		if err == nil {
			return content, nil
		}
		lastErr = fmt.Errorf("%s: %w", p.Name, err)
	}
	return "", lastErr
}

func (c *Client) complete(p Provider, messages []chatMessage) (string, error) {
	reqBody := chatRequest{Model: p.Model, Messages: messages, MaxTokens: 300}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, p.APIURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	client := &http.Client{Timeout: c.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("AI API error: status %d", resp.StatusCode)
	}

	var completion chatResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("no response from AI")
	}

	switch v := completion.Choices[0].Message.Content.(type) {
	case string:
		return v, nil
	default:
		contentBytes, err := json.Marshal(v)
		if err != nil {
			return "", errors.New("failed to extract content from AI response")
		}
		return string(contentBytes), nil
	}
}
