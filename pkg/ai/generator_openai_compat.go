package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// OpenAICompatGenerator calls any OpenAI-compatible /v1/chat/completions
// endpoint. Works with the hosted OpenAI API as well as vLLM, LiteLLM,
// OpenRouter and other self-hosted gateways.
type OpenAICompatGenerator struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenAICompatGenerator builds an OpenAI-compatible TextGenerator.
// baseURL should include the /v1 prefix, e.g. "https://api.openai.com/v1".
// apiKey may be empty; the request is still sent and the service's auth
// rejection surfaces as a KindAuth error on first use.
// The client carries no timeout: a request hangs until the server answers or
// the caller's context is cancelled.
func NewOpenAICompatGenerator(baseURL, apiKey, model string) *OpenAICompatGenerator {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return &OpenAICompatGenerator{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(apiKey),
		model:      strings.TrimSpace(model),
		httpClient: &http.Client{},
	}
}

// Complete implements TextGenerator using the chat completions API. The full
// transcript is forwarded as-is; the single top choice's text is returned.
func (g *OpenAICompatGenerator) Complete(ctx context.Context, turns []Turn) (string, error) {
	if g.model == "" {
		return "", &Error{Kind: KindUnknown, Message: "generation model required"}
	}

	reqBody := oaiChatRequest{
		Model:    g.model,
		Messages: turns,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", &Error{Kind: KindUnknown, Message: "encode request", Err: err}
	}

	url := g.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &Error{Kind: KindUnknown, Message: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", &Error{Kind: KindNetwork, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp oaiErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		msg := errResp.Error.Message
		if msg == "" {
			msg = resp.Status
		}
		return "", &Error{Kind: kindForStatus(resp.StatusCode), Message: msg}
	}

	var chatResp oaiChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", &Error{Kind: KindMalformedResponse, Message: "decode response", Err: err}
	}
	if len(chatResp.Choices) == 0 {
		return "", &Error{Kind: KindMalformedResponse, Message: "response has no choices"}
	}
	text := chatResp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", &Error{Kind: KindMalformedResponse, Message: "response has empty content"}
	}
	return text, nil
}

func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusTooManyRequests:
		return KindRateLimit
	default:
		return KindUnknown
	}
}

// OpenAI-compatible request/response types.

type oaiChatRequest struct {
	Model    string `json:"model"`
	Messages []Turn `json:"messages"`
}

type oaiChatResponse struct {
	Choices []struct {
		Message Turn `json:"message"`
	} `json:"choices"`
}

type oaiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
