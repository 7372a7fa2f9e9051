package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	defaultGroqBaseURL = "https://api.groq.com/openai/v1"
	suggestModel       = "gemma2-9b-it"

	suggestPrompt = "Create a list of three open-ended and engaging questions formatted as a single string. " +
		"Each question should be separated by '||'. These questions are for an anonymous social messaging " +
		"platform, like Qooh.me, and should be suitable for a diverse audience. Avoid personal or sensitive " +
		"topics, focusing instead on universal themes that encourage friendly interaction. For example, your " +
		"output should be structured like this: message1||message2||message3"

	// Served when no API key is configured so the endpoint stays usable in
	// development.
	fallbackSuggestions = "What's a hobby you've recently started?||" +
		"If you could have dinner with any historical figure, who would it be?||" +
		"What's a simple thing that makes your day better?"
)

// SuggestService generates message suggestions through the Groq chat
// completions API.
type SuggestService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewSuggestService creates a new SuggestService.
func NewSuggestService(apiKey string) *SuggestService {
	return &SuggestService{
		apiKey:     apiKey,
		baseURL:    defaultGroqBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// SuggestMessages returns a '||'-separated triple of suggested questions.
func (s *SuggestService) SuggestMessages() (string, error) {
	if s.apiKey == "" {
		log.Println("[Suggest] GROQ_API_KEY not configured, serving fallback suggestions")
		return fallbackSuggestions, nil
	}

	payload := chatCompletionRequest{
		Model: suggestModel,
		Messages: []chatMessage{
			{Role: "user", Content: suggestPrompt},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Printf("[Suggest] Request failed: %v", err)
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Suggest] Unexpected status %d: %s", resp.StatusCode, raw)
		return "", fmt.Errorf("suggestion service returned status %d", resp.StatusCode)
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}

	if parsed.Error != nil {
		return "", fmt.Errorf("suggestion service error: %s", parsed.Error.Message)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("suggestion service returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}
