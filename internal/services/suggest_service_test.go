package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestMessagesParsesCompletion(t *testing.T) {
	var gotAuth string
	var gotModel string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotModel = req.Model

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "a||b||c"}},
			},
		})
	}))
	defer server.Close()

	service := NewSuggestService("test-key")
	service.baseURL = server.URL

	text, err := service.SuggestMessages()
	require.NoError(t, err)
	assert.Equal(t, "a||b||c", text)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, suggestModel, gotModel)
}

func TestSuggestMessagesUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	service := NewSuggestService("test-key")
	service.baseURL = server.URL

	_, err := service.SuggestMessages()
	assert.Error(t, err)
}

func TestSuggestMessagesEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	service := NewSuggestService("test-key")
	service.baseURL = server.URL

	_, err := service.SuggestMessages()
	assert.Error(t, err)
}

func TestSuggestMessagesFallbackWithoutKey(t *testing.T) {
	service := NewSuggestService("")

	text, err := service.SuggestMessages()
	require.NoError(t, err)
	assert.Len(t, strings.Split(text, "||"), 3)
}
