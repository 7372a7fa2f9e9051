package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSuggester struct {
	text string
	err  error
}

func (f *fakeSuggester) SuggestMessages() (string, error) {
	return f.text, f.err
}

func newSuggestApp(suggester Suggester) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	handler := NewSuggestHandler(suggester)
	app.Get("/api/suggest-messages", handler.SuggestMessages)
	app.Post("/api/suggest-messages", handler.SuggestMessages)
	return app
}

func TestSuggestMessages(t *testing.T) {
	app := newSuggestApp(&fakeSuggester{text: "one||two||three"})

	resp, body := doRequest(t, app, http.MethodGet, "/api/suggest-messages", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Suggested messages generated successfully", body["message"])

	data := body["data"].(map[string]interface{})
	text := data["messages"].(string)
	assert.Len(t, strings.Split(text, "||"), 3)
}

func TestSuggestMessagesFailure(t *testing.T) {
	app := newSuggestApp(&fakeSuggester{err: fmt.Errorf("upstream down")})

	resp, body := doRequest(t, app, http.MethodPost, "/api/suggest-messages", nil, "")
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Failed to generate suggested messages", body["message"])
}
