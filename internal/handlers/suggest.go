package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Suggester produces a '||'-separated triple of suggested messages.
type Suggester interface {
	SuggestMessages() (string, error)
}

// SuggestHandler serves AI-generated message suggestions for the public
// profile page.
type SuggestHandler struct {
	suggester Suggester
}

// NewSuggestHandler constructs a SuggestHandler.
func NewSuggestHandler(suggester Suggester) *SuggestHandler {
	return &SuggestHandler{suggester: suggester}
}

// SuggestMessages returns three suggested open-ended questions.
func (h *SuggestHandler) SuggestMessages(c *fiber.Ctx) error {
	text, err := h.suggester.SuggestMessages()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to generate suggested messages")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Suggested messages generated successfully",
		"data": fiber.Map{
			"messages": text,
		},
	})
}
