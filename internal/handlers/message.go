package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SuhasKanwar/WhisperBox/internal/middleware"
	"github.com/SuhasKanwar/WhisperBox/internal/models"
	"github.com/SuhasKanwar/WhisperBox/internal/utils"
)

// MessageHandler manages anonymous message intake and the owner's inbox.
type MessageHandler struct {
	db *gorm.DB
}

// NewMessageHandler constructs a MessageHandler.
func NewMessageHandler(db *gorm.DB) *MessageHandler {
	return &MessageHandler{db: db}
}

type sendMessageRequest struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// SendMessage appends an anonymous message to the target user's inbox.
// The sender is never authenticated and no sender identity is recorded.
// The append is a single INSERT, so concurrent senders cannot lose writes.
func (h *MessageHandler) SendMessage(c *fiber.Ctx) error {
	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := utils.ValidateMessageContent(req.Message); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var user models.User
	if err := h.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}

	if !user.IsAcceptingMessages {
		return fiber.NewError(fiber.StatusForbidden, "User is not accepting messages")
	}

	message := models.Message{
		UserID:  user.ID,
		Content: req.Message,
	}

	if err := h.db.Create(&message).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Message sent successfully",
	})
}

// GetMessages returns the authenticated owner's messages, newest first.
func (h *MessageHandler) GetMessages(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "User not authenticated")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}

	var messages []models.Message
	if err := h.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&messages).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Messages retrieved",
		"messages": messages,
	})
}

// DeleteMessage removes a single message from the owner's inbox. The delete is
// scoped by owner id, so another user's message id can never match.
func (h *MessageHandler) DeleteMessage(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "User not authenticated")
	}

	messageID, err := uuid.Parse(c.Params("messageID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid message id")
	}

	result := h.db.Where("id = ? AND user_id = ?", messageID, userID).Delete(&models.Message{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Message not found or already deleted")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Message deleted",
	})
}

type acceptMessagesRequest struct {
	AcceptMessages bool `json:"acceptMessages"`
}

// UpdateAcceptMessages flips the owner's acceptance flag. Setting the same
// value twice is not an error.
func (h *MessageHandler) UpdateAcceptMessages(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "User not authenticated")
	}

	var req acceptMessagesRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result := h.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_accepting_messages", req.AcceptMessages)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Message acceptance status updated successfully",
	})
}

// GetAcceptMessages reports the owner's current acceptance flag.
func (h *MessageHandler) GetAcceptMessages(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "User not authenticated")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User found",
		"data": fiber.Map{
			"acceptMessages": user.IsAcceptingMessages,
		},
	})
}
