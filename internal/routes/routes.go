package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/SuhasKanwar/WhisperBox/internal/config"
	"github.com/SuhasKanwar/WhisperBox/internal/handlers"
	"github.com/SuhasKanwar/WhisperBox/internal/middleware"
	"github.com/SuhasKanwar/WhisperBox/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	emailService := services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom)
	suggestService := services.NewSuggestService(cfg.GroqAPIKey)

	authHandler := handlers.NewAuthHandler(db, cfg, emailService)
	messageHandler := handlers.NewMessageHandler(db)
	suggestHandler := handlers.NewSuggestHandler(suggestService)

	limiter := middleware.NewRateLimiter(cfg.RateLimitWindow, cfg.RateLimitMax)
	limited := middleware.RateLimitMiddleware(limiter)

	api := app.Group("/api")

	// Public routes
	api.Post("/sign-up", limited, authHandler.SignUp)
	api.Post("/sign-in", authHandler.SignIn)
	api.Post("/verify-code", authHandler.VerifyCode)
	api.Get("/check-unique-username", authHandler.CheckUniqueUsername)
	api.Post("/send-message", limited, messageHandler.SendMessage)
	api.Get("/suggest-messages", suggestHandler.SuggestMessages)
	api.Post("/suggest-messages", suggestHandler.SuggestMessages)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/get-messages", messageHandler.GetMessages)
	protected.Delete("/delete-message/:messageID", messageHandler.DeleteMessage)
	protected.Get("/accept-messages", messageHandler.GetAcceptMessages)
	protected.Post("/accept-messages", messageHandler.UpdateAcceptMessages)
}
