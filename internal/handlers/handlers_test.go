package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/SuhasKanwar/WhisperBox/internal/config"
	"github.com/SuhasKanwar/WhisperBox/internal/database"
	"github.com/SuhasKanwar/WhisperBox/internal/middleware"
	"github.com/SuhasKanwar/WhisperBox/internal/models"
	"github.com/SuhasKanwar/WhisperBox/internal/utils"
)

type sentEmail struct {
	To       string
	Username string
	OTP      string
}

// fakeEmailSender records outgoing verification mail instead of hitting SMTP.
type fakeEmailSender struct {
	mu   sync.Mutex
	sent []sentEmail
	fail bool
}

func (f *fakeEmailSender) SendVerificationEmail(to, username, otp string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return fmt.Errorf("smtp unavailable")
	}
	f.sent = append(f.sent, sentEmail{To: to, Username: username, OTP: otp})
	return nil
}

func (f *fakeEmailSender) last(t *testing.T) sentEmail {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:    "test-secret",
		TokenExpires: time.Hour,
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// An in-memory sqlite database exists per connection, so the pool must
	// stay at exactly one.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, *fakeEmailSender, *config.Config) {
	t.Helper()

	db := newTestDB(t)
	cfg := testConfig()
	emails := &fakeEmailSender{}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})

	authHandler := NewAuthHandler(db, cfg, emails)
	messageHandler := NewMessageHandler(db)

	api := app.Group("/api")
	api.Post("/sign-up", authHandler.SignUp)
	api.Post("/sign-in", authHandler.SignIn)
	api.Post("/verify-code", authHandler.VerifyCode)
	api.Get("/check-unique-username", authHandler.CheckUniqueUsername)
	api.Post("/send-message", messageHandler.SendMessage)

	protected := api.Group("", middleware.AuthMiddleware(cfg))
	protected.Get("/get-messages", messageHandler.GetMessages)
	protected.Delete("/delete-message/:messageID", messageHandler.DeleteMessage)
	protected.Get("/accept-messages", messageHandler.GetAcceptMessages)
	protected.Post("/accept-messages", messageHandler.UpdateAcceptMessages)

	return app, db, emails, cfg
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

// doRequestQuiet is doRequest without test assertions, safe to call from
// concurrent goroutines.
func doRequestQuiet(app *fiber.App, method, path string, body interface{}) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequest(method, path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return app.Test(req, -1)
}

func createUser(t *testing.T, db *gorm.DB, username, email string, verified, accepting bool) models.User {
	t.Helper()

	hash, err := utils.HashPassword("secret1")
	require.NoError(t, err)

	user := models.User{
		Username:            username,
		Email:               email,
		PasswordHash:        hash,
		OTP:                 "123456",
		OTPExpiry:           time.Now().Add(time.Hour),
		IsVerified:          verified,
		IsAcceptingMessages: accepting,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func tokenFor(t *testing.T, cfg *config.Config, user models.User) string {
	t.Helper()
	token, err := utils.GenerateToken(cfg.JWTSecret, user.ID, cfg.TokenExpires)
	require.NoError(t, err)
	return token
}
