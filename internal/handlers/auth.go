package handlers

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/SuhasKanwar/WhisperBox/internal/config"
	"github.com/SuhasKanwar/WhisperBox/internal/models"
	"github.com/SuhasKanwar/WhisperBox/internal/services"
	"github.com/SuhasKanwar/WhisperBox/internal/utils"
)

const otpTTL = time.Hour

// AuthHandler bundles dependencies for sign-up and verification endpoints.
type AuthHandler struct {
	db    *gorm.DB
	cfg   *config.Config
	email services.EmailSender
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, email services.EmailSender) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, email: email}
}

type signUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a new user and sends a verification code.
//
// An unverified record holding the same email is reclaimed: its code, expiry
// and password hash are replaced and the same row is reused. If the email
// delivery fails the row still persists, so a retried sign-up for the same
// address goes through the reclaim path instead of erroring.
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req signUpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}

	if err := utils.ValidateUsername(req.Username); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := utils.ValidateEmail(req.Email); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var existingVerified models.User
	err := h.db.Where("username = ? AND is_verified = ?", req.Username, true).First(&existingVerified).Error
	if err == nil {
		return fiber.NewError(fiber.StatusBadRequest, "Username is already taken")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	otp, err := generateOTP()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate verification code")
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	var existingByEmail models.User
	err = h.db.Where("email = ?", req.Email).First(&existingByEmail).Error
	switch {
	case err == nil:
		if existingByEmail.IsVerified {
			return fiber.NewError(fiber.StatusBadRequest, "Email is already registered")
		}

		updates := map[string]interface{}{
			"username":      req.Username,
			"password_hash": passwordHash,
			"otp":           otp,
			"otp_expiry":    time.Now().Add(otpTTL),
		}
		if err := h.db.Model(&existingByEmail).Updates(updates).Error; err != nil {
			return err
		}
	case err == gorm.ErrRecordNotFound:
		user := models.User{
			Username:            req.Username,
			Email:               req.Email,
			PasswordHash:        passwordHash,
			OTP:                 otp,
			OTPExpiry:           time.Now().Add(otpTTL),
			IsVerified:          false,
			IsAcceptingMessages: true,
		}
		if err := h.db.Create(&user).Error; err != nil {
			return err
		}
	default:
		return err
	}

	if err := h.email.SendVerificationEmail(req.Email, req.Username, otp); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to send verification email")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User Registered Successfully. Please verify your email.",
	})
}

type verifyCodeRequest struct {
	Username string `json:"username"`
	OTP      string `json:"otp"`
}

// VerifyCode validates a submitted one-time code and marks the user verified.
// Expiry is checked before the code itself, so an expired-and-wrong code
// always reports expiry.
func (h *AuthHandler) VerifyCode(c *fiber.Ctx) error {
	var req verifyCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := utils.ValidateOTP(req.OTP); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	// The username may arrive still URL-encoded from the verification page.
	username := req.Username
	if decoded, err := url.PathUnescape(username); err == nil {
		username = decoded
	}

	var user models.User
	if err := h.db.Where("username = ?", username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}

	if !time.Now().Before(user.OTPExpiry) {
		return fiber.NewError(fiber.StatusBadRequest, "OTP has expired")
	}

	if user.OTP != req.OTP {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid OTP")
	}

	if err := h.db.Model(&user).Update("is_verified", true).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Account verified successfully",
	})
}

// CheckUniqueUsername reports whether a username is still claimable.
// Only verified users hold a username permanently.
func (h *AuthHandler) CheckUniqueUsername(c *fiber.Ctx) error {
	username := c.Query("username")

	if err := utils.ValidateUsername(username); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var existing models.User
	err := h.db.Where("username = ? AND is_verified = ?", username, true).First(&existing).Error
	if err == nil {
		return fiber.NewError(fiber.StatusBadRequest, "Username already exists")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Username is unique",
	})
}

type signInRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// SignIn authenticates a verified user by username or email and issues a
// session token.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req signInRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Identifier == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}

	var user models.User
	err := h.db.Where("username = ? OR email = ?", req.Identifier, req.Identifier).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
		return err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	if !user.IsVerified {
		return fiber.NewError(fiber.StatusForbidden, "Please verify your account before signing in")
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Signed in successfully",
		"token":   token,
		"user": fiber.Map{
			"id":                    user.ID,
			"username":              user.Username,
			"email":                 user.Email,
			"is_accepting_messages": user.IsAcceptingMessages,
		},
	})
}

func generateOTP() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
