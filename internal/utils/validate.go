package utils

import (
	"errors"
	"regexp"
	"unicode/utf8"
)

var (
	emailPattern = regexp.MustCompile(`.+@.+\..+`)
	otpPattern   = regexp.MustCompile(`^[0-9]{6}$`)
)

// ValidateUsername checks the 2-20 character constraint.
func ValidateUsername(username string) error {
	length := utf8.RuneCountInString(username)
	if length < 2 {
		return errors.New("Username must be atleast 2 characters")
	}
	if length > 20 {
		return errors.New("Username must not be more than 20 characters")
	}
	return nil
}

// ValidateEmail checks the address against a basic shape pattern.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return errors.New("Please use a valid email address")
	}
	return nil
}

// ValidateMessageContent checks the 1-500 character constraint.
func ValidateMessageContent(content string) error {
	if content == "" {
		return errors.New("message content is required")
	}
	if utf8.RuneCountInString(content) > 500 {
		return errors.New("message must not be more than 500 characters")
	}
	return nil
}

// ValidateOTP checks that a submitted code is exactly six decimal digits.
func ValidateOTP(code string) error {
	if !otpPattern.MatchString(code) {
		return errors.New("Verification code must be 6 digits")
	}
	return nil
}
