package service

import (
	"regexp"
	"strings"
)

// MinPasswordLength is the shortest password accepted before contacting the provider.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// ValidateFields checks the fields of a task about to be saved.
// The title must be non-empty after trimming and the priority enumerated.
func ValidateFields(f Fields) error {
	if strings.TrimSpace(f.Title) == "" {
		return &ValidationError{Field: "title", Message: "Title is required"}
	}
	if !f.Priority.Valid() {
		return &ValidationError{Field: "priority", Message: "Priority must be low, medium or high"}
	}
	return nil
}

// ValidateCredentials checks an email/password pair before sign-in or sign-up.
func ValidateCredentials(email, password string) error {
	switch {
	case strings.TrimSpace(email) == "":
		return &ValidationError{Field: "email", Message: "Email is required"}
	case !emailPattern.MatchString(email):
		return &ValidationError{Field: "email", Message: "Email is invalid"}
	case password == "":
		return &ValidationError{Field: "password", Message: "Password is required"}
	case len(password) < MinPasswordLength:
		return &ValidationError{Field: "password", Message: "Password must be at least 6 characters"}
	}
	return nil
}

// ValidateSignUp checks the registration form: a username plus valid credentials.
func ValidateSignUp(username, email, password string) error {
	if strings.TrimSpace(username) == "" {
		return &ValidationError{Field: "username", Message: "Username is required"}
	}
	return ValidateCredentials(email, password)
}
