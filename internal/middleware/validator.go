package middleware

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

// ValidationError marks an input problem so the HTTP layer can answer 400
// instead of 500.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var driveIDPattern = regexp.MustCompile(`/file/d/|/folders/|/(?:document|spreadsheets|presentation)/d/|[?&]id=`)

// ValidateDriveLink checks the link points at Google Drive and carries a
// file reference
func ValidateDriveLink(link string) error {
	if strings.TrimSpace(link) == "" {
		return NewValidationError("driveLink", "cannot be empty")
	}

	u, err := url.Parse(link)
	if err != nil {
		return NewValidationError("driveLink", "invalid URL format")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return NewValidationError("driveLink", fmt.Sprintf("invalid URL scheme: %s (allowed: http, https)", u.Scheme))
	}

	host := strings.ToLower(u.Hostname())
	if host != "drive.google.com" && host != "docs.google.com" {
		return NewValidationError("driveLink", "must be a Google Drive link")
	}
	if !driveIDPattern.MatchString(link) {
		return NewValidationError("driveLink", "link does not reference a file")
	}
	return nil
}

// ValidateTenantID validates tenant ID format
func ValidateTenantID(tenant string) error {
	if tenant == "" {
		return NewValidationError("tenant", "cannot be empty")
	}

	// Allow alphanumeric, dash, underscore (max 64 chars)
	pattern := `^[a-zA-Z0-9_-]{1,64}$`
	matched, _ := regexp.MatchString(pattern, tenant)
	if !matched {
		return NewValidationError("tenant", "invalid format (alphanumeric, dash, underscore only, max 64 chars)")
	}
	return nil
}

// ValidateFileID validates an analysis file identifier
func ValidateFileID(fileID string) error {
	if fileID == "" {
		return NewValidationError("file_id", "cannot be empty")
	}

	pattern := `^[a-zA-Z0-9_-]{1,128}$`
	matched, _ := regexp.MatchString(pattern, fileID)
	if !matched {
		return NewValidationError("file_id", "invalid format")
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}
