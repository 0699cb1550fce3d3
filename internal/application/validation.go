package application

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"unicode"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// formatFieldName converts snake_case field names to space-separated words
// for more readable error messages (e.g., "cover_url" -> "cover URL")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"isbn":        "ISBN",
		"cover_url":   "cover URL",
		"avatar_url":  "avatar URL",
		"location_id": "location",
		"book_id":     "book",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return strings.ReplaceAll(fieldName, "_", " ")
}

// ValidateISBN accepts ISBN-10 and ISBN-13 with optional hyphens or spaces
func ValidateISBN(fieldName, value string) error {
	isbn := NormalizeISBN(value)
	if len(isbn) != 10 && len(isbn) != 13 {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must have 10 or 13 digits, got: %s", formatFieldName(fieldName), value),
		}
	}
	for i, r := range isbn {
		if unicode.IsDigit(r) || (i == 9 && len(isbn) == 10 && (r == 'X' || r == 'x')) {
			continue
		}
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("invalid %s: %s", formatFieldName(fieldName), value),
		}
	}
	return nil
}

// NormalizeISBN strips separators from an ISBN
func NormalizeISBN(value string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return -1
		}
		return r
	}, strings.TrimSpace(value))
}

// ValidateOptionalURL checks that a non-empty value is an absolute http(s) URL
func ValidateOptionalURL(fieldName, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be an http(s) URL", formatFieldName(fieldName)),
		}
	}
	return nil
}

// ValidateEmail checks the address syntax
func ValidateEmail(fieldName, value string) error {
	if err := ValidateRequired(fieldName, value); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(value); err != nil {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("invalid %s: %s", formatFieldName(fieldName), value),
		}
	}
	return nil
}

// ValidateID checks that an entity ID has been chosen
func ValidateID(fieldName string, id int64) error {
	if id <= 0 {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}
