package domain

import (
	"fmt"
	"net/mail"
	"strings"
)

type Email string

// NewEmail validates an address. Blank input yields an empty Email without error,
// matching upstream rows that carry no address.
func NewEmail(value string) (Email, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if len(trimmed) > 254 {
		return "", fmt.Errorf("email too long")
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", fmt.Errorf("invalid email: %w", err)
	}
	return Email(trimmed), nil
}

func (e Email) String() string {
	return string(e)
}

type Rating int

func NewRating(value int) (Rating, error) {
	if value < 0 || value > 5 {
		return 0, fmt.Errorf("rating must be between 0 and 5")
	}
	return Rating(value), nil
}

func (r Rating) Int() int {
	return int(r)
}
