package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// RestroomDetails is one item of GET /restrooms/details.
type RestroomDetails struct {
	Restroom RestroomPayload `json:"restroom"`
	Reviews  []ReviewPayload `json:"reviews"`
	Photos   []PhotoPayload  `json:"restroom_photos"`
}

type RestroomPayload struct {
	ID             FlexID    `json:"restroom_id"`
	Name           string    `json:"name"`
	Latitude       FlexFloat `json:"latitude"`
	Longitude      FlexFloat `json:"longitude"`
	Floor          string    `json:"floor"`
	IsWomen        FlexBool  `json:"is_women"`
	IsMen          FlexBool  `json:"is_men"`
	IsAccessible   FlexBool  `json:"is_accessible"`
	HasBidet       FlexBool  `json:"has_bidet"`
	HasTissue      FlexBool  `json:"has_tissue"`
	IsFree         FlexBool  `json:"is_free"`
	MondayHours    string    `json:"monday_hours,omitempty"`
	TuesdayHours   string    `json:"tuesday_hours,omitempty"`
	WednesdayHours string    `json:"wednesday_hours,omitempty"`
	ThursdayHours  string    `json:"thursday_hours,omitempty"`
	FridayHours    string    `json:"friday_hours,omitempty"`
	SaturdayHours  string    `json:"saturday_hours,omitempty"`
	SundayHours    string    `json:"sunday_hours,omitempty"`
}

type ReviewPayload struct {
	ID           FlexID   `json:"review_id"`
	RestroomID   FlexID   `json:"restroom_id"`
	RestroomName string   `json:"restroom_name,omitempty"`
	UserID       FlexID   `json:"user_id"`
	Username     string   `json:"username,omitempty"`
	Email        string   `json:"email,omitempty"`
	Rating       FlexInt  `json:"rating"`
	Comment      string   `json:"comment"`
	PhotoURL     string   `json:"photo_url,omitempty"`
	CreatedAt    FlexTime `json:"created_at"`
}

type PhotoPayload struct {
	ID         FlexID `json:"photo_id"`
	RestroomID FlexID `json:"restroom_id"`
	URL        string `json:"photo_url"`
}

// Base64ReviewRequest is the body of POST /review/base64.
type Base64ReviewRequest struct {
	RestroomID  string `json:"restroom_id"`
	UserID      string `json:"user_id"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
	PhotoBase64 string `json:"photo_base64,omitempty"`
}

// CreateReviewResponse is returned by both review creation endpoints.
type CreateReviewResponse struct {
	Message  string         `json:"message,omitempty"`
	Review   *ReviewPayload `json:"review,omitempty"`
	PhotoURL string         `json:"photo_url,omitempty"`
}

type GoogleAuthRequest struct {
	Token string `json:"token"`
}

type AuthResponse struct {
	User *UserPayload `json:"user"`
}

type UserPayload struct {
	ID        FlexID `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Picture   string `json:"picture,omitempty"`
}

// ErrorPayload covers both error body conventions of the upstream.
type ErrorPayload struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// FlexFloat accepts a JSON number or a numeric string.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	raw, isNull := unquote(data)
	if isNull || raw == "" {
		*f = 0
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", raw, err)
	}
	*f = FlexFloat(value)
	return nil
}

// FlexInt accepts a JSON number or a numeric string. Fractional values are rounded
// half away from zero, so 4.6 decodes as 5.
type FlexInt int

func (i *FlexInt) UnmarshalJSON(data []byte) error {
	var f FlexFloat
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	*i = FlexInt(math.Round(float64(f)))
	return nil
}

// FlexBool accepts true/false, 0/1 and their string forms.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	raw, isNull := unquote(data)
	if isNull {
		*b = false
		return nil
	}
	switch strings.ToLower(raw) {
	case "true", "1", "yes", "y", "on":
		*b = true
	case "false", "0", "no", "n", "off", "":
		*b = false
	default:
		return fmt.Errorf("invalid boolean %q", raw)
	}
	return nil
}

// FlexID accepts a string or a number and keeps the textual form.
type FlexID string

func (id *FlexID) UnmarshalJSON(data []byte) error {
	raw, isNull := unquote(data)
	if isNull {
		*id = ""
		return nil
	}
	*id = FlexID(raw)
	return nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FlexTime accepts RFC 3339 and the common SQL timestamp forms.
type FlexTime struct {
	time.Time
}

func (t *FlexTime) UnmarshalJSON(data []byte) error {
	raw, isNull := unquote(data)
	if isNull || raw == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", raw)
}

func (t FlexTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

func unquote(data []byte) (string, bool) {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return "", true
	}
	if len(trimmed) >= 2 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return strings.TrimSpace(s), false
		}
	}
	return string(trimmed), false
}
