package domain

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

const driveThumbnailURL = "https://drive.google.com/thumbnail?id=%s&sz=w1000"

var (
	drivePathPattern  = regexp.MustCompile(`^https?://(?:drive|docs)\.google\.com/(?:file/)?d/([A-Za-z0-9_-]+)(?:[/?#].*)?$`)
	driveQueryPattern = regexp.MustCompile(`^https?://(?:drive|docs)\.google\.com/(?:open|uc)\?(?:.*&)?id=([A-Za-z0-9_-]+)`)
)

// NormalizePhotoURL rewrites Google Drive share links into their direct thumbnail
// form. Any other URL is returned unchanged apart from surrounding whitespace.
func NormalizePhotoURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if match := drivePathPattern.FindStringSubmatch(trimmed); match != nil {
		return fmt.Sprintf(driveThumbnailURL, match[1])
	}
	if match := driveQueryPattern.FindStringSubmatch(trimmed); match != nil {
		return fmt.Sprintf(driveThumbnailURL, match[1])
	}
	return trimmed
}

// NormalizePhotoURLs normalises each URL and drops blanks.
func NormalizePhotoURLs(raw []string) []string {
	result := make([]string, 0, len(raw))
	for _, value := range raw {
		normalized := NormalizePhotoURL(value)
		if normalized == "" {
			continue
		}
		result = append(result, normalized)
	}
	return result
}

var ErrInvalidDataURL = errors.New("invalid base64 data url")

// EncodeDataURL embeds the photo as a data URL for the JSON submission endpoint.
func EncodeDataURL(photo Photo) string {
	contentType := strings.TrimSpace(photo.ContentType)
	if contentType == "" {
		contentType = http.DetectContentType(photo.Data)
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(photo.Data)
}

// DecodeDataURL reverses EncodeDataURL, reconstructing the binary attachment.
func DecodeDataURL(dataURL, filename string) (Photo, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return Photo{}, ErrInvalidDataURL
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Photo{}, ErrInvalidDataURL
	}
	contentType, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return Photo{}, ErrInvalidDataURL
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Photo{}, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return Photo{Filename: filename, ContentType: contentType, Data: data}, nil
}
