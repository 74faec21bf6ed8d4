package common

const (
	// MaxPhotoBytes limits a single review photo upload.
	MaxPhotoBytes = 10 << 20
	// MaxReviewRequestBody covers a JSON review with an inline base64 photo.
	MaxReviewRequestBody = MaxPhotoBytes*4/3 + 1<<20
	// MaxJSONBody limits small JSON bodies such as sign-in and overlay transitions.
	MaxJSONBody = 64 << 10
)

const (
	MessageLoginRequired = "Please log in first"
	MessageForbidden     = "You are not allowed to do that"
	MessageInvalidBody   = "Invalid request body"
)
