package application

import "errors"

var (
	// ErrLoginRequired は未ログインで投稿しようとした場合に返る。クライアントはログイン誘導を表示する。
	ErrLoginRequired      = errors.New("login required")
	ErrRatingRequired     = errors.New("rating is required")
	ErrRatingOutOfRange   = errors.New("rating must be between 1 and 5")
	ErrCommentRequired    = errors.New("comment is required")
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	ErrRestroomNotFound   = errors.New("restroom not found")
)

// UnreachableMessage is surfaced when the upstream could not be contacted at all.
const UnreachableMessage = "cannot reach server"

type unreachable interface {
	Unreachable() bool
}

type serverMessenger interface {
	ServerMessage() string
}

// IsUnreachable reports whether err means the upstream was never reached.
func IsUnreachable(err error) bool {
	var target unreachable
	return errors.As(err, &target) && target.Unreachable()
}

// UserMessage converts a gateway error into the text shown to the user.
// Server-reported messages pass through verbatim.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if IsUnreachable(err) {
		return UnreachableMessage
	}
	var server serverMessenger
	if errors.As(err, &server) {
		if msg := server.ServerMessage(); msg != "" {
			return msg
		}
	}
	return err.Error()
}
