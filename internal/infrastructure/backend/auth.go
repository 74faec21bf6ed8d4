package backend

import (
	"context"
	"errors"
	"net/http"

	"github.com/sngm3741/ku-toilet-map/web/internal/session"
)

// SignInWithGoogle calls POST /auth/google and returns the verified user record.
func (c *Client) SignInWithGoogle(ctx context.Context, token string) (session.User, error) {
	body, err := jsonBody(GoogleAuthRequest{Token: token})
	if err != nil {
		return session.User{}, &Error{Kind: KindDecode, Op: "google sign-in", Err: err}
	}
	var resp AuthResponse
	err = c.do(ctx, request{
		op:          "google sign-in",
		method:      http.MethodPost,
		path:        "/auth/google",
		body:        body,
		contentType: "application/json",
	}, &resp)
	if err != nil {
		return session.User{}, err
	}
	if resp.User == nil || resp.User.ID == "" {
		return session.User{}, &Error{Kind: KindDecode, Op: "google sign-in", Err: errors.New("response carries no user")}
	}
	return toUser(*resp.User), nil
}
