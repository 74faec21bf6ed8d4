package public

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/sngm3741/ku-toilet-map/web/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/ku-toilet-map/web/internal/public/application"
	"github.com/sngm3741/ku-toilet-map/web/internal/session"
)

// googleSignInHandler は Google の ID トークンを上流で検証し、ユーザー情報を Cookie に保存する。
func (h *Handler) googleSignInHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, common.MaxJSONBody)
		var req googleSignInRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, common.MessageInvalidBody)
			return
		}
		token := strings.TrimSpace(req.Token)
		if token == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "token is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		user, err := h.identity.SignInWithGoogle(ctx, token)
		if err != nil {
			h.logger.Warn().Err(err).Msg("google sign-in failed")
			status := http.StatusUnauthorized
			if publicapp.IsUnreachable(err) {
				status = http.StatusServiceUnavailable
			}
			common.WriteError(h.logger, w, status, publicapp.UserMessage(err))
			return
		}

		if err := h.sessions.Save(w, user); err != nil {
			h.logger.Error().Err(err).Msg("session cookie encode failed")
			common.WriteError(h.logger, w, http.StatusInternalServerError, "Failed to sign in")
			return
		}
		h.logger.Info().Str("userId", user.ID).Bool("admin", user.IsAdmin()).Msg("signed in")
		common.WriteJSON(h.logger, w, http.StatusOK, toSessionResponse(session.Session{User: &user}))
	}
}

// logoutHandler は Cookie を即時に破棄する。プロフィール・管理画面の状態はクライアント側で閉じる。
func (h *Handler) logoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.sessions.Clear(w)
		common.WriteJSON(h.logger, w, http.StatusOK, toSessionResponse(session.Session{}))
	}
}

func (h *Handler) sessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		common.WriteJSON(h.logger, w, http.StatusOK, toSessionResponse(common.SessionFromContext(r.Context())))
	}
}

func toSessionResponse(sess session.Session) sessionResponse {
	return sessionResponse{
		Authenticated: sess.Authenticated(),
		DisplayName:   sess.DisplayName(),
		User:          sess.User,
		Capabilities:  sess.Capabilities(),
	}
}
