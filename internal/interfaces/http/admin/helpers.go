package admin

import (
	"errors"
	"net/http"

	adminapp "github.com/sngm3741/ku-toilet-map/web/internal/admin/application"
	"github.com/sngm3741/ku-toilet-map/web/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/ku-toilet-map/web/internal/public/application"
)

type notFoundError interface {
	IsNotFound() bool
}

func moderatorFromRequest(r *http.Request) adminapp.Moderator {
	sess := common.SessionFromContext(r.Context())
	if sess.User == nil {
		return adminapp.Moderator{}
	}
	return adminapp.Moderator{Email: sess.User.Email, IsAdmin: sess.User.IsAdmin()}
}

// writeModerationError はユースケースのエラーを HTTP ステータスへ変換する。
func (h *Handler) writeModerationError(w http.ResponseWriter, err error) {
	var notFound notFoundError
	switch {
	case errors.Is(err, adminapp.ErrForbidden):
		common.WriteError(h.logger, w, http.StatusForbidden, common.MessageForbidden)
	case errors.Is(err, adminapp.ErrReviewIDRequired):
		common.WriteError(h.logger, w, http.StatusBadRequest, "Review id is required")
	case errors.Is(err, adminapp.ErrConfirmationInvalid):
		common.WriteError(h.logger, w, http.StatusPreconditionFailed, "Please confirm the deletion again")
	case errors.As(err, &notFound) && notFound.IsNotFound():
		common.WriteError(h.logger, w, http.StatusNotFound, "Review not found")
	case publicapp.IsUnreachable(err):
		common.WriteError(h.logger, w, http.StatusServiceUnavailable, publicapp.UnreachableMessage)
	default:
		h.logger.Error().Err(err).Msg("moderation request failed")
		common.WriteError(h.logger, w, http.StatusBadGateway, publicapp.UserMessage(err))
	}
}
