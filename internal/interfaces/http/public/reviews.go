package public

import (
	"context"
	"net/http"
	"time"

	"github.com/sngm3741/ku-toilet-map/web/internal/infrastructure/observability"
	"github.com/sngm3741/ku-toilet-map/web/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/ku-toilet-map/web/internal/public/application"
)

// myReviewsHandler はログインユーザーが投稿したレビュー一覧 (My review) を返す。
func (h *Handler) myReviewsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		user := common.SessionFromContext(r.Context()).User
		reviews, err := h.submissions.History(ctx, user.ID)
		if err != nil {
			logger := observability.RequestScoped(r.Context(), h.logger)
			logger.Error().Err(err).Str("userId", user.ID).Msg("review history fetch failed")
			common.WriteError(h.logger, w, upstreamStatus(publicapp.IsUnreachable(err)), publicapp.UserMessage(err))
			return
		}

		items := toReviewResponses(reviews)
		common.WriteJSON(h.logger, w, http.StatusOK, reviewListResponse{Items: items, Total: len(items)})
	}
}
