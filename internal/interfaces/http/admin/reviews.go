package admin

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	admindomain "github.com/sngm3741/ku-toilet-map/web/internal/admin/domain"
	"github.com/sngm3741/ku-toilet-map/web/internal/interfaces/http/common"
)

// reviewListHandler は全レビューを取得し、テキストと場所で絞り込んで返す。
func (h *Handler) reviewListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		filter := admindomain.ReviewFilter{
			Text:     strings.TrimSpace(query.Get("q")),
			Location: strings.TrimSpace(query.Get("location")),
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		result, err := h.moderation.List(ctx, moderatorFromRequest(r), filter)
		if err != nil {
			h.writeModerationError(w, err)
			return
		}

		items := make([]adminReviewResponse, 0, len(result.Reviews))
		for _, review := range result.Reviews {
			items = append(items, toAdminReviewResponse(review))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, adminReviewListResponse{
			Items:     items,
			Locations: result.Locations,
			Matched:   len(items),
			Total:     result.Total,
		})
	}
}

// reviewDeleteConfirmationHandler は削除の一段階目。短命の確認トークンを発行する。
func (h *Handler) reviewDeleteConfirmationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		confirmation, err := h.moderation.Confirm(moderatorFromRequest(r), chi.URLParam(r, "id"))
		if err != nil {
			h.writeModerationError(w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, deleteConfirmationResponse{
			ReviewID:  confirmation.ReviewID,
			Token:     confirmation.Token,
			ExpiresAt: confirmation.ExpiresAt,
		})
	}
}

// reviewDeleteHandler は削除の二段階目。確認トークンを検証してから上流で削除する。
func (h *Handler) reviewDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviewID := strings.TrimSpace(chi.URLParam(r, "id"))
		token := strings.TrimSpace(r.URL.Query().Get("confirm"))

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		if err := h.moderation.Delete(ctx, moderatorFromRequest(r), reviewID, token); err != nil {
			h.writeModerationError(w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{"status": "deleted", "reviewId": reviewID})
	}
}
