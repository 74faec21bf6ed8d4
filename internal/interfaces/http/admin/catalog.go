package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/sngm3741/ku-toilet-map/web/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/ku-toilet-map/web/internal/public/application"
)

const defaultFailureLimit = 50

// catalogRefreshHandler は上流からトイレ一覧を再取得する。失敗時は直前のスナップショットを維持する。
func (h *Handler) catalogRefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		if err := h.catalog.Load(ctx); err != nil {
			common.WriteError(h.logger, w, http.StatusBadGateway, publicapp.UserMessage(err))
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, catalogRefreshResponse{
			Status:   "ok",
			Count:    len(h.catalog.Snapshot()),
			LoadedAt: h.catalog.LoadedAt(),
		})
	}
}

func (h *Handler) submissionFailuresHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.failures == nil {
			common.WriteError(h.logger, w, http.StatusNotFound, "Submission log is not configured")
			return
		}
		limit, _ := common.ParsePositiveInt(r.URL.Query().Get("limit"), defaultFailureLimit)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		records, err := h.failures.RecentFailures(ctx, int64(limit))
		if err != nil {
			h.logger.Error().Err(err).Msg("submission failure fetch failed")
			common.WriteError(h.logger, w, http.StatusInternalServerError, "Failed to load submission log")
			return
		}
		items := make([]submissionFailureResponse, 0, len(records))
		for _, record := range records {
			items = append(items, toSubmissionFailureResponse(record))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}
