package public

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sngm3741/ku-toilet-map/web/internal/interfaces/http/common"
	"github.com/sngm3741/ku-toilet-map/web/internal/ui"
)

// transitionHandler はクライアントが保持するオーバーレイ状態に 1 イベントを適用する。
func (h *Handler) transitionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, common.MaxJSONBody)
		var req transitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, common.MessageInvalidBody)
			return
		}
		if _, err := ui.ParseOverlay(string(req.View.Overlay)); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		if req.Event.Type == ui.EventSelectMarker && req.Event.RestroomID != "" {
			if _, ok := h.catalog.Find(req.Event.RestroomID); !ok {
				common.WriteError(h.logger, w, http.StatusNotFound, "Restroom not found")
				return
			}
		}

		caps := common.SessionFromContext(r.Context()).Capabilities()
		view, err := ui.Transition(req.View, req.Event, caps)
		switch {
		case errors.Is(err, ui.ErrNotPermitted):
			common.WriteError(h.logger, w, http.StatusForbidden, err.Error())
			return
		case err != nil:
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, transitionResponse{View: view})
	}
}
