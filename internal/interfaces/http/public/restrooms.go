package public

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/ku-toilet-map/web/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/ku-toilet-map/web/internal/public/application"
	"github.com/sngm3741/ku-toilet-map/web/internal/public/domain"
	"github.com/sngm3741/ku-toilet-map/web/internal/ui"
)

// restroomListHandler はフィルタ適用後のトイレ一覧を返す。lat/lng があれば近い順。
func (h *Handler) restroomListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		filter := common.FilterFromQuery(query)

		q := publicapp.CatalogQuery{Filter: filter}
		if lat, lng, ok := common.ParseCoordinate(query.Get("lat"), query.Get("lng")); ok {
			q.Origin = &domain.Coordinate{Lat: lat, Lng: lng}
		}

		ranked := h.catalog.Query(q)
		items := make([]restroomSummaryResponse, 0, len(ranked))
		for _, record := range ranked {
			items = append(items, toRestroomSummary(record))
		}

		resp := restroomListResponse{
			Items:  items,
			Total:  len(items),
			Filter: filterPayload{Search: filter.Search, Require: toAmenitiesPayload(filter.Require)},
		}
		if loadedAt := h.catalog.LoadedAt(); !loadedAt.IsZero() {
			resp.LoadedAt = &loadedAt
		}
		common.WriteJSON(h.logger, w, http.StatusOK, resp)
	}
}

// markerListHandler は表示中のトイレのマーカーと初期表示範囲を返す。
func (h *Handler) markerListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := common.FilterFromQuery(r.URL.Query())
		displayed := domain.ApplyFilter(h.catalog.Snapshot(), filter)

		markers := ui.BuildMarkers(displayed)
		payload := make([]markerPayload, 0, len(markers))
		for _, marker := range markers {
			payload = append(payload, markerPayload{
				ID:       marker.ID,
				Name:     marker.Name,
				Position: toCoordinatePayload(marker.Position),
				Rating:   marker.Rating,
			})
		}

		viewport := ui.DefaultViewport()
		common.WriteJSON(h.logger, w, http.StatusOK, markerListResponse{
			Viewport: viewportPayload{
				Center:       toCoordinatePayload(viewport.Center),
				Zoom:         viewport.Zoom,
				RecenterZoom: viewport.RecenterZoom,
			},
			Markers: payload,
		})
	}
}

// restroomDetailHandler は詳細シートの表示モデルを返す。
func (h *Handler) restroomDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		record, ok := h.catalog.Find(id)
		if !ok {
			common.WriteError(h.logger, w, http.StatusNotFound, "Restroom not found")
			return
		}

		sess := common.SessionFromContext(r.Context())
		submitting := false
		if sess.Authenticated() && h.submissions != nil {
			submitting = h.submissions.InFlight(sess.User.ID)
		}

		detail := ui.BuildDetail(record, h.catalog.Reviews(record), ui.DetailOptions{
			Capabilities: sess.Capabilities(),
			PhotoSource:  proxiedPhoto,
			Placeholder:  placeholderPath,
			Submitting:   submitting,
		})
		common.WriteJSON(h.logger, w, http.StatusOK, toDetailResponse(detail))
	}
}
