package public

import (
	"context"
	_ "embed"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sngm3741/ku-toilet-map/web/internal/interfaces/http/common"
)

//go:embed placeholder.svg
var placeholderSVG []byte

// photoProxyHandler はカタログまたはレビューに載っている写真だけを中継する。
// 未知の URL は取得せずプレースホルダーを返す。取得失敗・非 2xx・画像以外の場合も
// プレースホルダーを 200 で返し、カルーセルの他のスライドに影響させない。
func (h *Handler) photoProxyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		src := strings.TrimSpace(r.URL.Query().Get("src"))
		target, err := url.Parse(src)
		if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "src must be an absolute http(s) URL")
			return
		}
		if !h.catalog.KnownPhoto(src) {
			h.logger.Debug().Str("src", src).Msg("photo not in catalog, serving placeholder")
			h.writePlaceholder(w)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), h.photoTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
		if err != nil {
			h.writePlaceholder(w)
			return
		}
		resp, err := h.httpClient.Do(req)
		if err != nil {
			h.logger.Debug().Err(err).Str("src", src).Msg("photo fetch failed")
			h.writePlaceholder(w)
			return
		}
		defer resp.Body.Close()

		contentType := resp.Header.Get("Content-Type")
		if resp.StatusCode < 200 || resp.StatusCode >= 300 || !strings.HasPrefix(contentType, "image/") {
			h.logger.Debug().Int("status", resp.StatusCode).Str("contentType", contentType).Str("src", src).Msg("photo unusable, serving placeholder")
			h.writePlaceholder(w)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, io.LimitReader(resp.Body, 2*common.MaxPhotoBytes)); err != nil {
			h.logger.Debug().Err(err).Str("src", src).Msg("photo copy interrupted")
		}
	}
}

func (h *Handler) placeholderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.writePlaceholder(w)
	}
}

func (h *Handler) writePlaceholder(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(placeholderSVG)
}
