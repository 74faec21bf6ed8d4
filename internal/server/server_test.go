package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/ku-toilet-map/web/internal/config"
	"github.com/sngm3741/ku-toilet-map/web/internal/devbackend"
	"github.com/sngm3741/ku-toilet-map/web/internal/session"
)

type harness struct {
	upstream *devbackend.Server
	server   *Server
	handler  http.Handler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	upstream := devbackend.NewServer(devbackend.NewSeededStore(), zerolog.Nop())
	ts := httptest.NewServer(upstream.Handler())
	t.Cleanup(ts.Close)

	srv, err := New(config.Config{
		Addr:              ":0",
		UpstreamURL:       ts.URL,
		UpstreamTimeout:   5 * time.Second,
		PhotoProxyTimeout: 2 * time.Second,
		SessionSecret:     []byte("test-secret"),
		AllowedOrigins:    []string{"https://map.example"},
	}, zerolog.Nop(), nil)
	require.NoError(t, err)
	require.NoError(t, srv.Catalog().Load(context.Background()))

	return &harness{upstream: upstream, server: srv, handler: srv.Handler()}
}

func (h *harness) do(t *testing.T, method, target string, body io.Reader, contentType string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func (h *harness) doJSON(t *testing.T, method, target string, payload any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	return h.do(t, method, target, body, "application/json", cookies)
}

func (h *harness) signIn(t *testing.T, token string) []*http.Cookie {
	t.Helper()
	rec := h.doJSON(t, http.MethodPost, "/api/auth/google", map[string]string{"token": token}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, session.CookieName, cookies[0].Name)
	return cookies
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type listBody struct {
	Items []struct {
		ID             string   `json:"id"`
		Name           string   `json:"name"`
		PhotoURLs      []string `json:"photoUrls"`
		DistanceMeters *float64 `json:"distanceMeters"`
	} `json:"items"`
	Total int `json:"total"`
}

type detailBody struct {
	ID        string `json:"id"`
	Checklist []struct {
		Amenity   string `json:"amenity"`
		Available bool   `json:"available"`
	} `json:"checklist"`
	Hours []struct {
		Day   string `json:"day"`
		Hours string `json:"hours"`
	} `json:"hours"`
	Carousel struct {
		Mode   string `json:"mode"`
		Slides []struct {
			Src      string `json:"src"`
			Original string `json:"original"`
			Fallback string `json:"fallback"`
		} `json:"slides"`
	} `json:"carousel"`
	Reviews []struct {
		ID      string `json:"id"`
		Author  string `json:"author"`
		Comment string `json:"comment"`
		Rating  int    `json:"rating"`
	} `json:"reviews"`
	Affordance struct {
		CanSubmit     bool `json:"canSubmit"`
		RequiresLogin bool `json:"requiresLogin"`
	} `json:"affordance"`
}

type submissionBody struct {
	Outcome  string `json:"outcome"`
	Attempts []struct {
		Transport string `json:"transport"`
		Outcome   string `json:"outcome"`
	} `json:"attempts"`
	Unreachable bool   `json:"unreachable"`
	Message     string `json:"message"`
	Review      *struct {
		ID       string `json:"id"`
		Author   string `json:"author"`
		Comment  string `json:"comment"`
		PhotoURL string `json:"photoUrl"`
	} `json:"review"`
}

func TestHealthz(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/healthz", nil, "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 8, body["restrooms"])
	assert.Contains(t, body, "catalogLoadedAt")
}

func TestRestroomList_Filters(t *testing.T) {
	h := newHarness(t)

	all := decode[listBody](t, h.do(t, http.MethodGet, "/api/restrooms", nil, "", nil))
	assert.Equal(t, 8, all.Total)
	require.NotEmpty(t, all.Items[0].PhotoURLs)
	assert.True(t, strings.HasPrefix(all.Items[0].PhotoURLs[0], "/api/photos?src="))

	withTissue := decode[listBody](t, h.do(t, http.MethodGet, "/api/restrooms?tissue=true", nil, "", nil))
	assert.Equal(t, 6, withTissue.Total)

	search := decode[listBody](t, h.do(t, http.MethodGet, "/api/restrooms?q=sc-45&amenity=bidet,wheelchair", nil, "", nil))
	require.Len(t, search.Items, 1)
	assert.Equal(t, "2", search.Items[0].ID)

	none := decode[listBody](t, h.do(t, http.MethodGet, "/api/restrooms?q=does-not-exist", nil, "", nil))
	assert.Zero(t, none.Total)
	assert.NotNil(t, none.Items)
}

func TestRestroomList_NearMeOrdersByDistance(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/api/restrooms?lat=13.845872&lng=100.5710799", nil, "", nil)

	body := decode[listBody](t, rec)
	require.Len(t, body.Items, 8)
	assert.Equal(t, "2", body.Items[0].ID)
	require.NotNil(t, body.Items[0].DistanceMeters)
	assert.InDelta(t, 0, *body.Items[0].DistanceMeters, 0.5)
	for i := 1; i < len(body.Items); i++ {
		assert.LessOrEqual(t, *body.Items[i-1].DistanceMeters, *body.Items[i].DistanceMeters)
	}
}

func TestMarkers(t *testing.T) {
	h := newHarness(t)

	body := decode[struct {
		Viewport struct {
			Center       struct{ Lat, Lng float64 } `json:"center"`
			Zoom         int                        `json:"zoom"`
			RecenterZoom int                        `json:"recenterZoom"`
		} `json:"viewport"`
		Markers []struct {
			ID string `json:"id"`
		} `json:"markers"`
	}](t, h.do(t, http.MethodGet, "/api/restrooms/markers?bidet=on", nil, "", nil))

	assert.Equal(t, 13, body.Viewport.Zoom)
	assert.Equal(t, 18, body.Viewport.RecenterZoom)
	assert.InDelta(t, 13.84599, body.Viewport.Center.Lat, 1e-9)
	assert.Len(t, body.Markers, 7)
}

func TestRestroomDetail(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/api/restrooms/2", nil, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[detailBody](t, rec)

	assert.Len(t, detail.Checklist, 6)
	require.Len(t, detail.Hours, 7)
	assert.Equal(t, "Closed", detail.Hours[6].Hours)
	assert.Equal(t, "cyclic", detail.Carousel.Mode)
	require.Len(t, detail.Carousel.Slides, 5)
	slide := detail.Carousel.Slides[0]
	assert.Equal(t, "https://drive.google.com/thumbnail?id=restroom2photo1&sz=w1000", slide.Original)
	assert.Equal(t, "/api/photos?src="+url.QueryEscape(slide.Original), slide.Src)
	assert.Equal(t, "/api/photos/placeholder.svg", slide.Fallback)
	assert.True(t, detail.Affordance.RequiresLogin)
	assert.False(t, detail.Affordance.CanSubmit)

	single := decode[detailBody](t, h.do(t, http.MethodGet, "/api/restrooms/3", nil, "", nil))
	assert.Equal(t, "single", single.Carousel.Mode)

	missing := h.do(t, http.MethodGet, "/api/restrooms/999", nil, "", nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestAuthFlow(t *testing.T) {
	h := newHarness(t)

	anonymous := decode[map[string]any](t, h.do(t, http.MethodGet, "/api/auth/me", nil, "", nil))
	assert.Equal(t, false, anonymous["authenticated"])
	assert.Equal(t, session.GuestName, anonymous["displayName"])

	rejected := h.doJSON(t, http.MethodPost, "/api/auth/google", map[string]string{"token": "bogus"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rejected.Code)
	assert.Equal(t, "Invalid Google token", decode[map[string]string](t, rejected)["error"])

	cookies := h.signIn(t, devbackend.StudentToken)
	me := decode[sessionView](t, h.do(t, http.MethodGet, "/api/auth/me", nil, "", cookies))
	assert.True(t, me.Authenticated)
	assert.Equal(t, "Nisit KU", me.DisplayName)
	assert.True(t, me.Capabilities.CanReview)
	assert.False(t, me.Capabilities.CanAdminister)

	logout := h.do(t, http.MethodPost, "/api/auth/logout", nil, "", cookies)
	require.Equal(t, http.StatusOK, logout.Code)
	cleared := logout.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Less(t, cleared[0].MaxAge, 0)

	admin := decode[sessionView](t, h.do(t, http.MethodGet, "/api/auth/me", nil, "", h.signIn(t, devbackend.AdminToken)))
	assert.True(t, admin.Capabilities.CanAdminister)
}

type sessionView struct {
	Authenticated bool                 `json:"authenticated"`
	DisplayName   string               `json:"displayName"`
	Capabilities  session.Capabilities `json:"capabilities"`
}

func TestTamperedCookieIsSignedOut(t *testing.T) {
	h := newHarness(t)

	forged := []*http.Cookie{{Name: session.CookieName, Value: "not-a-jwt"}}
	me := decode[sessionView](t, h.do(t, http.MethodGet, "/api/auth/me", nil, "", forged))

	assert.False(t, me.Authenticated)
}

func TestSubmitReview_SignedOutAsksForLogin(t *testing.T) {
	h := newHarness(t)

	rec := h.doJSON(t, http.MethodPost, "/api/restrooms/1/reviews", map[string]any{"rating": 5, "comment": "nice"}, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, true, decode[map[string]any](t, rec)["loginPrompt"])
	assert.Zero(t, h.upstream.Calls(devbackend.RouteCreateMultipart))
	assert.Zero(t, h.upstream.Calls(devbackend.RouteCreateBase64))
}

func TestSubmitReview_Validation(t *testing.T) {
	h := newHarness(t)
	cookies := h.signIn(t, devbackend.StudentToken)

	cases := map[string]map[string]any{
		"missing rating": {"comment": "nice"},
		"out of range":   {"rating": 9, "comment": "nice"},
		"blank comment":  {"rating": 3, "comment": "   "},
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			rec := h.doJSON(t, http.MethodPost, "/api/restrooms/1/reviews", payload, cookies)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Zero(t, h.upstream.Calls(devbackend.RouteCreateMultipart))

	unknown := h.doJSON(t, http.MethodPost, "/api/restrooms/999/reviews", map[string]any{"rating": 3, "comment": "ok"}, cookies)
	assert.Equal(t, http.StatusNotFound, unknown.Code)
}

func TestSubmitReview_WithoutPhotoUsesMultipart(t *testing.T) {
	h := newHarness(t)
	cookies := h.signIn(t, devbackend.StudentToken)

	rec := h.doJSON(t, http.MethodPost, "/api/restrooms/5/reviews", map[string]any{"rating": 4, "comment": "  quiet  "}, cookies)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode[submissionBody](t, rec)
	assert.Equal(t, "success", body.Outcome)
	require.Len(t, body.Attempts, 1)
	assert.Equal(t, "multipart", body.Attempts[0].Transport)
	require.NotNil(t, body.Review)
	assert.Equal(t, "quiet", body.Review.Comment)
	assert.Equal(t, 1, h.upstream.Calls(devbackend.RouteCreateMultipart))
	assert.Zero(t, h.upstream.Calls(devbackend.RouteCreateBase64))

	detail := decode[detailBody](t, h.do(t, http.MethodGet, "/api/restrooms/5", nil, "", cookies))
	require.Len(t, detail.Reviews, 1)
	assert.Equal(t, body.Review.ID, detail.Reviews[0].ID)
	assert.Equal(t, "Nisit KU", detail.Reviews[0].Author)
	assert.True(t, detail.Affordance.CanSubmit)

	mine := decode[struct {
		Items []struct {
			ID           string `json:"id"`
			RestroomName string `json:"restroomName"`
		} `json:"items"`
	}](t, h.do(t, http.MethodGet, "/api/me/reviews", nil, "", cookies))
	require.Len(t, mine.Items, 1)
	assert.Equal(t, "สำนักหอสมุด", mine.Items[0].RestroomName)
}

func TestSubmitReview_PhotoPrefersBase64(t *testing.T) {
	h := newHarness(t)
	cookies := h.signIn(t, devbackend.StudentToken)

	rec := h.doJSON(t, http.MethodPost, "/api/restrooms/1/reviews", map[string]any{
		"rating":    5,
		"comment":   "spotless",
		"photo":     "data:image/png;base64,iVBORw0KGgo=",
		"photoName": "stall.png",
	}, cookies)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode[submissionBody](t, rec)
	require.Len(t, body.Attempts, 1)
	assert.Equal(t, "base64", body.Attempts[0].Transport)
	require.NotNil(t, body.Review)
	assert.True(t, strings.HasPrefix(body.Review.PhotoURL, "/api/photos?src="))
	assert.Zero(t, h.upstream.Calls(devbackend.RouteCreateMultipart))
}

func TestSubmitReview_FallsBackToMultipartOnce(t *testing.T) {
	h := newHarness(t)
	cookies := h.signIn(t, devbackend.StudentToken)
	h.upstream.SetFault(devbackend.RouteCreateBase64, devbackend.Fault{Status: http.StatusRequestEntityTooLarge, Message: "payload too large"})

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	require.NoError(t, writer.WriteField("rating", "3"))
	require.NoError(t, writer.WriteField("comment", "ok"))
	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", `form-data; name="photo"; filename="stall.png"`)
	partHeader.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(partHeader)
	require.NoError(t, err)
	_, err = part.Write([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	rec := h.do(t, http.MethodPost, "/api/restrooms/1/reviews", &form, writer.FormDataContentType(), cookies)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode[submissionBody](t, rec)
	assert.Equal(t, "success", body.Outcome)
	require.Len(t, body.Attempts, 2)
	assert.Equal(t, "recoverable_failure", body.Attempts[0].Outcome)
	assert.Equal(t, "multipart", body.Attempts[1].Transport)
	assert.Equal(t, 1, h.upstream.Calls(devbackend.RouteCreateBase64))
	assert.Equal(t, 1, h.upstream.Calls(devbackend.RouteCreateMultipart))

	reviews := h.upstream.Store().AllReviews()
	require.Len(t, reviews, 1)
	assert.Contains(t, reviews[0].PhotoURL, "/uploads/")
}

func TestSubmitReview_FatalFailures(t *testing.T) {
	h := newHarness(t)
	cookies := h.signIn(t, devbackend.StudentToken)

	h.upstream.SetFault(devbackend.RouteCreateMultipart, devbackend.Fault{Status: http.StatusBadRequest, Message: "Comment contains banned words"})
	rec := h.doJSON(t, http.MethodPost, "/api/restrooms/1/reviews", map[string]any{"rating": 2, "comment": "bad"}, cookies)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := decode[submissionBody](t, rec)
	assert.Equal(t, "fatal_failure", body.Outcome)
	assert.Equal(t, "Comment contains banned words", body.Message)
	assert.False(t, body.Unreachable)

	h.upstream.SetFault(devbackend.RouteCreateMultipart, devbackend.Fault{Drop: true})
	rec = h.doJSON(t, http.MethodPost, "/api/restrooms/1/reviews", map[string]any{"rating": 2, "comment": "bad"}, cookies)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body = decode[submissionBody](t, rec)
	assert.True(t, body.Unreachable)
	assert.Equal(t, "cannot reach server", body.Message)

	detail := decode[detailBody](t, h.do(t, http.MethodGet, "/api/restrooms/1", nil, "", cookies))
	assert.Empty(t, detail.Reviews)
}

func TestMyReviews_RequiresLogin(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/api/me/reviews", nil, "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdmin_Gating(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, http.StatusUnauthorized, h.do(t, http.MethodGet, "/api/admin/reviews", nil, "", nil).Code)

	student := h.signIn(t, devbackend.StudentToken)
	assert.Equal(t, http.StatusForbidden, h.do(t, http.MethodGet, "/api/admin/reviews", nil, "", student).Code)
	assert.Equal(t, http.StatusForbidden, h.do(t, http.MethodPost, "/api/admin/catalog/refresh", nil, "", student).Code)
	assert.Zero(t, h.upstream.Calls(devbackend.RouteAdminList))
}

func TestAdmin_ListConfirmDelete(t *testing.T) {
	h := newHarness(t)
	student := h.signIn(t, devbackend.StudentToken)
	admin := h.signIn(t, devbackend.AdminToken)

	created := decode[submissionBody](t, h.doJSON(t, http.MethodPost, "/api/restrooms/5/reviews", map[string]any{"rating": 1, "comment": "Broken lock"}, student))
	require.NotNil(t, created.Review)
	reviewID := created.Review.ID

	type adminList struct {
		Items []struct {
			ID       string `json:"id"`
			Location string `json:"location"`
			Email    string `json:"email"`
		} `json:"items"`
		Locations []string `json:"locations"`
		Total     int      `json:"total"`
	}
	list := decode[adminList](t, h.do(t, http.MethodGet, "/api/admin/reviews?q=broken", nil, "", admin))
	require.Len(t, list.Items, 1)
	assert.Equal(t, reviewID, list.Items[0].ID)
	assert.Equal(t, "สำนักหอสมุด", list.Items[0].Location)
	assert.Equal(t, []string{"สำนักหอสมุด"}, list.Locations)

	byLocation := decode[adminList](t, h.do(t, http.MethodGet, "/api/admin/reviews?location="+url.QueryEscape("ตึก SC-45"), nil, "", admin))
	assert.Empty(t, byLocation.Items)
	assert.Equal(t, 1, byLocation.Total)

	unconfirmed := h.do(t, http.MethodDelete, "/api/admin/reviews/"+reviewID, nil, "", admin)
	assert.Equal(t, http.StatusPreconditionFailed, unconfirmed.Code)
	assert.Zero(t, h.upstream.Calls(devbackend.RouteAdminDelete))

	confirmation := decode[struct {
		Token string `json:"token"`
	}](t, h.do(t, http.MethodPost, "/api/admin/reviews/"+reviewID+"/delete-confirmation", nil, "", admin))
	require.NotEmpty(t, confirmation.Token)

	deleted := h.do(t, http.MethodDelete, "/api/admin/reviews/"+reviewID+"?confirm="+url.QueryEscape(confirmation.Token), nil, "", admin)
	require.Equal(t, http.StatusOK, deleted.Code, deleted.Body.String())
	assert.Empty(t, h.upstream.Store().AllReviews())

	detail := decode[detailBody](t, h.do(t, http.MethodGet, "/api/restrooms/5", nil, "", admin))
	assert.Empty(t, detail.Reviews)

	again := h.do(t, http.MethodDelete, "/api/admin/reviews/"+reviewID+"?confirm="+url.QueryEscape(confirmation.Token), nil, "", admin)
	assert.Equal(t, http.StatusNotFound, again.Code)
}

func TestAdmin_CatalogRefreshAndFailureLog(t *testing.T) {
	h := newHarness(t)
	admin := h.signIn(t, devbackend.AdminToken)

	added := devbackend.SeedRestrooms()[0]
	added.ID = ""
	added.Name = "อาคารใหม่"
	h.upstream.Store().AddRestroom(added)
	refreshed := h.do(t, http.MethodPost, "/api/admin/catalog/refresh", nil, "", admin)
	require.Equal(t, http.StatusOK, refreshed.Code)
	assert.EqualValues(t, 9, decode[map[string]any](t, refreshed)["count"])

	h.upstream.SetFault(devbackend.RouteDetails, devbackend.Fault{Status: http.StatusInternalServerError, Message: "database down"})
	failed := h.do(t, http.MethodPost, "/api/admin/catalog/refresh", nil, "", admin)
	assert.Equal(t, http.StatusBadGateway, failed.Code)
	assert.Len(t, h.server.Catalog().Snapshot(), 9)

	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, "/api/admin/submissions/failures", nil, "", admin).Code)
}

func TestTransition(t *testing.T) {
	h := newHarness(t)
	student := h.signIn(t, devbackend.StudentToken)

	rec := h.doJSON(t, http.MethodPost, "/api/ui/transition", map[string]any{
		"view":  map[string]any{"overlay": "none"},
		"event": map[string]any{"type": "select_marker", "restroomId": "2"},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[struct {
		View struct {
			Overlay  string `json:"overlay"`
			Selected string `json:"selected"`
		} `json:"view"`
	}](t, rec)
	assert.Equal(t, "detail", view.View.Overlay)
	assert.Equal(t, "2", view.View.Selected)

	missing := h.doJSON(t, http.MethodPost, "/api/ui/transition", map[string]any{
		"view":  map[string]any{"overlay": "none"},
		"event": map[string]any{"type": "select_marker", "restroomId": "999"},
	}, nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)

	forbidden := h.doJSON(t, http.MethodPost, "/api/ui/transition", map[string]any{
		"view":  map[string]any{"overlay": "profile"},
		"event": map[string]any{"type": "open_admin"},
	}, student)
	assert.Equal(t, http.StatusForbidden, forbidden.Code)

	unknown := h.doJSON(t, http.MethodPost, "/api/ui/transition", map[string]any{
		"view":  map[string]any{"overlay": "somewhere"},
		"event": map[string]any{"type": "close"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, unknown.Code)
}

func TestPhotoProxy(t *testing.T) {
	h := newHarness(t)
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("png-bytes"))
		case "/page.html":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html></html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(origin.Close)

	gallery := devbackend.SeedRestrooms()[0]
	gallery.ID = ""
	gallery.Name = "Gallery"
	h.upstream.Store().AddRestroom(gallery, origin.URL+"/ok.png", origin.URL+"/missing.png", origin.URL+"/page.html", "http://127.0.0.1:1/x.png")
	require.NoError(t, h.server.Catalog().Load(context.Background()))

	ok := h.do(t, http.MethodGet, "/api/photos?src="+url.QueryEscape(origin.URL+"/ok.png"), nil, "", nil)
	require.Equal(t, http.StatusOK, ok.Code)
	assert.Equal(t, "image/png", ok.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", ok.Body.String())

	for _, path := range []string{"/missing.png", "/page.html"} {
		rec := h.do(t, http.MethodGet, "/api/photos?src="+url.QueryEscape(origin.URL+path), nil, "", nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"), path)
		assert.Contains(t, rec.Body.String(), "<svg", path)
	}

	unreachable := h.do(t, http.MethodGet, "/api/photos?src="+url.QueryEscape("http://127.0.0.1:1/x.png"), nil, "", nil)
	assert.Equal(t, "image/svg+xml", unreachable.Header().Get("Content-Type"))

	invalid := h.do(t, http.MethodGet, "/api/photos?src=file:///etc/passwd", nil, "", nil)
	assert.Equal(t, http.StatusBadRequest, invalid.Code)
}

func TestPhotoProxyNeverFetchesUnknownURLs(t *testing.T) {
	h := newHarness(t)
	var hits atomic.Int32
	internal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("internal-secret"))
	}))
	t.Cleanup(internal.Close)

	rec := h.do(t, http.MethodGet, "/api/photos?src="+url.QueryEscape(internal.URL+"/admin/metadata"), nil, "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.NotContains(t, rec.Body.String(), "internal-secret")
	assert.Zero(t, hits.Load())
}

func TestCORS(t *testing.T) {
	h := newHarness(t)

	preflight := httptest.NewRequest(http.MethodOptions, "/api/restrooms", nil)
	preflight.Header.Set("Origin", "https://map.example")
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, preflight)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://map.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")

	foreign := httptest.NewRequest(http.MethodGet, "/api/restrooms", nil)
	foreign.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.handler.ServeHTTP(rec, foreign)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
