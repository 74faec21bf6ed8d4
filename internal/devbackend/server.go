package devbackend

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/sngm3741/ku-toilet-map/web/internal/infrastructure/backend"
	"github.com/sngm3741/ku-toilet-map/web/internal/public/domain"
	"github.com/sngm3741/ku-toilet-map/web/internal/session"
)

// Route names one upstream endpoint for fault injection and call counting.
type Route string

const (
	RouteDetails         Route = "GET /restrooms/details"
	RouteUserReviews     Route = "GET /reviews/user/{userID}"
	RouteAdminList       Route = "GET /admin/reviews"
	RouteAdminDelete     Route = "DELETE /admin/reviews/{id}"
	RouteCreateMultipart Route = "POST /review"
	RouteCreateBase64    Route = "POST /review/base64"
	RouteGoogleAuth      Route = "POST /auth/google"
)

// maxUploadBytes mirrors the upstream's request cap.
const maxUploadBytes = 10 << 20

var (
	errMissingFields   = errors.New("restroom_id and user_id are required")
	errRatingRange     = errors.New("rating must be between 1 and 5")
	errUnknownRestroom = errors.New("restroom not found")
)

// Fault makes a route fail. Drop closes the connection without a response so the
// caller sees a transport error; otherwise Status and Message are returned.
type Fault struct {
	Status  int
	Message string
	Drop    bool
}

// Server is a stand-in for the restroom REST API.
type Server struct {
	store  *Store
	logger zerolog.Logger

	mu     sync.Mutex
	faults map[Route]Fault
	calls  map[Route]int
}

func NewServer(store *Store, logger zerolog.Logger) *Server {
	return &Server{
		store:  store,
		logger: logger.With().Str("component", "devbackend").Logger(),
		faults: map[Route]Fault{},
		calls:  map[Route]int{},
	}
}

func (s *Server) Store() *Store { return s.store }

func (s *Server) SetFault(route Route, fault Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[route] = fault
}

func (s *Server) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = map[Route]Fault{}
}

// Calls reports how many requests reached a route, including faulted ones.
func (s *Server) Calls(route Route) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/restrooms/details", s.guard(RouteDetails, s.detailsHandler()))
	r.Get("/reviews/user/{userID}", s.guard(RouteUserReviews, s.userReviewsHandler()))
	r.Get("/admin/reviews", s.guard(RouteAdminList, s.adminListHandler()))
	r.Delete("/admin/reviews/{id}", s.guard(RouteAdminDelete, s.adminDeleteHandler()))
	r.Post("/review", s.guard(RouteCreateMultipart, s.createMultipartHandler()))
	r.Post("/review/base64", s.guard(RouteCreateBase64, s.createBase64Handler()))
	r.Post("/auth/google", s.guard(RouteGoogleAuth, s.googleAuthHandler()))
	r.Get("/uploads/{id}", s.uploadHandler())
	return r
}

func (s *Server) guard(route Route, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[route]++
		fault, faulted := s.faults[route]
		s.mu.Unlock()

		if !faulted {
			next(w, r)
			return
		}
		if fault.Drop {
			if hijacker, ok := w.(http.Hijacker); ok {
				if conn, _, err := hijacker.Hijack(); err == nil {
					_ = conn.Close()
					return
				}
			}
			panic(http.ErrAbortHandler)
		}
		status := fault.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		s.writeError(w, status, fault.Message)
	}
}

func (s *Server) detailsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, s.store.Details())
	}
}

func (s *Server) userReviewsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, s.store.ReviewsByUser(chi.URLParam(r, "userID")))
	}
}

// adminAllowed requires the query email and header to agree and to name the administrator.
func adminAllowed(r *http.Request) bool {
	email := r.URL.Query().Get("email")
	return email != "" && email == r.Header.Get(backend.AdminEmailHeader) && email == session.AdminEmail
}

func (s *Server) adminListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !adminAllowed(r) {
			s.writeError(w, http.StatusForbidden, "Forbidden")
			return
		}
		s.writeJSON(w, http.StatusOK, s.store.AllReviews())
	}
}

func (s *Server) adminDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !adminAllowed(r) {
			s.writeError(w, http.StatusForbidden, "Forbidden")
			return
		}
		if !s.store.DeleteReview(chi.URLParam(r, "id")) {
			s.writeError(w, http.StatusNotFound, "Review not found")
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]string{"message": "Review deleted"})
	}
}

func (s *Server) createMultipartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid multipart body")
			return
		}
		rating, _ := strconv.Atoi(strings.TrimSpace(r.FormValue("rating")))

		photoURL := ""
		if file, header, err := r.FormFile("photo"); err == nil {
			data, readErr := io.ReadAll(file)
			_ = file.Close()
			if readErr != nil {
				s.writeError(w, http.StatusBadRequest, "failed to read photo")
				return
			}
			id := s.store.SaveUpload(domain.Photo{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Data:        data,
			})
			photoURL = uploadURL(r, id)
		}

		s.create(w, r.FormValue("restroom_id"), r.FormValue("user_id"), rating, r.FormValue("comment"), photoURL)
	}
}

func (s *Server) createBase64Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req backend.Base64ReviewRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadBytes*2)).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		photoURL := ""
		if req.PhotoBase64 != "" {
			photo, err := domain.DecodeDataURL(req.PhotoBase64, "photo")
			if err != nil {
				s.writeError(w, http.StatusBadRequest, "invalid photo_base64")
				return
			}
			photoURL = uploadURL(r, s.store.SaveUpload(photo))
		}
		s.create(w, req.RestroomID, req.UserID, req.Rating, req.Comment, photoURL)
	}
}

func (s *Server) create(w http.ResponseWriter, restroomID, userID string, rating int, comment, photoURL string) {
	review, err := s.store.CreateReview(restroomID, userID, rating, comment, photoURL)
	switch {
	case errors.Is(err, errUnknownRestroom):
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Info().Str("reviewId", string(review.ID)).Str("restroomId", restroomID).Msg("review created")
	s.writeJSON(w, http.StatusCreated, backend.CreateReviewResponse{
		Message:  "Review created",
		Review:   &review,
		PhotoURL: photoURL,
	})
}

func (s *Server) googleAuthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req backend.GoogleAuthRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Token) == "" {
			s.writeError(w, http.StatusBadRequest, "token is required")
			return
		}
		user, ok := s.store.Identity(req.Token)
		if !ok {
			s.writeError(w, http.StatusUnauthorized, "Invalid Google token")
			return
		}
		s.writeJSON(w, http.StatusOK, backend.AuthResponse{User: &user})
	}
}

func (s *Server) uploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		photo, ok := s.store.Upload(chi.URLParam(r, "id"))
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", photo.ContentType)
		_, _ = w.Write(photo.Data)
	}
}

func uploadURL(r *http.Request, id string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/uploads/" + id
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, backend.ErrorPayload{Error: message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}
