package devbackend

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sngm3741/ku-toilet-map/web/internal/infrastructure/backend"
	"github.com/sngm3741/ku-toilet-map/web/internal/public/domain"
)

// Store is the in-memory state behind the development upstream.
type Store struct {
	mu         sync.RWMutex
	restrooms  []backend.RestroomPayload
	photos     []backend.PhotoPayload
	reviews    []backend.ReviewPayload
	uploads    map[string]domain.Photo
	identities map[string]backend.UserPayload
	now        func() time.Time
}

func NewStore() *Store {
	return &Store{
		uploads:    map[string]domain.Photo{},
		identities: map[string]backend.UserPayload{},
		now:        time.Now,
	}
}

// NewSeededStore returns a store holding the campus catalog and two sign-in identities.
func NewSeededStore() *Store {
	s := NewStore()
	s.restrooms = SeedRestrooms()
	s.photos = SeedPhotos()
	s.RegisterIdentity(AdminToken, backend.UserPayload{ID: "admin", Email: "admkutoilet@gmail.com", FirstName: "KU", LastName: "Admin"})
	s.RegisterIdentity(StudentToken, backend.UserPayload{ID: "student", Email: "student@ku.th", FirstName: "Nisit", LastName: "KU"})
	return s
}

// Well-known sign-in tokens of the seeded store.
const (
	AdminToken   = "dev-admin-token"
	StudentToken = "dev-student-token"
)

func (s *Store) RegisterIdentity(token string, user backend.UserPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identities[token] = user
}

func (s *Store) Identity(token string) (backend.UserPayload, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.identities[token]
	return user, ok
}

// AddRestroom appends a restroom, assigning the next numeric id when empty.
func (s *Store) AddRestroom(r backend.RestroomPayload, photoURLs ...string) backend.RestroomPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = backend.FlexID(uuid.NewString())
	}
	s.restrooms = append(s.restrooms, r)
	for _, url := range photoURLs {
		s.photos = append(s.photos, backend.PhotoPayload{ID: backend.FlexID(uuid.NewString()), RestroomID: r.ID, URL: url})
	}
	return r
}

func (s *Store) AddReviews(reviews ...backend.ReviewPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews = append(s.reviews, reviews...)
}

func (s *Store) restroom(id string) (backend.RestroomPayload, bool) {
	for _, r := range s.restrooms {
		if string(r.ID) == id {
			return r, true
		}
	}
	return backend.RestroomPayload{}, false
}

// Details renders GET /restrooms/details.
func (s *Store) Details() []backend.RestroomDetails {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]backend.RestroomDetails, 0, len(s.restrooms))
	for _, r := range s.restrooms {
		item := backend.RestroomDetails{Restroom: r, Reviews: []backend.ReviewPayload{}, Photos: []backend.PhotoPayload{}}
		for _, review := range s.reviews {
			if review.RestroomID == r.ID {
				item.Reviews = append(item.Reviews, review)
			}
		}
		for _, photo := range s.photos {
			if photo.RestroomID == r.ID {
				item.Photos = append(item.Photos, photo)
			}
		}
		result = append(result, item)
	}
	return result
}

// CreateReview validates and stores a review. photoURL may be empty.
func (s *Store) CreateReview(restroomID, userID string, rating int, comment, photoURL string) (backend.ReviewPayload, error) {
	if strings.TrimSpace(restroomID) == "" || strings.TrimSpace(userID) == "" {
		return backend.ReviewPayload{}, errMissingFields
	}
	if rating < 1 || rating > 5 {
		return backend.ReviewPayload{}, errRatingRange
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	restroom, ok := s.restroom(restroomID)
	if !ok {
		return backend.ReviewPayload{}, errUnknownRestroom
	}
	username, email := "", ""
	for _, identity := range s.identities {
		if string(identity.ID) == userID {
			username = strings.TrimSpace(identity.FirstName + " " + identity.LastName)
			email = identity.Email
			break
		}
	}
	review := backend.ReviewPayload{
		ID:           backend.FlexID(uuid.NewString()),
		RestroomID:   restroom.ID,
		RestroomName: restroom.Name,
		UserID:       backend.FlexID(userID),
		Username:     username,
		Email:        email,
		Rating:       backend.FlexInt(rating),
		Comment:      comment,
		PhotoURL:     photoURL,
		CreatedAt:    backend.FlexTime{Time: s.now().UTC()},
	}
	s.reviews = append(s.reviews, review)
	return review, nil
}

// SaveUpload keeps an uploaded photo and returns its id.
func (s *Store) SaveUpload(photo domain.Photo) string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads[id] = photo
	return id
}

func (s *Store) Upload(id string) (domain.Photo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	photo, ok := s.uploads[id]
	return photo, ok
}

// ReviewsByUser returns the user's reviews, newest first.
func (s *Store) ReviewsByUser(userID string) []backend.ReviewPayload {
	s.mu.RLock()
	result := make([]backend.ReviewPayload, 0)
	for _, review := range s.reviews {
		if string(review.UserID) == userID {
			result = append(result, review)
		}
	}
	s.mu.RUnlock()
	sortNewestFirst(result)
	return result
}

// AllReviews returns every review, newest first.
func (s *Store) AllReviews() []backend.ReviewPayload {
	s.mu.RLock()
	result := append([]backend.ReviewPayload{}, s.reviews...)
	s.mu.RUnlock()
	sortNewestFirst(result)
	return result
}

// DeleteReview reports whether a review was removed.
func (s *Store) DeleteReview(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, review := range s.reviews {
		if string(review.ID) == id {
			s.reviews = append(s.reviews[:i], s.reviews[i+1:]...)
			return true
		}
	}
	return false
}

func sortNewestFirst(reviews []backend.ReviewPayload) {
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt.Time)
	})
}
