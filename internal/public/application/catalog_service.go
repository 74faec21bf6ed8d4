package application

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/sngm3741/ku-toilet-map/web/internal/public/domain"
)

// CatalogService は上流から取得したカタログのスナップショットを保持し、絞り込み検索を提供する。
// ロードは単調増加のチケットで順序付けされ、後から発行したリクエストの結果だけが反映される。
type CatalogService struct {
	repo   CatalogRepository
	book   *ReviewBook
	logger zerolog.Logger

	issued atomic.Uint64

	mu       sync.RWMutex
	applied  uint64
	records  []domain.Restroom
	loadedAt time.Time
}

func NewCatalogService(repo CatalogRepository, book *ReviewBook, logger zerolog.Logger) *CatalogService {
	return &CatalogService{
		repo:   repo,
		book:   book,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// Load fetches the catalog once. On failure the current snapshot is left untouched
// and the error is logged and returned; callers are free to ignore it.
func (s *CatalogService) Load(ctx context.Context) error {
	ticket := s.issued.Add(1)
	var mark uint64
	if s.book != nil {
		mark = s.book.Mark()
	}

	entries, err := s.repo.FetchCatalog(ctx)
	if err != nil {
		s.logger.Error().Err(err).Uint64("ticket", ticket).Msg("catalog load failed")
		return err
	}

	records := make([]domain.Restroom, 0, len(entries))
	for i := range entries {
		entries[i].Restroom = buildRecord(entries[i])
		records = append(records, entries[i].Restroom)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket <= s.applied {
		s.logger.Debug().Uint64("ticket", ticket).Uint64("applied", s.applied).Msg("discarding stale catalog response")
		return nil
	}
	s.applied = ticket
	s.records = records
	s.loadedAt = time.Now().UTC()
	if s.book != nil {
		s.book.Replace(entries, mark)
	}
	s.logger.Info().Int("restrooms", len(records)).Uint64("ticket", ticket).Msg("catalog loaded")
	return nil
}

func buildRecord(entry domain.CatalogEntry) domain.Restroom {
	record := entry.Restroom
	record.Rating = domain.AverageRating(domain.ReviewRatings(entry.Reviews))
	record.ReviewCount = len(entry.Reviews)
	record.Hours = domain.NewOpeningHours(record.Hours)
	record.PhotoURLs = domain.NormalizePhotoURLs(record.PhotoURLs)
	return record
}

// RunRefresher reloads the catalog every interval until ctx is cancelled.
func (s *CatalogService) RunRefresher(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_ = s.Load(ctx)
		}
	}
}

// Snapshot returns the current catalog in upstream order.
func (s *CatalogService) Snapshot() []domain.Restroom {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Restroom(nil), s.records...)
}

// LoadedAt is the time of the last applied load, zero before the first one.
func (s *CatalogService) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Find looks a restroom up by id.
func (s *CatalogService) Find(id string) (domain.Restroom, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, record := range s.records {
		if record.ID == id {
			return record, true
		}
	}
	return domain.Restroom{}, false
}

// KnownPhoto reports whether photoURL belongs to a restroom of the current snapshot
// or to a filed review. Only known photos are proxied.
func (s *CatalogService) KnownPhoto(photoURL string) bool {
	s.mu.RLock()
	for _, record := range s.records {
		for _, candidate := range record.PhotoURLs {
			if candidate == photoURL {
				s.mu.RUnlock()
				return true
			}
		}
	}
	s.mu.RUnlock()
	return s.book != nil && s.book.HasPhoto(photoURL)
}

// Query applies the filter and, when an origin is given, orders by distance.
func (s *CatalogService) Query(q CatalogQuery) []RankedRestroom {
	filtered := domain.ApplyFilter(s.Snapshot(), q.Filter)
	if q.Origin != nil {
		domain.SortByDistance(filtered, *q.Origin)
	}

	result := make([]RankedRestroom, 0, len(filtered))
	for _, record := range filtered {
		ranked := RankedRestroom{Restroom: record}
		if q.Origin != nil {
			distance := domain.DistanceMeters(*q.Origin, record.Location)
			ranked.DistanceMeters = &distance
		}
		result = append(result, ranked)
	}
	return result
}

// Reviews returns the reviews filed under the restroom's display name.
func (s *CatalogService) Reviews(record domain.Restroom) []domain.Review {
	if s.book == nil {
		return nil
	}
	return s.book.ForRestroom(record.Name)
}
