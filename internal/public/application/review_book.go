package application

import (
	"sort"
	"sync"

	"github.com/sngm3741/ku-toilet-map/web/internal/public/domain"
)

// ReviewBook はレストルーム表示名をキーにレビューを保持するインメモリ索引。
// 同名のレストルームはレビューが合流する（表示名で紐付けているため）。
// ローカルでの追加・削除は連番付きで記録され、取得開始後の変更はロード結果に再適用される。
type ReviewBook struct {
	mu      sync.RWMutex
	byName  map[string][]domain.Review
	seq     uint64
	journal []bookChange
}

// bookChange is one local mutation. removeID is set for deletions.
type bookChange struct {
	seq      uint64
	name     string
	review   domain.Review
	removeID string
}

func NewReviewBook() *ReviewBook {
	return &ReviewBook{byName: map[string][]domain.Review{}}
}

// Mark returns the sequence number of the latest local change. A load takes it
// before fetching and hands it back to Replace.
func (b *ReviewBook) Mark() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.seq
}

// Replace swaps the whole book for a loaded snapshot, then re-applies every local
// change made after mark since the snapshot may predate it.
func (b *ReviewBook) Replace(entries []domain.CatalogEntry, mark uint64) {
	next := make(map[string][]domain.Review, len(entries))
	for _, entry := range entries {
		name := entry.Restroom.Name
		next[name] = append(next[name], entry.Reviews...)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	pending := b.journal[:0:0]
	for _, change := range b.journal {
		if change.seq <= mark {
			continue
		}
		pending = append(pending, change)
		if change.removeID != "" {
			removeFrom(next, change.removeID)
		} else {
			appendTo(next, change.name, change.review)
		}
	}
	b.journal = pending
	b.byName = next
}

// Append adds a freshly submitted review.
func (b *ReviewBook) Append(restroomName string, review domain.Review) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	b.journal = append(b.journal, bookChange{seq: b.seq, name: restroomName, review: review})
	appendTo(b.byName, restroomName, review)
}

// ForRestroom returns a copy of the reviews for a restroom name, newest first.
func (b *ReviewBook) ForRestroom(restroomName string) []domain.Review {
	b.mu.RLock()
	reviews := append([]domain.Review(nil), b.byName[restroomName]...)
	b.mu.RUnlock()

	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	return reviews
}

// HasPhoto reports whether any filed review carries photoURL.
func (b *ReviewBook) HasPhoto(photoURL string) bool {
	if photoURL == "" {
		return false
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, reviews := range b.byName {
		for _, review := range reviews {
			if review.PhotoURL == photoURL {
				return true
			}
		}
	}
	return false
}

// Remove deletes a review by id wherever it is filed. It reports whether anything was removed.
func (b *ReviewBook) Remove(reviewID string) bool {
	if reviewID == "" {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	b.journal = append(b.journal, bookChange{seq: b.seq, removeID: reviewID})
	return removeFrom(b.byName, reviewID)
}

// appendTo files review under name unless a review with the same id is already there.
func appendTo(byName map[string][]domain.Review, name string, review domain.Review) {
	if review.ID != "" {
		for _, existing := range byName[name] {
			if existing.ID == review.ID {
				return
			}
		}
	}
	byName[name] = append(byName[name], review)
}

func removeFrom(byName map[string][]domain.Review, reviewID string) bool {
	removed := false
	for name, reviews := range byName {
		kept := reviews[:0:0]
		for _, review := range reviews {
			if review.ID == reviewID {
				removed = true
				continue
			}
			kept = append(kept, review)
		}
		byName[name] = kept
	}
	return removed
}
