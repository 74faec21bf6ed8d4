package backend

import (
	"strings"

	admindomain "github.com/sngm3741/ku-toilet-map/web/internal/admin/domain"
	"github.com/sngm3741/ku-toilet-map/web/internal/public/domain"
	"github.com/sngm3741/ku-toilet-map/web/internal/session"
)

func toCatalogEntry(item RestroomDetails) domain.CatalogEntry {
	r := item.Restroom
	restroom := domain.Restroom{
		ID:       string(r.ID),
		Name:     strings.TrimSpace(r.Name),
		Floor:    strings.TrimSpace(r.Floor),
		Location: domain.Coordinate{Lat: float64(r.Latitude), Lng: float64(r.Longitude)},
		Amenities: domain.Amenities{
			Women:      bool(r.IsWomen),
			Men:        bool(r.IsMen),
			Accessible: bool(r.IsAccessible),
			Bidet:      bool(r.HasBidet),
			Tissue:     bool(r.HasTissue),
			Free:       bool(r.IsFree),
		},
		Hours: domain.NewOpeningHours(map[domain.Weekday]string{
			domain.Monday:    r.MondayHours,
			domain.Tuesday:   r.TuesdayHours,
			domain.Wednesday: r.WednesdayHours,
			domain.Thursday:  r.ThursdayHours,
			domain.Friday:    r.FridayHours,
			domain.Saturday:  r.SaturdayHours,
			domain.Sunday:    r.SundayHours,
		}),
	}
	for _, photo := range item.Photos {
		restroom.PhotoURLs = append(restroom.PhotoURLs, photo.URL)
	}

	reviews := make([]domain.Review, 0, len(item.Reviews))
	for _, payload := range item.Reviews {
		review := toReview(payload)
		if review.RestroomID == "" {
			review.RestroomID = restroom.ID
		}
		review.RestroomName = restroom.Name
		reviews = append(reviews, review)
	}
	return domain.CatalogEntry{Restroom: restroom, Reviews: reviews}
}

func toReview(p ReviewPayload) domain.Review {
	return domain.Review{
		ID:           string(p.ID),
		RestroomID:   string(p.RestroomID),
		RestroomName: strings.TrimSpace(p.RestroomName),
		UserID:       string(p.UserID),
		Author:       strings.TrimSpace(p.Username),
		Email:        strings.TrimSpace(p.Email),
		Comment:      p.Comment,
		Rating:       int(p.Rating),
		PhotoURL:     domain.NormalizePhotoURL(p.PhotoURL),
		CreatedAt:    p.CreatedAt.Time,
	}
}

func toCreatedReview(resp CreateReviewResponse) domain.Review {
	var review domain.Review
	if resp.Review != nil {
		review = toReview(*resp.Review)
	}
	if url := strings.TrimSpace(resp.PhotoURL); url != "" {
		review.PhotoURL = domain.NormalizePhotoURL(url)
	}
	return review
}

func toAdminReview(p ReviewPayload) admindomain.Review {
	email, err := admindomain.NewEmail(p.Email)
	if err != nil {
		email = admindomain.Email(strings.TrimSpace(p.Email))
	}
	rating, err := admindomain.NewRating(int(p.Rating))
	if err != nil {
		rating = 0
	}
	return admindomain.Review{
		ID:         string(p.ID),
		RestroomID: string(p.RestroomID),
		Location:   strings.TrimSpace(p.RestroomName),
		Author:     strings.TrimSpace(p.Username),
		Email:      email,
		Comment:    p.Comment,
		Rating:     rating,
		PhotoURL:   domain.NormalizePhotoURL(p.PhotoURL),
		CreatedAt:  p.CreatedAt.Time,
	}
}

func toUser(p UserPayload) session.User {
	return session.User{
		ID:        string(p.ID),
		Email:     strings.TrimSpace(p.Email),
		FirstName: strings.TrimSpace(p.FirstName),
		LastName:  strings.TrimSpace(p.LastName),
		Picture:   strings.TrimSpace(p.Picture),
	}
}
