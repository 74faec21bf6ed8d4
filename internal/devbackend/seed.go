package devbackend

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sngm3741/ku-toilet-map/web/internal/infrastructure/backend"
)

type seedRestroom struct {
	name       string
	lat, lng   float64
	floor      string
	tissue     bool
	bidet      bool
	weekdays   string
	saturday   string
	sunday     string
	photoCount int
}

// campus restrooms on the Kasetsart Bangkhen map.
var campusRestrooms = []seedRestroom{
	{"อาคารสารสนเทศ", 13.8475, 100.5695, "ห้องน้ำอยู่ที่ชั้น 1", true, true, "8:00 - 20:00", "9:00 - 18:00", "Closed", 3},
	{"ตึก SC-45", 13.845872, 100.5710799, "คณะวิทยาศาสตร์ ชั้น 2", true, true, "9:00 - 20:00", "10:00 - 18:00", "Closed", 5},
	{"สำนักบริการคอมพิวเตอร์", 13.8447, 100.5679, "ชั้น 1", true, false, "8:00 - 22:00", "9:00 - 18:00", "9:00 - 18:00", 1},
	{"ศูนย์เรียนรวม 4", 13.8500161, 100.5694243, "ชั้น 1", true, true, "6:00 - 20:00", "7:00 - 18:00", "7:00 - 18:00", 3},
	{"สำนักหอสมุด", 13.8481469, 100.5720633, "ชั้น 1", true, true, "8:00 - 18:30", "8:00 - 18:30", "Closed", 3},
	{"ศูนย์เรียนรวม 3", 13.8494822, 100.5693871, "ชั้น 1", true, true, "7:00 - 18:00", "7:00 - 16:30", "7:00 - 16:30", 3},
	{"โรงอาหารกลาง 2", 13.8522467, 100.571537, "ห้องน้ำอยู่ที่ชั้น 1", false, true, "8:00 - 20:00", "9:00 - 18:00", "Closed", 3},
	{"คณะสัตวแพทย์ศาสตร์", 13.8446855, 100.5768418, "อาคารจักรพิชัยรณรงค์สงคราม", false, true, "8:00 - 20:00", "9:00 - 18:00", "Closed", 3},
}

// SeedRestrooms returns the campus catalog. Ids are 1-based positions.
func SeedRestrooms() []backend.RestroomPayload {
	result := make([]backend.RestroomPayload, 0, len(campusRestrooms))
	for i, seed := range campusRestrooms {
		result = append(result, backend.RestroomPayload{
			ID:             backend.FlexID(fmt.Sprintf("%d", i+1)),
			Name:           seed.name,
			Latitude:       backend.FlexFloat(seed.lat),
			Longitude:      backend.FlexFloat(seed.lng),
			Floor:          seed.floor,
			IsWomen:        true,
			IsMen:          true,
			IsAccessible:   true,
			HasBidet:       backend.FlexBool(seed.bidet),
			HasTissue:      backend.FlexBool(seed.tissue),
			IsFree:         true,
			MondayHours:    seed.weekdays,
			TuesdayHours:   seed.weekdays,
			WednesdayHours: seed.weekdays,
			ThursdayHours:  seed.weekdays,
			FridayHours:    seed.weekdays,
			SaturdayHours:  seed.saturday,
			SundayHours:    seed.sunday,
		})
	}
	return result
}

// SeedPhotos returns Drive-style share links so the thumbnail rewrite is exercised locally.
func SeedPhotos() []backend.PhotoPayload {
	var result []backend.PhotoPayload
	for i, seed := range campusRestrooms {
		for n := 1; n <= seed.photoCount; n++ {
			result = append(result, backend.PhotoPayload{
				ID:         backend.FlexID(fmt.Sprintf("%d-%d", i+1, n)),
				RestroomID: backend.FlexID(fmt.Sprintf("%d", i+1)),
				URL:        fmt.Sprintf("https://drive.google.com/file/d/restroom%dphoto%d/view?usp=sharing", i+1, n),
			})
		}
	}
	return result
}

var (
	seedAuthors  = []string{"Somchai", "Malee", "Anan", "Kanya", "Preecha", "Siriporn"}
	seedComments = []string{
		"สะอาดมาก",
		"Clean and quiet in the morning.",
		"ไม่มีทิชชู่ตอนเย็น",
		"Crowded between classes.",
		"Bidet works, soap was empty.",
		"ดีมาก แนะนำ",
	}
)

// RandomReviews generates count reviews spread over the seeded restrooms.
func RandomReviews(count int, rng *rand.Rand, now time.Time) []backend.ReviewPayload {
	result := make([]backend.ReviewPayload, 0, count)
	for i := 0; i < count; i++ {
		restroom := rng.Intn(len(campusRestrooms))
		author := rng.Intn(len(seedAuthors))
		result = append(result, backend.ReviewPayload{
			ID:           backend.FlexID(uuid.NewString()),
			RestroomID:   backend.FlexID(fmt.Sprintf("%d", restroom+1)),
			RestroomName: campusRestrooms[restroom].name,
			UserID:       backend.FlexID(fmt.Sprintf("seed-%d", author+1)),
			Username:     seedAuthors[author],
			Email:        strings.ToLower(seedAuthors[author]) + "@ku.th",
			Rating:       backend.FlexInt(1 + rng.Intn(5)),
			Comment:      seedComments[rng.Intn(len(seedComments))],
			CreatedAt:    backend.FlexTime{Time: now.Add(-time.Duration(rng.Intn(90*24)) * time.Hour).UTC()},
		})
	}
	return result
}
