package domain

import (
	"strings"
	"time"
)

// Review is a user-submitted rating and text about a restaurant.
// Only Helpful changes after creation.
type Review struct {
	ID           int64      `json:"id"`
	RestaurantID int64      `json:"restaurantId"`
	Rating       int        `json:"rating"` // 1..5
	Title        string     `json:"title"`
	Comment      string     `json:"comment"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	VisitDate    *time.Time `json:"visitDate,omitempty"`
	Recommended  bool       `json:"recommended"`
	Date         time.Time  `json:"date"`
	Verified     bool       `json:"verified"` // set only by external moderation
	Helpful      int        `json:"helpful"`
}

// ReviewInput is what a caller submits; the server assigns the rest.
type ReviewInput struct {
	RestaurantID int64
	Rating       int
	Title        string
	Comment      string
	Name         string
	Email        string
	VisitDate    *time.Time
	Recommended  *bool // nil means true
}

// Validate reports every missing or invalid required field at once.
func (in ReviewInput) Validate() error {
	var fields []string
	if in.RestaurantID <= 0 {
		fields = append(fields, "restaurantId")
	}
	if in.Rating < MinRating || in.Rating > MaxRating {
		fields = append(fields, "rating")
	}
	for _, f := range []struct{ name, val string }{
		{"title", in.Title},
		{"comment", in.Comment},
		{"name", in.Name},
		{"email", in.Email},
	} {
		if strings.TrimSpace(f.val) == "" {
			fields = append(fields, f.name)
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// NewReview builds the committed record for a validated input.
func NewReview(in ReviewInput, id int64, now time.Time) Review {
	recommended := true
	if in.Recommended != nil {
		recommended = *in.Recommended
	}
	return Review{
		ID:           id,
		RestaurantID: in.RestaurantID,
		Rating:       in.Rating,
		Title:        strings.TrimSpace(in.Title),
		Comment:      strings.TrimSpace(in.Comment),
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.TrimSpace(in.Email),
		VisitDate:    in.VisitDate,
		Recommended:  recommended,
		Date:         now,
		Verified:     false,
		Helpful:      0,
	}
}

// ToInput recovers the caller-supplied part of a stored review so seeded
// records can go through the same required-field checks as submissions.
func (r Review) ToInput() ReviewInput {
	rec := r.Recommended
	return ReviewInput{
		RestaurantID: r.RestaurantID,
		Rating:       r.Rating,
		Title:        r.Title,
		Comment:      r.Comment,
		Name:         r.Name,
		Email:        r.Email,
		VisitDate:    r.VisitDate,
		Recommended:  &rec,
	}
}

const (
	MinRating = 1
	MaxRating = 5
)

// Summary is computed over the full, unfiltered review set of a restaurant.
type Summary struct {
	Count     int         `json:"count"`
	Average   float64     `json:"average"`
	Histogram map[int]int `json:"histogram"`
}
