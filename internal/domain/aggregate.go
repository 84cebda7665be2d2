package domain

import "math"

// AverageRating is the mean rating rounded to one decimal; 0 for no reviews.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(reviews))*10) / 10
}

// RatingHistogram counts reviews per star value. All five keys are always present.
func RatingHistogram(reviews []Review) map[int]int {
	h := make(map[int]int, MaxRating)
	for star := MinRating; star <= MaxRating; star++ {
		h[star] = 0
	}
	for _, r := range reviews {
		if r.Rating >= MinRating && r.Rating <= MaxRating {
			h[r.Rating]++
		}
	}
	return h
}

func Summarize(reviews []Review) Summary {
	return Summary{
		Count:     len(reviews),
		Average:   AverageRating(reviews),
		Histogram: RatingHistogram(reviews),
	}
}
