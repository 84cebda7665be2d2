package app

import (
	"fmt"

	"royal_palate/internal/domain"
)

func reviewsKey(restaurantID int64, q domain.ReviewQuery) string {
	return fmt.Sprintf("reviews:%d:%s", restaurantID, q.String())
}

func summaryKey(restaurantID int64) string {
	return fmt.Sprintf("reviews:%d:summary", restaurantID)
}

// reviewKeys lists every cached view of a restaurant: each sort/filter pair
// plus the summary.
func reviewKeys(restaurantID int64) []string {
	keys := make([]string, 0, len(domain.SortKeys)*len(domain.RatingFilters)+1)
	for _, s := range domain.SortKeys {
		for _, f := range domain.RatingFilters {
			keys = append(keys, reviewsKey(restaurantID, domain.ReviewQuery{SortBy: s, FilterRating: f}))
		}
	}
	return append(keys, summaryKey(restaurantID))
}
