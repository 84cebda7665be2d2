package domain

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Post is a restaurant write-up on the blog. Its ID doubles as the
// restaurant identifier reviews are scoped by.
type Post struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Excerpt  string    `json:"excerpt"`
	Image    string    `json:"image"`
	Date     time.Time `json:"date"`
	Location string    `json:"location"`
	Category string    `json:"category"`
	Rating   int       `json:"rating"`
	ReadTime string    `json:"readTime"`
	Tags     []string  `json:"tags"`
	Featured bool      `json:"featured"`
}

type Product struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"originalPrice"`
	Image         string   `json:"image"`
	Category      string   `json:"category"`
	Rating        float64  `json:"rating"`
	ReviewCount   int      `json:"reviewCount"`
	InStock       bool     `json:"inStock"`
	Tags          []string `json:"tags"`
	Discount      int      `json:"discount"` // percent
	Featured      bool     `json:"featured"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PostSort string

const (
	PostSortDate   PostSort = "date"
	PostSortRating PostSort = "rating"
)

type PostQuery struct {
	Search   string
	Category string // "" or "all" matches any
	SortBy   PostSort
}

// FilterPosts matches Search case-insensitively against title and excerpt,
// then sorts newest first (default) or by rating, keeping input order on ties.
func FilterPosts(posts []Post, q PostQuery) []Post {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if q.Category != "" && q.Category != "all" && p.Category != q.Category {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.Excerpt), needle) {
			continue
		}
		out = append(out, p)
	}
	switch q.SortBy {
	case PostSortRating:
		slices.SortStableFunc(out, func(a, b Post) int { return cmp.Compare(b.Rating, a.Rating) })
	default:
		slices.SortStableFunc(out, func(a, b Post) int { return b.Date.Compare(a.Date) })
	}
	return out
}

const (
	recommendationLimit = 4
	trendingMinRating   = 4.7
	dealMinDiscount     = 20
)

// Recommendations are the storefront's curated buckets.
type Recommendations struct {
	Featured []Product `json:"featured"`
	Trending []Product `json:"trending"`
	Deals    []Product `json:"deals"`
	Similar  []Product `json:"similar"`
}

// Recommend buckets products in catalog order; each bucket holds at most four.
func Recommend(products []Product, viewed []int64) Recommendations {
	pick := func(keep func(Product) bool) []Product {
		out := make([]Product, 0, recommendationLimit)
		for _, p := range products {
			if len(out) == recommendationLimit {
				break
			}
			if keep(p) {
				out = append(out, p)
			}
		}
		return out
	}
	return Recommendations{
		Featured: pick(func(p Product) bool { return p.Featured }),
		Trending: pick(func(p Product) bool { return p.Rating >= trendingMinRating }),
		Deals:    pick(func(p Product) bool { return p.Discount > dealMinDiscount }),
		Similar:  pick(func(p Product) bool { return !slices.Contains(viewed, p.ID) }),
	}
}
