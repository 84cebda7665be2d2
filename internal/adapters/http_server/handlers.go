package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"royal_palate/internal/app"
	"royal_palate/internal/domain"
)

type Handlers struct {
	Q       *app.QueryService
	C       *app.CommandService
	Catalog *app.CatalogService
	Shop    *app.ShoppingService
	// Writes is the budget for POST routes; nil means unlimited.
	Writes *rate.Limiter
}

type problem struct {
	Type   string   `json:"type"`
	Title  string   `json:"title"`
	Status int      `json:"status"`
	Detail string   `json:"detail,omitempty"`
	Fields []string `json:"fields,omitempty"`
}

type list[T any] struct {
	Items []T `json:"items"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/v1/restaurants/{id}/reviews", h.listReviews)
	s.mux.Get("/v1/restaurants/{id}/reviews/summary", h.reviewSummary)
	s.mux.Get("/v1/posts", h.listPosts)
	s.mux.Get("/v1/posts/featured", h.featuredPosts)
	s.mux.Get("/v1/posts/{id}", h.getPost)
	s.mux.Get("/v1/products", h.listProducts)
	s.mux.Get("/v1/categories", h.listCategories)
	s.mux.Get("/v1/recommendations", h.recommendations)
	s.mux.Get("/v1/sessions/{sid}/cart", h.getBasket(domain.KindCart))
	s.mux.Get("/v1/sessions/{sid}/wishlist", h.getBasket(domain.KindWishlist))

	s.mux.Group(func(r chi.Router) {
		r.Use(RateLimit(h.Writes))
		r.Post("/v1/restaurants/{id}/reviews", h.submitReview)
		r.Post("/v1/reviews/{id}/helpful", h.markHelpful)
		r.Post("/v1/reviews/{id}/report", h.reportReview)
		r.Post("/v1/sessions/{sid}/cart/items", h.addToBasket(domain.KindCart))
		r.Post("/v1/sessions/{sid}/wishlist/items", h.addToBasket(domain.KindWishlist))
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemBody(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemBody(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain errors onto problem responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeProblemBody(w, problem{Type: "about:blank", Title: "Validation Failed", Status: http.StatusBadRequest, Detail: ve.Error(), Fields: ve.Fields})
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrOutOfStock):
		writeProblem(w, http.StatusConflict, "Out of Stock", err.Error())
	case errors.Is(err, domain.ErrTransport):
		writeProblem(w, http.StatusServiceUnavailable, "Service Unavailable", "please retry")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached writes v with a weak ETag and answers 304 when the client
// already has it.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func writeValue(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal response")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	writeJSON(w, status, body)
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", name+" must be a positive number")
		return 0, false
	}
	return id, true
}

// ---- reviews ----

// reviewResponse is the public form of a review. The submitter's email stays
// on the stored record and is never rendered.
type reviewResponse struct {
	ID           int64      `json:"id"`
	RestaurantID int64      `json:"restaurantId"`
	Rating       int        `json:"rating"`
	Title        string     `json:"title"`
	Comment      string     `json:"comment"`
	Name         string     `json:"name"`
	VisitDate    *time.Time `json:"visitDate,omitempty"`
	Recommended  bool       `json:"recommended"`
	Date         time.Time  `json:"date"`
	Verified     bool       `json:"verified"`
	Helpful      int        `json:"helpful"`
}

type reviewsResponse struct {
	Items   []reviewResponse `json:"items"`
	Summary domain.Summary   `json:"summary"`
}

func toReviewResponse(r domain.Review) reviewResponse {
	return reviewResponse{
		ID:           r.ID,
		RestaurantID: r.RestaurantID,
		Rating:       r.Rating,
		Title:        r.Title,
		Comment:      r.Comment,
		Name:         r.Name,
		VisitDate:    r.VisitDate,
		Recommended:  r.Recommended,
		Date:         r.Date,
		Verified:     r.Verified,
		Helpful:      r.Helpful,
	}
}

func toReviewsResponse(v app.ReviewsView) reviewsResponse {
	items := make([]reviewResponse, 0, len(v.Items))
	for _, r := range v.Items {
		items = append(items, toReviewResponse(r))
	}
	return reviewsResponse{Items: items, Summary: v.Summary}
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	sortBy, err := domain.ParseSortKey(r.URL.Query().Get("sort"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	filter, err := domain.ParseRatingFilter(r.URL.Query().Get("rating"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	view, err := h.Q.View(r.Context(), id, domain.ReviewQuery{SortBy: sortBy, FilterRating: filter})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, toReviewsResponse(view))
}

func (h *Handlers) reviewSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	sum, err := h.Q.Summary(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, sum)
}

type reviewRequest struct {
	Rating      int    `json:"rating"`
	Title       string `json:"title"`
	Comment     string `json:"comment"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	VisitDate   string `json:"visitDate"`
	Recommended *bool  `json:"recommended"`
}

func parseVisitDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, &domain.ValidationError{Fields: []string{"visitDate"}}
}

func (h *Handlers) submitReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req reviewRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body must be a JSON review")
		return
	}
	visit, err := parseVisitDate(req.VisitDate)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rv, err := h.C.SubmitReview(r.Context(), domain.ReviewInput{
		RestaurantID: id,
		Rating:       req.Rating,
		Title:        req.Title,
		Comment:      req.Comment,
		Name:         req.Name,
		Email:        req.Email,
		VisitDate:    visit,
		Recommended:  req.Recommended,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeValue(w, http.StatusCreated, toReviewResponse(rv))
}

func (h *Handlers) markHelpful(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.C.MarkHelpful(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) reportReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	// the reason is optional, so an empty body is fine
	if r.ContentLength != 0 {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 8<<10)).Decode(&req); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body must be JSON")
			return
		}
	}
	if err := h.C.ReportReview(r.Context(), id, req.Reason); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// ---- catalog ----

func (h *Handlers) listPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sortBy := domain.PostSort(q.Get("sort"))
	switch sortBy {
	case "", domain.PostSortDate, domain.PostSortRating:
	default:
		writeError(w, r, &domain.ValidationError{Fields: []string{"sort"}})
		return
	}
	posts := h.Catalog.ListPosts(domain.PostQuery{Search: q.Get("q"), Category: q.Get("category"), SortBy: sortBy})
	writeCached(w, r, list[domain.Post]{Items: posts})
}

func (h *Handlers) featuredPosts(w http.ResponseWriter, r *http.Request) {
	writeCached(w, r, list[domain.Post]{Items: h.Catalog.FeaturedPosts()})
}

func (h *Handlers) getPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.Catalog.GetPost(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, p)
}

func (h *Handlers) listProducts(w http.ResponseWriter, r *http.Request) {
	writeCached(w, r, list[domain.Product]{Items: h.Catalog.ListProducts(r.URL.Query().Get("category"))})
}

func (h *Handlers) listCategories(w http.ResponseWriter, r *http.Request) {
	writeCached(w, r, list[domain.Category]{Items: h.Catalog.Categories()})
}

func (h *Handlers) recommendations(w http.ResponseWriter, r *http.Request) {
	var viewed []int64
	if raw := r.URL.Query().Get("viewed"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				writeError(w, r, &domain.ValidationError{Fields: []string{"viewed"}})
				return
			}
			viewed = append(viewed, id)
		}
	}
	writeCached(w, r, h.Catalog.Recommend(viewed))
}

// ---- shopping ----

func (h *Handlers) getBasket(kind domain.BasketKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := chi.URLParam(r, "sid")
		var (
			b   domain.Basket
			err error
		)
		if kind == domain.KindCart {
			b, err = h.Shop.Cart(r.Context(), sid)
		} else {
			b, err = h.Shop.Wishlist(r.Context(), sid)
		}
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeValue(w, http.StatusOK, b)
	}
}

func (h *Handlers) addToBasket(kind domain.BasketKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := chi.URLParam(r, "sid")
		var req struct {
			ProductID int64 `json:"productId"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 8<<10)).Decode(&req); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body must be JSON with productId")
			return
		}
		var (
			b   domain.Basket
			err error
		)
		if kind == domain.KindCart {
			b, err = h.Shop.AddToCart(r.Context(), sid, req.ProductID)
		} else {
			b, err = h.Shop.AddToWishlist(r.Context(), sid, req.ProductID)
		}
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeValue(w, http.StatusOK, b)
	}
}
